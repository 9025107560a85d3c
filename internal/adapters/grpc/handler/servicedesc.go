package handler

import (
	"context"

	"google.golang.org/grpc"
)

// methodHandler は grpc.MethodDesc が要求するハンドラ形式です。
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

// unary はリクエスト型ごとのデコードとインターセプター適用を共通化します。
func unary[Req any](fullMethod string, invoke func(srv any, ctx context.Context, req *Req) (any, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return invoke(srv, ctx, req.(*Req))
		})
	}
}
