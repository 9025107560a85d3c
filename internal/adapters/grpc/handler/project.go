package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/project"
)

const projectServiceName = "workforce.v1.ProjectService"

// ProjectServiceServer は ProjectService のハンドラインターフェースです。
type ProjectServiceServer interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*CreateProjectResponse, error)
	GetProject(ctx context.Context, req *GetProjectRequest) (*GetProjectResponse, error)
}

// ProjectHandler は ProjectService の gRPC 実装です。
type ProjectHandler struct {
	svc    project.UseCase
	actors *ActorResolver
}

// NewProjectHandler は ProjectHandler を生成します。
func NewProjectHandler(svc project.UseCase, actors *ActorResolver) *ProjectHandler {
	return &ProjectHandler{svc: svc, actors: actors}
}

// Register はハンドラを gRPC サーバーへ登録します。
func (h *ProjectHandler) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(&projectServiceDesc, h)
}

// CreateProject はプロジェクトを作成します。
func (h *ProjectHandler) CreateProject(ctx context.Context, req *CreateProjectRequest) (*CreateProjectResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateProject(ctx, project.CreateProjectInput{
		Name:                req.Name,
		ReferringEmployeeID: req.ReferringEmployeeId,
	}, actor)
	if err != nil {
		return nil, err
	}

	return &CreateProjectResponse{Project: toProjectMessage(created)}, nil
}

// GetProject はプロジェクトを取得します。
func (h *ProjectHandler) GetProject(ctx context.Context, req *GetProjectRequest) (*GetProjectResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetProject(ctx, project.GetProjectInput{ID: req.Id}, actor)
	if err != nil {
		return nil, err
	}

	return &GetProjectResponse{Project: toProjectMessage(found)}, nil
}

var projectServiceDesc = grpc.ServiceDesc{
	ServiceName: projectServiceName,
	HandlerType: (*ProjectServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateProject",
			Handler: unary("/"+projectServiceName+"/CreateProject", func(srv any, ctx context.Context, req *CreateProjectRequest) (any, error) {
				return srv.(ProjectServiceServer).CreateProject(ctx, req)
			}),
		},
		{
			MethodName: "GetProject",
			Handler: unary("/"+projectServiceName+"/GetProject", func(srv any, ctx context.Context, req *GetProjectRequest) (any, error) {
				return srv.(ProjectServiceServer).GetProject(ctx, req)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}
