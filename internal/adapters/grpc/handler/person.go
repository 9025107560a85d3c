package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
)

const personServiceName = "workforce.v1.PersonService"

// PersonServiceServer は PersonService のハンドラインターフェースです。
type PersonServiceServer interface {
	CreatePerson(ctx context.Context, req *CreatePersonRequest) (*CreatePersonResponse, error)
	GetPerson(ctx context.Context, req *GetPersonRequest) (*GetPersonResponse, error)
	ListPeople(ctx context.Context, req *ListPeopleRequest) (*ListPeopleResponse, error)
}

// PersonHandler は PersonService の gRPC 実装です。
type PersonHandler struct {
	svc person.UseCase
}

// NewPersonHandler は PersonHandler を生成します。
func NewPersonHandler(svc person.UseCase) *PersonHandler {
	return &PersonHandler{svc: svc}
}

// Register はハンドラを gRPC サーバーへ登録します。
func (h *PersonHandler) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(&personServiceDesc, h)
}

// CreatePerson は従業員を登録します。
func (h *PersonHandler) CreatePerson(ctx context.Context, req *CreatePersonRequest) (*CreatePersonResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var rolePtr *person.Role
	if req.Role != "" {
		role := person.Role(req.Role)
		rolePtr = &role
	}

	created, err := h.svc.CreatePerson(ctx, person.CreatePersonInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     rolePtr,
	})
	if err != nil {
		return nil, err
	}

	return &CreatePersonResponse{Person: toPersonMessage(created)}, nil
}

// GetPerson は従業員を取得します。
func (h *PersonHandler) GetPerson(ctx context.Context, req *GetPersonRequest) (*GetPersonResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetPerson(ctx, person.GetPersonInput{ID: req.Id})
	if err != nil {
		return nil, err
	}

	return &GetPersonResponse{Person: toPersonMessage(found)}, nil
}

// ListPeople は従業員の一覧を取得します。
func (h *PersonHandler) ListPeople(ctx context.Context, req *ListPeopleRequest) (*ListPeopleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var rolePtr *person.Role
	if req.Role != "" {
		role := person.Role(req.Role)
		rolePtr = &role
	}

	result, err := h.svc.ListPeople(ctx, person.ListPeopleInput{
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
		Role:      rolePtr,
	})
	if err != nil {
		return nil, err
	}

	people := make([]*PersonMessage, 0, len(result.People))
	for _, p := range result.People {
		people = append(people, toPersonMessage(p))
	}

	return &ListPeopleResponse{
		People:        people,
		NextPageToken: result.NextPageToken,
	}, nil
}

var personServiceDesc = grpc.ServiceDesc{
	ServiceName: personServiceName,
	HandlerType: (*PersonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreatePerson",
			Handler: unary("/"+personServiceName+"/CreatePerson", func(srv any, ctx context.Context, req *CreatePersonRequest) (any, error) {
				return srv.(PersonServiceServer).CreatePerson(ctx, req)
			}),
		},
		{
			MethodName: "GetPerson",
			Handler: unary("/"+personServiceName+"/GetPerson", func(srv any, ctx context.Context, req *GetPersonRequest) (any, error) {
				return srv.(PersonServiceServer).GetPerson(ctx, req)
			}),
		},
		{
			MethodName: "ListPeople",
			Handler: unary("/"+personServiceName+"/ListPeople", func(srv any, ctx context.Context, req *ListPeopleRequest) (any, error) {
				return srv.(PersonServiceServer).ListPeople(ctx, req)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}
