package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/assignment"
)

const assignmentServiceName = "workforce.v1.AssignmentService"

// AssignmentServiceServer は AssignmentService のハンドラインターフェースです。
type AssignmentServiceServer interface {
	CreateAssignment(ctx context.Context, req *CreateAssignmentRequest) (*CreateAssignmentResponse, error)
	GetAssignment(ctx context.Context, req *GetAssignmentRequest) (*GetAssignmentResponse, error)
	ListAssignments(ctx context.Context, req *ListAssignmentsRequest) (*ListAssignmentsResponse, error)
}

// AssignmentHandler は AssignmentService の gRPC 実装です。
type AssignmentHandler struct {
	svc    assignment.UseCase
	actors *ActorResolver
}

// NewAssignmentHandler は AssignmentHandler を生成します。
func NewAssignmentHandler(svc assignment.UseCase, actors *ActorResolver) *AssignmentHandler {
	return &AssignmentHandler{svc: svc, actors: actors}
}

// Register はハンドラを gRPC サーバーへ登録します。
func (h *AssignmentHandler) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(&assignmentServiceDesc, h)
}

// CreateAssignment は配属を作成します。
func (h *AssignmentHandler) CreateAssignment(ctx context.Context, req *CreateAssignmentRequest) (*CreateAssignmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}

	created, err := h.svc.Create(ctx, assignment.CreateAssignmentInput{
		PersonID:  req.PersonId,
		ProjectID: req.ProjectId,
		StartDate: start,
		EndDate:   end,
	}, actor)
	if err != nil {
		return nil, err
	}

	return &CreateAssignmentResponse{Assignment: toAssignmentMessage(created)}, nil
}

// GetAssignment は配属を取得します。
func (h *AssignmentHandler) GetAssignment(ctx context.Context, req *GetAssignmentRequest) (*GetAssignmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.Get(ctx, assignment.GetAssignmentInput{ID: req.Id}, actor)
	if err != nil {
		return nil, err
	}

	return &GetAssignmentResponse{Assignment: toAssignmentMessage(found)}, nil
}

// ListAssignments は配属の一覧を取得します。
func (h *AssignmentHandler) ListAssignments(ctx context.Context, req *ListAssignmentsRequest) (*ListAssignmentsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := h.svc.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	result := make([]*AssignmentSummaryMessage, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, &AssignmentSummaryMessage{
			Id:                  s.ID,
			ProjectName:         s.ProjectName,
			ReferringEmployeeId: s.ReferringEmployeeID,
		})
	}

	return &ListAssignmentsResponse{Assignments: result}, nil
}

var assignmentServiceDesc = grpc.ServiceDesc{
	ServiceName: assignmentServiceName,
	HandlerType: (*AssignmentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAssignment",
			Handler: unary("/"+assignmentServiceName+"/CreateAssignment", func(srv any, ctx context.Context, req *CreateAssignmentRequest) (any, error) {
				return srv.(AssignmentServiceServer).CreateAssignment(ctx, req)
			}),
		},
		{
			MethodName: "GetAssignment",
			Handler: unary("/"+assignmentServiceName+"/GetAssignment", func(srv any, ctx context.Context, req *GetAssignmentRequest) (any, error) {
				return srv.(AssignmentServiceServer).GetAssignment(ctx, req)
			}),
		},
		{
			MethodName: "ListAssignments",
			Handler: unary("/"+assignmentServiceName+"/ListAssignments", func(srv any, ctx context.Context, req *ListAssignmentsRequest) (any, error) {
				return srv.(AssignmentServiceServer).ListAssignments(ctx, req)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}
