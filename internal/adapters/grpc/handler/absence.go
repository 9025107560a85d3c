package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/absence"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
)

const absenceServiceName = "workforce.v1.AbsenceService"

// AbsenceServiceServer は AbsenceService のハンドラインターフェースです。
type AbsenceServiceServer interface {
	CreateEvent(ctx context.Context, req *CreateAbsenceEventRequest) (*CreateAbsenceEventResponse, error)
	GetEvent(ctx context.Context, req *GetAbsenceEventRequest) (*GetAbsenceEventResponse, error)
	ListEvents(ctx context.Context, req *ListAbsenceEventsRequest) (*ListAbsenceEventsResponse, error)
	ApproveEvent(ctx context.Context, req *DecideAbsenceEventRequest) (*DecideAbsenceEventResponse, error)
	DeclineEvent(ctx context.Context, req *DecideAbsenceEventRequest) (*DecideAbsenceEventResponse, error)
	MealVoucherAllowance(ctx context.Context, req *MealVoucherAllowanceRequest) (*MealVoucherAllowanceResponse, error)
}

// AbsenceHandler は AbsenceService の gRPC 実装です。
type AbsenceHandler struct {
	svc    absence.UseCase
	actors *ActorResolver
}

// NewAbsenceHandler は AbsenceHandler を生成します。
func NewAbsenceHandler(svc absence.UseCase, actors *ActorResolver) *AbsenceHandler {
	return &AbsenceHandler{svc: svc, actors: actors}
}

// Register はハンドラを gRPC サーバーへ登録します。
func (h *AbsenceHandler) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(&absenceServiceDesc, h)
}

// CreateEvent は不在イベントを登録します。イベントはアクター本人のものになります。
func (h *AbsenceHandler) CreateEvent(ctx context.Context, req *CreateAbsenceEventRequest) (*CreateAbsenceEventResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	day, err := parseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateEvent(ctx, absence.CreateEventInput{
		Date:        day,
		Type:        absence.EventType(req.Type),
		Description: req.Description,
	}, actor)
	if err != nil {
		return nil, err
	}

	return &CreateAbsenceEventResponse{Event: toAbsenceEventMessage(created)}, nil
}

// GetEvent は不在イベントを取得します。
func (h *AbsenceHandler) GetEvent(ctx context.Context, req *GetAbsenceEventRequest) (*GetAbsenceEventResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetEvent(ctx, absence.GetEventInput{ID: req.Id}, actor)
	if err != nil {
		return nil, err
	}

	return &GetAbsenceEventResponse{Event: toAbsenceEventMessage(found)}, nil
}

// ListEvents は不在イベントの一覧を取得します。
func (h *AbsenceHandler) ListEvents(ctx context.Context, req *ListAbsenceEventsRequest) (*ListAbsenceEventsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	events, err := h.svc.ListEvents(ctx, actor)
	if err != nil {
		return nil, err
	}

	result := make([]*AbsenceEventMessage, 0, len(events))
	for _, e := range events {
		result = append(result, toAbsenceEventMessage(e))
	}

	return &ListAbsenceEventsResponse{Events: result}, nil
}

// ApproveEvent は不在イベントを承認します。
func (h *AbsenceHandler) ApproveEvent(ctx context.Context, req *DecideAbsenceEventRequest) (*DecideAbsenceEventResponse, error) {
	return h.decide(ctx, req, h.svc.ApproveEvent)
}

// DeclineEvent は不在イベントを却下します。
func (h *AbsenceHandler) DeclineEvent(ctx context.Context, req *DecideAbsenceEventRequest) (*DecideAbsenceEventResponse, error) {
	return h.decide(ctx, req, h.svc.DeclineEvent)
}

func (h *AbsenceHandler) decide(
	ctx context.Context,
	req *DecideAbsenceEventRequest,
	decideFn func(context.Context, absence.DecisionInput, *person.Person) (*absence.Event, error),
) (*DecideAbsenceEventResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	decided, err := decideFn(ctx, absence.DecisionInput{ID: req.Id}, actor)
	if err != nil {
		return nil, err
	}

	return &DecideAbsenceEventResponse{Event: toAbsenceEventMessage(decided)}, nil
}

// MealVoucherAllowance は指定月の食事補助額を計算します。
func (h *AbsenceHandler) MealVoucherAllowance(ctx context.Context, req *MealVoucherAllowanceRequest) (*MealVoucherAllowanceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	month, err := monthFromInt(req.Month)
	if err != nil {
		return nil, err
	}

	amount, err := h.svc.MealVoucherAllowance(ctx, absence.MealVoucherInput{
		PersonID: req.PersonId,
		Year:     req.Year,
		Month:    month,
	}, actor)
	if err != nil {
		return nil, err
	}

	return &MealVoucherAllowanceResponse{AmountEur: amount}, nil
}

var absenceServiceDesc = grpc.ServiceDesc{
	ServiceName: absenceServiceName,
	HandlerType: (*AbsenceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateEvent",
			Handler: unary("/"+absenceServiceName+"/CreateEvent", func(srv any, ctx context.Context, req *CreateAbsenceEventRequest) (any, error) {
				return srv.(AbsenceServiceServer).CreateEvent(ctx, req)
			}),
		},
		{
			MethodName: "GetEvent",
			Handler: unary("/"+absenceServiceName+"/GetEvent", func(srv any, ctx context.Context, req *GetAbsenceEventRequest) (any, error) {
				return srv.(AbsenceServiceServer).GetEvent(ctx, req)
			}),
		},
		{
			MethodName: "ListEvents",
			Handler: unary("/"+absenceServiceName+"/ListEvents", func(srv any, ctx context.Context, req *ListAbsenceEventsRequest) (any, error) {
				return srv.(AbsenceServiceServer).ListEvents(ctx, req)
			}),
		},
		{
			MethodName: "ApproveEvent",
			Handler: unary("/"+absenceServiceName+"/ApproveEvent", func(srv any, ctx context.Context, req *DecideAbsenceEventRequest) (any, error) {
				return srv.(AbsenceServiceServer).ApproveEvent(ctx, req)
			}),
		},
		{
			MethodName: "DeclineEvent",
			Handler: unary("/"+absenceServiceName+"/DeclineEvent", func(srv any, ctx context.Context, req *DecideAbsenceEventRequest) (any, error) {
				return srv.(AbsenceServiceServer).DeclineEvent(ctx, req)
			}),
		},
		{
			MethodName: "MealVoucherAllowance",
			Handler: unary("/"+absenceServiceName+"/MealVoucherAllowance", func(srv any, ctx context.Context, req *MealVoucherAllowanceRequest) (any, error) {
				return srv.(AbsenceServiceServer).MealVoucherAllowance(ctx, req)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}
