package server

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/absence"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/assignment"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/project"
)

// UnaryErrorInterceptor はドメインエラーを gRPC ステータスへ変換します。
func UnaryErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return resp, toStatusError(err)
		}
		return resp, nil
	}
}

func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}
	return status.Error(codeFromError(err), err.Error())
}

func codeFromError(err error) codes.Code {
	switch {
	case errors.Is(err, person.ErrInvalidID),
		errors.Is(err, person.ErrInvalidUsername),
		errors.Is(err, person.ErrInvalidEmail),
		errors.Is(err, person.ErrInvalidPassword),
		errors.Is(err, person.ErrInvalidRole),
		errors.Is(err, person.ErrInvalidPageSize),
		errors.Is(err, person.ErrInvalidPageToken),
		errors.Is(err, project.ErrInvalidID),
		errors.Is(err, project.ErrInvalidName),
		errors.Is(err, project.ErrInvalidReferentRole),
		errors.Is(err, assignment.ErrInvalidID),
		errors.Is(err, assignment.ErrInvalidDate),
		errors.Is(err, assignment.ErrInvalidDateRange),
		errors.Is(err, absence.ErrInvalidID),
		errors.Is(err, absence.ErrInvalidDate),
		errors.Is(err, absence.ErrInvalidEventType),
		errors.Is(err, absence.ErrInvalidMonth):
		return codes.InvalidArgument

	case errors.Is(err, project.ErrUnauthorized),
		errors.Is(err, assignment.ErrUnauthorized),
		errors.Is(err, absence.ErrUnauthorized),
		errors.Is(err, absence.ErrNotAttached),
		errors.Is(err, absence.ErrNotReferent):
		return codes.PermissionDenied

	case errors.Is(err, person.ErrPersonNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrReferentNotFound),
		errors.Is(err, assignment.ErrAssignmentNotFound),
		errors.Is(err, assignment.ErrPersonNotFound),
		errors.Is(err, assignment.ErrProjectNotFound),
		errors.Is(err, absence.ErrEventNotFound):
		return codes.NotFound

	case errors.Is(err, person.ErrPersonAlreadyExists),
		errors.Is(err, assignment.ErrAssignmentOverlap),
		errors.Is(err, absence.ErrDuplicateDay):
		return codes.AlreadyExists

	case errors.Is(err, absence.ErrWeeklyRemoteCap),
		errors.Is(err, absence.ErrAlreadyDecided):
		return codes.FailedPrecondition

	default:
		return codes.Internal
	}
}
