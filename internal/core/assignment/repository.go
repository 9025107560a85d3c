package assignment

import (
	"context"
	"time"
)

// Repository は配属永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, a *Assignment) (*Assignment, error)
	FindByID(ctx context.Context, id string) (*Assignment, error)
	// FindOverlapping は [start, end]（閉区間）と重なる personID の配属を1件返します。
	// 存在しない場合は ErrAssignmentNotFound を返します。
	FindOverlapping(ctx context.Context, personID string, start, end time.Time) (*Assignment, error)
	// ExistsCovering は date を期間に含む personID の配属が存在するかを返します。
	ExistsCovering(ctx context.Context, personID string, date time.Time) (bool, error)
	// ExistsReferentCovering は date を期間に含む personID の配属のうち、
	// 配属先プロジェクトのリファレントが managerID であるものが存在するかを返します。
	ExistsReferentCovering(ctx context.Context, managerID string, date time.Time, personID string) (bool, error)
	List(ctx context.Context) ([]*Assignment, error)
	ListByPerson(ctx context.Context, personID string) ([]*Assignment, error)
}
