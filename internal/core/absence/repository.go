package absence

import (
	"context"
	"time"
)

// Repository は不在イベント永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	FindByID(ctx context.Context, id string) (*Event, error)
	// FindByPersonAndDate は personID の date 当日のイベントを返します。
	// 存在しない場合は ErrEventNotFound を返します。
	FindByPersonAndDate(ctx context.Context, personID string, date time.Time) (*Event, error)
	// CountByTypeInRange は [from, to]（閉区間）に日付が含まれる personID の
	// eventType イベント数を返します。
	CountByTypeInRange(ctx context.Context, personID string, eventType EventType, from, to time.Time) (int, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// ListDatesInRange は [from, to] に含まれる personID のイベント日付を返します。
	ListDatesInRange(ctx context.Context, personID string, from, to time.Time) ([]time.Time, error)
}
