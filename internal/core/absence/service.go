package absence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
// 日単位の一意性チェックと週次上限チェックを挿入と同じ直列化可能
// トランザクションで囲むため WithinSerializable を要求します。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
	WithinSerializable(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinSerializable(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// AttachmentLedger は配属台帳への参照です。承認ゲートの判定に使います。
type AttachmentLedger interface {
	IsAttachedOnDate(ctx context.Context, personID string, date time.Time) (bool, error)
	IsReferentOnDate(ctx context.Context, managerID string, date time.Time, personID string) (bool, error)
}

const (
	// weeklyRemoteWorkLimit は日曜始まり土曜終わりの1週間あたりの RemoteWork 上限です。
	weeklyRemoteWorkLimit = 2
	// mealVoucherDailyAmount は出勤1日あたりの食事補助額（EUR）です。
	mealVoucherDailyAmount = 8

	maxDescriptionLength = 500
)

// Service は不在イベント台帳と承認エンジンのユースケースをまとめます。
type Service struct {
	repo        Repository
	attachments AttachmentLedger
	clock       Clock
	tx          TransactionManager
}

// UseCase は不在イベントユースケースの公開インターフェースです。
type UseCase interface {
	CreateEvent(ctx context.Context, in CreateEventInput, actor *person.Person) (*Event, error)
	GetEvent(ctx context.Context, in GetEventInput, actor *person.Person) (*Event, error)
	ListEvents(ctx context.Context, actor *person.Person) ([]*Event, error)
	ApproveEvent(ctx context.Context, in DecisionInput, actor *person.Person) (*Event, error)
	DeclineEvent(ctx context.Context, in DecisionInput, actor *person.Person) (*Event, error)
	MealVoucherAllowance(ctx context.Context, in MealVoucherInput, actor *person.Person) (int, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, attachments AttachmentLedger, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, attachments: attachments, clock: clock, tx: tx}
}

// CreateEventInput は不在イベント作成時の入力です。イベントはアクター本人のものとして登録されます。
type CreateEventInput struct {
	Date        time.Time
	Type        EventType
	Description *string
}

// GetEventInput はイベント取得時の入力です。
type GetEventInput struct {
	ID string
}

// DecisionInput は承認・却下時の入力です。
type DecisionInput struct {
	ID string
}

// MealVoucherInput は食事補助額計算の入力です。
type MealVoucherInput struct {
	PersonID string
	Year     int
	Month    time.Month
}

// CreateEvent は不在イベントを Pending 状態で作成します。
// 同一人物は同じ日に2つのイベントを持てず、RemoteWork は
// 日曜始まり土曜終わりの1週間に2件までです。
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput, actor *person.Person) (*Event, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	day, err := normalizeDate(in.Date, "date")
	if err != nil {
		return nil, err
	}

	if !in.Type.Valid() {
		return nil, ErrInvalidEventType
	}

	description, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}

	var created *Event
	if err := s.tx.WithinSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByPersonAndDate(txCtx, actor.ID, day)
		if err != nil && !errors.Is(err, ErrEventNotFound) {
			return err
		}
		if existing != nil {
			return ErrDuplicateDay
		}

		if in.Type == EventTypeRemoteWork {
			weekStart, weekEnd := weekBounds(day)
			count, err := s.repo.CountByTypeInRange(txCtx, actor.ID, EventTypeRemoteWork, weekStart, weekEnd)
			if err != nil {
				return err
			}
			if count >= weeklyRemoteWorkLimit {
				return ErrWeeklyRemoteCap
			}
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Event{
			ID:          uuid.NewString(),
			PersonID:    actor.ID,
			Date:        day,
			Type:        in.Type,
			Status:      StatusPending,
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetEvent はイベントを取得します。返却値が持つ個人情報は PersonID のみです。
func (s *Service) GetEvent(ctx context.Context, in GetEventInput, actor *person.Person) (*Event, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var found *Event
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	return found, nil
}

// ListEvents はイベントの一覧を返します。
func (s *Service) ListEvents(ctx context.Context, actor *person.Person) ([]*Event, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	var events []*Event
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		events = result
		return nil
	}); err != nil {
		return nil, err
	}

	return events, nil
}

// ApproveEvent は Pending イベントを Accepted に遷移させます。
func (s *Service) ApproveEvent(ctx context.Context, in DecisionInput, actor *person.Person) (*Event, error) {
	return s.decide(ctx, in, actor, StatusAccepted)
}

// DeclineEvent は Pending イベントを Declined に遷移させます。
func (s *Service) DeclineEvent(ctx context.Context, in DecisionInput, actor *person.Person) (*Event, error) {
	return s.decide(ctx, in, actor, StatusDeclined)
}

func (s *Service) decide(ctx context.Context, in DecisionInput, actor *person.Person, target Status) (*Event, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	switch actor.Role {
	case person.RoleAdmin, person.RoleProjectManager:
	case person.RoleEmployee:
		return nil, ErrUnauthorized
	default:
		return nil, ErrUnauthorized
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var decided *Event
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		event, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if event.Status.Terminal() {
			return ErrAlreadyDecided
		}

		if err := s.checkDecisionGates(txCtx, event, actor, target); err != nil {
			return err
		}

		result, err := s.repo.UpdateStatus(txCtx, event.ID, target, s.clock.Now())
		if err != nil {
			return err
		}

		decided = result
		return nil
	}); err != nil {
		return nil, err
	}

	return decided, nil
}

// checkDecisionGates は承認・却下の権限ゲートを判定します。
// 所属ゲートの適用対象は承認と却下で逆です。承認では Admin のみが免除され、
// 却下では Admin のみに適用されます。
func (s *Service) checkDecisionGates(ctx context.Context, event *Event, actor *person.Person, target Status) error {
	switch actor.Role {
	case person.RoleAdmin:
		if target == StatusDeclined {
			if err := s.checkAttached(ctx, event); err != nil {
				return err
			}
		}
		return nil

	case person.RoleProjectManager:
		if target == StatusAccepted {
			if err := s.checkAttached(ctx, event); err != nil {
				return err
			}
		}

		referent, err := s.attachments.IsReferentOnDate(ctx, actor.ID, event.Date, event.PersonID)
		if err != nil {
			return err
		}
		if !referent {
			return ErrNotReferent
		}
		return nil

	case person.RoleEmployee:
		return ErrUnauthorized
	default:
		return ErrUnauthorized
	}
}

func (s *Service) checkAttached(ctx context.Context, event *Event) error {
	attached, err := s.attachments.IsAttachedOnDate(ctx, event.PersonID, event.Date)
	if err != nil {
		return err
	}
	if !attached {
		return ErrNotAttached
	}
	return nil
}

// MealVoucherAllowance は指定月の食事補助額（EUR）を計算します。
// 土日を除く暦日のうち、不在イベントのない日が支給対象です。
// 当日のイベントは承認状態に関係なく不在として数えます。
func (s *Service) MealVoucherAllowance(ctx context.Context, in MealVoucherInput, actor *person.Person) (int, error) {
	if actor == nil {
		return 0, ErrUnauthorized
	}

	personID, err := normalizeID(in.PersonID)
	if err != nil {
		return 0, err
	}

	if in.Month < time.January || in.Month > time.December || in.Year <= 0 {
		return 0, ErrInvalidMonth
	}

	first := time.Date(in.Year, in.Month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var offDays map[time.Time]struct{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		dates, err := s.repo.ListDatesInRange(txCtx, personID, first, last)
		if err != nil {
			return err
		}

		offDays = make(map[time.Time]struct{}, len(dates))
		for _, d := range dates {
			normalized, err := normalizeDate(d, "date")
			if err != nil {
				return err
			}
			offDays[normalized] = struct{}{}
		}
		return nil
	}); err != nil {
		return 0, err
	}

	workDays := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		if _, off := offDays[day]; off {
			continue
		}
		workDays++
	}

	return workDays * mealVoucherDailyAmount, nil
}

// weekBounds は date を含む日曜始まり土曜終わりの週の両端を返します。
// 週はイベント日付自身の暦フィールドから計算します。
func weekBounds(date time.Time) (time.Time, time.Time) {
	start := date.AddDate(0, 0, -int(date.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return parsed.String(), nil
}

func normalizeDate(t time.Time, field string) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%s: %w", field, ErrInvalidDate)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func normalizeDescription(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > maxDescriptionLength {
		trimmed = trimmed[:maxDescriptionLength]
	}
	return &trimmed, nil
}
