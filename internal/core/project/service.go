package project

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
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
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

// PersonFinder は従業員ディレクトリへの参照です。
type PersonFinder interface {
	FindByID(ctx context.Context, id string) (*person.Person, error)
}

const maxNameLength = 128

// Service はプロジェクトに関するユースケースをまとめます。
type Service struct {
	repo   Repository
	people PersonFinder
	clock  Clock
	tx     TransactionManager
}

// UseCase はプロジェクトユースケースの公開インターフェースです。
type UseCase interface {
	CreateProject(ctx context.Context, in CreateProjectInput, actor *person.Person) (*Project, error)
	GetProject(ctx context.Context, in GetProjectInput, actor *person.Person) (*Project, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, people PersonFinder, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, people: people, clock: clock, tx: tx}
}

// CreateProjectInput はプロジェクト作成時の入力です。
type CreateProjectInput struct {
	Name                string
	ReferringEmployeeID string
}

// GetProjectInput はプロジェクト取得時の入力です。
type GetProjectInput struct {
	ID string
}

// CreateProject はプロジェクトを作成します。作成できるのは Admin のみで、
// リファレントのロール検証は作成時に一度だけ行われます。
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput, actor *person.Person) (*Project, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	switch actor.Role {
	case person.RoleAdmin:
	case person.RoleEmployee, person.RoleProjectManager:
		return nil, ErrUnauthorized
	default:
		return nil, ErrUnauthorized
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, ErrInvalidName
	}

	referentID, err := normalizeID(in.ReferringEmployeeID, "referring_employee_id")
	if err != nil {
		return nil, err
	}

	var created *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		referent, err := s.people.FindByID(txCtx, referentID)
		if err != nil {
			if errors.Is(err, person.ErrPersonNotFound) {
				return ErrReferentNotFound
			}
			return err
		}

		switch referent.Role {
		case person.RoleAdmin, person.RoleProjectManager:
		case person.RoleEmployee:
			return ErrInvalidReferentRole
		default:
			return ErrInvalidReferentRole
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Project{
			ID:                  uuid.NewString(),
			Name:                name,
			ReferringEmployeeID: referent.ID,
			CreatedAt:           now,
			UpdatedAt:           now,
			ReferringEmployee: &ReferentSnapshot{
				ID:       referent.ID,
				Username: referent.Username,
				Email:    referent.Email,
				Role:     referent.Role,
			},
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

// GetProject はプロジェクトを取得します。
func (s *Service) GetProject(ctx context.Context, in GetProjectInput, actor *person.Person) (*Project, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	id, err := normalizeID(in.ID, "id")
	if err != nil {
		return nil, err
	}

	var found *Project
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

func normalizeID(raw, field string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%s: %w", field, ErrInvalidID)
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, ErrInvalidID)
	}
	return parsed.String(), nil
}
