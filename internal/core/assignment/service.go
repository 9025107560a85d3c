package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/project"
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
// 重複チェックと挿入を1つの直列化可能トランザクションで囲むため WithinSerializable を要求します。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinSerializable(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
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

// PersonFinder は従業員ディレクトリへの参照です。
type PersonFinder interface {
	FindByID(ctx context.Context, id string) (*person.Person, error)
}

// ProjectFinder はプロジェクトディレクトリへの参照です。
type ProjectFinder interface {
	FindByID(ctx context.Context, id string) (*project.Project, error)
}

// Service は配属台帳に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	people   PersonFinder
	projects ProjectFinder
	clock    Clock
	tx       TransactionManager
}

// UseCase は配属台帳の公開インターフェースです。
type UseCase interface {
	Create(ctx context.Context, in CreateAssignmentInput, actor *person.Person) (*Assignment, error)
	Get(ctx context.Context, in GetAssignmentInput, actor *person.Person) (*Assignment, error)
	List(ctx context.Context, actor *person.Person) ([]*Summary, error)
	IsAttachedOnDate(ctx context.Context, personID string, date time.Time) (bool, error)
	IsReferentOnDate(ctx context.Context, managerID string, date time.Time, personID string) (bool, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, people PersonFinder, projects ProjectFinder, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, people: people, projects: projects, clock: clock, tx: tx}
}

// CreateAssignmentInput は配属作成時の入力です。
type CreateAssignmentInput struct {
	PersonID  string
	ProjectID string
	StartDate time.Time
	EndDate   time.Time
}

// GetAssignmentInput は配属取得時の入力です。
type GetAssignmentInput struct {
	ID string
}

// Create は配属を作成します。同一人物の既存配属と期間が重なる場合は失敗します。
func (s *Service) Create(ctx context.Context, in CreateAssignmentInput, actor *person.Person) (*Assignment, error) {
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

	personID, err := normalizeID(in.PersonID, "person_id")
	if err != nil {
		return nil, err
	}

	projectID, err := normalizeID(in.ProjectID, "project_id")
	if err != nil {
		return nil, err
	}

	start, err := normalizeDate(in.StartDate, "start_date")
	if err != nil {
		return nil, err
	}

	end, err := normalizeDate(in.EndDate, "end_date")
	if err != nil {
		return nil, err
	}

	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	var created *Assignment
	if err := s.tx.WithinSerializable(ctx, func(txCtx context.Context) error {
		p, err := s.people.FindByID(txCtx, personID)
		if err != nil {
			if errors.Is(err, person.ErrPersonNotFound) {
				return ErrPersonNotFound
			}
			return err
		}

		proj, err := s.projects.FindByID(txCtx, projectID)
		if err != nil {
			if errors.Is(err, project.ErrProjectNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		existing, err := s.repo.FindOverlapping(txCtx, personID, start, end)
		if err != nil && !errors.Is(err, ErrAssignmentNotFound) {
			return err
		}
		if existing != nil {
			return ErrAssignmentOverlap
		}

		result, err := s.repo.Create(txCtx, &Assignment{
			ID:        uuid.NewString(),
			PersonID:  personID,
			ProjectID: projectID,
			StartDate: start,
			EndDate:   end,
			CreatedAt: s.clock.Now(),
			Person: &PersonSnapshot{
				ID:       p.ID,
				Username: p.Username,
				Email:    p.Email,
				Role:     p.Role,
			},
			Project: &ProjectSnapshot{
				ID:                  proj.ID,
				Name:                proj.Name,
				ReferringEmployeeID: proj.ReferringEmployeeID,
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

// Get は配属を取得します。Employee は自分自身の配属のみ参照できます。
func (s *Service) Get(ctx context.Context, in GetAssignmentInput, actor *person.Person) (*Assignment, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	id, err := normalizeID(in.ID, "id")
	if err != nil {
		return nil, err
	}

	var found *Assignment
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

	// 他人の配属は Employee には存在しないものとして扱う。
	if actor.Role == person.RoleEmployee && found.PersonID != actor.ID {
		return nil, ErrAssignmentNotFound
	}

	return found, nil
}

// List は配属の一覧を射影で返します。Employee には自分自身の配属のみが見えます。
func (s *Service) List(ctx context.Context, actor *person.Person) ([]*Summary, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	var assignments []*Assignment
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		switch actor.Role {
		case person.RoleAdmin, person.RoleProjectManager:
			assignments, err = s.repo.List(txCtx)
		case person.RoleEmployee:
			assignments, err = s.repo.ListByPerson(txCtx, actor.ID)
		default:
			return ErrUnauthorized
		}
		return err
	}); err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(assignments))
	for _, a := range assignments {
		summary := &Summary{ID: a.ID}
		if a.Project != nil {
			summary.ProjectName = a.Project.Name
			summary.ReferringEmployeeID = a.Project.ReferringEmployeeID
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// IsAttachedOnDate は date を期間に含む配属が personID に存在するかを返します。
func (s *Service) IsAttachedOnDate(ctx context.Context, personID string, date time.Time) (bool, error) {
	id, err := normalizeID(personID, "person_id")
	if err != nil {
		return false, err
	}

	day, err := normalizeDate(date, "date")
	if err != nil {
		return false, err
	}

	var attached bool
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ExistsCovering(txCtx, id, day)
		if err != nil {
			return err
		}
		attached = result
		return nil
	}); err != nil {
		return false, err
	}

	return attached, nil
}

// IsReferentOnDate は date を期間に含む personID の配属のうち、配属先プロジェクトの
// リファレントが managerID であるものが存在するかを返します。
func (s *Service) IsReferentOnDate(ctx context.Context, managerID string, date time.Time, personID string) (bool, error) {
	manager, err := normalizeID(managerID, "manager_id")
	if err != nil {
		return false, err
	}

	target, err := normalizeID(personID, "person_id")
	if err != nil {
		return false, err
	}

	day, err := normalizeDate(date, "date")
	if err != nil {
		return false, err
	}

	var referent bool
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ExistsReferentCovering(txCtx, manager, day, target)
		if err != nil {
			return err
		}
		referent = result
		return nil
	}); err != nil {
		return false, err
	}

	return referent, nil
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

func normalizeDate(t time.Time, field string) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%s: %w", field, ErrInvalidDate)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
