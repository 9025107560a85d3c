package person

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
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

const (
	defaultListPageSize = 50
	maxListPageSize     = 200

	minPasswordLength = 8
	maxUsernameLength = 64
)

// Service は従業員ディレクトリに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は従業員ディレクトリの公開インターフェースです。
type UseCase interface {
	CreatePerson(ctx context.Context, in CreatePersonInput) (*Profile, error)
	GetPerson(ctx context.Context, in GetPersonInput) (*Profile, error)
	ListPeople(ctx context.Context, in ListPeopleInput) (*ListPeopleResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreatePersonInput は従業員登録時の入力です。Role 未指定時は Employee になります。
type CreatePersonInput struct {
	Username string
	Email    string
	Password string
	Role     *Role
}

// GetPersonInput は従業員取得時の入力です。
type GetPersonInput struct {
	ID string
}

// ListPeopleInput は一覧取得時の入力です。
type ListPeopleInput struct {
	PageSize  int
	PageToken string
	Role      *Role
}

// ListPeopleResult は一覧取得結果を表します。
type ListPeopleResult struct {
	People        []*Profile
	NextPageToken string
}

// CreatePerson は従業員を新規登録します。ユーザー名・メールアドレスは全体で一意です。
func (s *Service) CreatePerson(ctx context.Context, in CreatePersonInput) (*Profile, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if len(in.Password) < minPasswordLength {
		return nil, ErrInvalidPassword
	}

	role := RoleEmployee
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrInvalidRole
		}
		role = *in.Role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("person: hash password: %w", err)
	}

	var created *Person
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureIdentityFree(txCtx, username, email); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Person{
			ID:           uuid.NewString(),
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created.Profile(), nil
}

// GetPerson は従業員を取得します。返却値にパスワード情報は含まれません。
func (s *Service) GetPerson(ctx context.Context, in GetPersonInput) (*Profile, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var found *Person
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

	return found.Profile(), nil
}

// ListPeople は従業員の一覧を取得します。
func (s *Service) ListPeople(ctx context.Context, in ListPeopleInput) (*ListPeopleResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var rolePtr *Role
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrInvalidRole
		}
		role := *in.Role
		rolePtr = &role
	}

	var (
		people    []*Person
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.repo.List(txCtx, ListPeopleFilter{
			Role:   rolePtr,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		people = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(people))
	for _, p := range people {
		profiles = append(profiles, p.Profile())
	}

	return &ListPeopleResult{People: profiles, NextPageToken: nextToken}, nil
}

func (s *Service) ensureIdentityFree(ctx context.Context, username, email string) error {
	existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, ErrPersonNotFound) {
		return err
	}
	if existing != nil {
		return ErrPersonAlreadyExists
	}
	return nil
}

func normalizeUsername(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > maxUsernameLength {
		return "", ErrInvalidUsername
	}
	return trimmed, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(trimmed), nil
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

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
