package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	pgdb "github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/db/postgres"
)

const uniqueViolationCode = "23505"

// PersonRepository は PostgreSQL を利用した従業員永続化の実装です。
type PersonRepository struct {
	pool pgdb.Queryer
}

// NewPersonRepository は PersonRepository を生成します。
func NewPersonRepository(pool pgdb.Queryer) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// Create は従業員を新規作成します。
func (r *PersonRepository) Create(ctx context.Context, p *person.Person) (*person.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO people (id, username, email, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, username, email, password_hash, role, created_at, updated_at
    `,
		p.ID,
		p.Username,
		p.Email,
		p.PasswordHash,
		string(p.Role),
		p.CreatedAt,
		p.UpdatedAt,
	)

	created, err := scanPerson(row)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	return created, nil
}

// FindByID は ID で従業員を取得します。
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, username, email, password_hash, role, created_at, updated_at
          FROM people
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanPerson(row)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	return found, nil
}

// FindByUsernameOrEmail はユーザー名またはメールアドレスで従業員を取得します。
func (r *PersonRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*person.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, username, email, password_hash, role, created_at, updated_at
          FROM people
         WHERE username = $1 OR email = $2
         LIMIT 1
    `, username, email)

	found, err := scanPerson(row)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	return found, nil
}

// List は従業員の一覧を取得します。
func (r *PersonRepository) List(ctx context.Context, filter person.ListPeopleFilter) ([]*person.Person, string, error) {
	if filter.Limit <= 0 {
		return nil, "", person.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", person.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 3)
	whereClause := ""
	if filter.Role != nil {
		args = append(args, string(*filter.Role))
		whereClause = " WHERE role = $1"
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT id, username, email, password_hash, role, created_at, updated_at
          FROM people` + whereClause + `
         ORDER BY created_at DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translatePersonPgError(err)
	}
	defer rows.Close()

	people := make([]*person.Person, 0, filter.Limit)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, "", translatePersonPgError(err)
		}
		people = append(people, p)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translatePersonPgError(err)
	}

	var nextToken string
	if len(people) == limitWithBuffer {
		people = people[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return people, nextToken, nil
}

func scanPerson(row pgx.Row) (*person.Person, error) {
	var (
		id                   string
		username             string
		email                string
		passwordHash         string
		role                 string
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &username, &email, &passwordHash, &role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, person.ErrPersonNotFound
		}
		return nil, err
	}

	return &person.Person{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         person.Role(role),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func translatePersonPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return person.ErrPersonNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return person.ErrPersonAlreadyExists
		}
	}

	return err
}
