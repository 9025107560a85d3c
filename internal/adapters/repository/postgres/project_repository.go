package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/project"
	pgdb "github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/db/postgres"
)

const projectForeignKeyViolationCode = "23503"

// ProjectRepository は PostgreSQL を利用したプロジェクト永続化の実装です。
// リファレントのスナップショットは作成時点の値をカラムに保持します。
type ProjectRepository struct {
	pool pgdb.Queryer
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(pool pgdb.Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create はプロジェクトを新規作成します。
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO projects (id, name, referring_employee_id, referent_username, referent_email, referent_role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, name, referring_employee_id, referent_username, referent_email, referent_role, created_at, updated_at
    `,
		p.ID,
		p.Name,
		p.ReferringEmployeeID,
		p.ReferringEmployee.Username,
		p.ReferringEmployee.Email,
		string(p.ReferringEmployee.Role),
		p.CreatedAt,
		p.UpdatedAt,
	)

	created, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	return created, nil
}

// FindByID は ID でプロジェクトを取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, referring_employee_id, referent_username, referent_email, referent_role, created_at, updated_at
          FROM projects
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	return found, nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		id                   string
		name                 string
		referringEmployeeID  string
		referentUsername     string
		referentEmail        string
		referentRole         string
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(
		&id,
		&name,
		&referringEmployeeID,
		&referentUsername,
		&referentEmail,
		&referentRole,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}

	return &project.Project{
		ID:                  id,
		Name:                name,
		ReferringEmployeeID: referringEmployeeID,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
		ReferringEmployee: &project.ReferentSnapshot{
			ID:       referringEmployeeID,
			Username: referentUsername,
			Email:    referentEmail,
			Role:     person.Role(referentRole),
		},
	}, nil
}

func translateProjectPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return project.ErrProjectNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == projectForeignKeyViolationCode {
			return project.ErrReferentNotFound
		}
	}

	return err
}
