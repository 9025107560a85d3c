package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/assignment"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	pgdb "github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/db/postgres"
)

const (
	assignmentForeignKeyViolationCode = "23503"
	assignmentCheckViolationCode      = "23514"
	assignmentExclusionViolationCode  = "23P01"
)

const assignmentColumns = `id, person_id, project_id, start_date, end_date, created_at,
               person_username, person_email, person_role,
               project_name, project_referring_employee_id`

// AssignmentRepository は PostgreSQL を利用した配属永続化の実装です。
// 従業員とプロジェクトのスナップショットは作成時点の値をカラムに保持します。
// 期間の重なりは EXCLUDE 制約がバックストップとして防ぎます。
type AssignmentRepository struct {
	pool pgdb.Queryer
}

// NewAssignmentRepository は AssignmentRepository を生成します。
func NewAssignmentRepository(pool pgdb.Queryer) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create は配属を新規作成します。
func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO project_assignments (
            id, person_id, project_id, start_date, end_date, created_at,
            person_username, person_email, person_role,
            project_name, project_referring_employee_id
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING `+assignmentColumns+`
    `,
		a.ID,
		a.PersonID,
		a.ProjectID,
		a.StartDate,
		a.EndDate,
		a.CreatedAt,
		a.Person.Username,
		a.Person.Email,
		string(a.Person.Role),
		a.Project.Name,
		a.Project.ReferringEmployeeID,
	)

	created, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return created, nil
}

// FindByID は ID で配属を取得します。
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+assignmentColumns+`
          FROM project_assignments
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return found, nil
}

// FindOverlapping は閉区間 [start, end] と重なる配属を1件取得します。
func (r *AssignmentRepository) FindOverlapping(ctx context.Context, personID string, start, end time.Time) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+assignmentColumns+`
          FROM project_assignments
         WHERE person_id = $1
           AND start_date <= $3
           AND end_date >= $2
         LIMIT 1
    `, personID, start, end)

	found, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return found, nil
}

// ExistsCovering は date を期間に含む配属の有無を返します。
func (r *AssignmentRepository) ExistsCovering(ctx context.Context, personID string, date time.Time) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
              FROM project_assignments
             WHERE person_id = $1
               AND start_date <= $2
               AND end_date >= $2
        )
    `, personID, date)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, translateAssignmentPgError(err)
	}
	return exists, nil
}

// ExistsReferentCovering は date を期間に含む personID の配属のうち、
// 配属先プロジェクトのリファレントが managerID であるものの有無を返します。
// リファレントはスナップショットではなく現在のプロジェクト行で判定します。
func (r *AssignmentRepository) ExistsReferentCovering(ctx context.Context, managerID string, date time.Time, personID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
              FROM project_assignments a
              JOIN projects p ON p.id = a.project_id
             WHERE a.person_id = $1
               AND a.start_date <= $2
               AND a.end_date >= $2
               AND p.referring_employee_id = $3
        )
    `, personID, date, managerID)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, translateAssignmentPgError(err)
	}
	return exists, nil
}

// List は配属の一覧を取得します。
func (r *AssignmentRepository) List(ctx context.Context) ([]*assignment.Assignment, error) {
	return r.list(ctx, `
        SELECT `+assignmentColumns+`
          FROM project_assignments
         ORDER BY created_at DESC, id DESC
    `)
}

// ListByPerson は personID の配属一覧を取得します。
func (r *AssignmentRepository) ListByPerson(ctx context.Context, personID string) ([]*assignment.Assignment, error) {
	return r.list(ctx, `
        SELECT `+assignmentColumns+`
          FROM project_assignments
         WHERE person_id = $1
         ORDER BY created_at DESC, id DESC
    `, personID)
}

func (r *AssignmentRepository) list(ctx context.Context, query string, args ...any) ([]*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	defer rows.Close()

	assignments := make([]*assignment.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, translateAssignmentPgError(err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, translateAssignmentPgError(err)
	}

	return assignments, nil
}

func scanAssignment(row pgx.Row) (*assignment.Assignment, error) {
	var (
		id                  string
		personID            string
		projectID           string
		startDate           time.Time
		endDate             time.Time
		createdAt           time.Time
		personUsername      string
		personEmail         string
		personRole          string
		projectName         string
		referringEmployeeID string
	)

	if err := row.Scan(
		&id,
		&personID,
		&projectID,
		&startDate,
		&endDate,
		&createdAt,
		&personUsername,
		&personEmail,
		&personRole,
		&projectName,
		&referringEmployeeID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrAssignmentNotFound
		}
		return nil, err
	}

	return &assignment.Assignment{
		ID:        id,
		PersonID:  personID,
		ProjectID: projectID,
		StartDate: normalizeDateColumn(startDate),
		EndDate:   normalizeDateColumn(endDate),
		CreatedAt: createdAt,
		Person: &assignment.PersonSnapshot{
			ID:       personID,
			Username: personUsername,
			Email:    personEmail,
			Role:     person.Role(personRole),
		},
		Project: &assignment.ProjectSnapshot{
			ID:                  projectID,
			Name:                projectName,
			ReferringEmployeeID: referringEmployeeID,
		},
	}, nil
}

func translateAssignmentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return assignment.ErrAssignmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case assignmentExclusionViolationCode:
			return assignment.ErrAssignmentOverlap
		case assignmentForeignKeyViolationCode:
			switch pgErr.ConstraintName {
			case "project_assignments_person_id_fkey":
				return assignment.ErrPersonNotFound
			case "project_assignments_project_id_fkey":
				return assignment.ErrProjectNotFound
			default:
				return err
			}
		case assignmentCheckViolationCode:
			return assignment.ErrInvalidDateRange
		}
	}

	return err
}

// normalizeDateColumn は DATE カラムの値を UTC 深夜0時に揃えます。
func normalizeDateColumn(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
