package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/project"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestScanProject_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 8 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "project-1"
		*(dest[1].(*string)) = "Apollo"
		*(dest[2].(*string)) = "manager-1"
		*(dest[3].(*string)) = "tanaka"
		*(dest[4].(*string)) = "tanaka@example.com"
		*(dest[5].(*string)) = string(person.RoleProjectManager)
		*(dest[6].(*time.Time)) = createdAt
		*(dest[7].(*time.Time)) = createdAt
		return nil
	}}

	p, err := scanProject(row)
	if err != nil {
		t.Fatalf("scanProject returned error: %v", err)
	}

	if p.Name != "Apollo" || p.ReferringEmployeeID != "manager-1" {
		t.Fatalf("unexpected project: %+v", p)
	}
	if p.ReferringEmployee == nil || p.ReferringEmployee.Username != "tanaka" {
		t.Fatalf("expected referent snapshot, got %+v", p.ReferringEmployee)
	}
	if p.ReferringEmployee.ID != p.ReferringEmployeeID {
		t.Fatalf("snapshot id must match referring employee id")
	}
}

func TestTranslateProjectPgError(t *testing.T) {
	t.Parallel()

	fkErr := &pgconn.PgError{Code: projectForeignKeyViolationCode, ConstraintName: "projects_referring_employee_id_fkey"}
	if !errors.Is(translateProjectPgError(fkErr), project.ErrReferentNotFound) {
		t.Fatalf("expected fk violation to map to ErrReferentNotFound")
	}

	if !errors.Is(translateProjectPgError(pgx.ErrNoRows), project.ErrProjectNotFound) {
		t.Fatalf("expected no rows to map to ErrProjectNotFound")
	}

	other := errors.New("other")
	if translateProjectPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestProjectRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewProjectRepository(mock)
	now := time.Now().UTC()

	query := regexp.QuoteMeta(`
        SELECT id, name, referring_employee_id, referent_username, referent_email, referent_role, created_at, updated_at
          FROM projects
         WHERE id = $1
         LIMIT 1
    `)

	rows := pgxmock.NewRows([]string{"id", "name", "referring_employee_id", "referent_username", "referent_email", "referent_role", "created_at", "updated_at"}).
		AddRow("project-1", "Apollo", "manager-1", "tanaka", "tanaka@example.com", string(person.RoleProjectManager), now, now)

	mock.ExpectQuery(query).WithArgs("project-1").WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Name != "Apollo" {
		t.Fatalf("unexpected project: %+v", found)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProjectRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewProjectRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, project.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
