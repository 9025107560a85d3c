package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/assignment"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func assignmentTestRows(t *testing.T) *pgxmock.Rows {
	t.Helper()

	now := time.Now().UTC()
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	return pgxmock.NewRows([]string{
		"id", "person_id", "project_id", "start_date", "end_date", "created_at",
		"person_username", "person_email", "person_role",
		"project_name", "project_referring_employee_id",
	}).AddRow(
		"assignment-1", "person-1", "project-1", start, end, now,
		"yamada", "yamada@example.com", string(person.RoleEmployee),
		"Apollo", "manager-1",
	)
}

func TestScanAssignment_Snapshots(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 11 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "assignment-1"
		*(dest[1].(*string)) = "person-1"
		*(dest[2].(*string)) = "project-1"
		*(dest[3].(*time.Time)) = start
		*(dest[4].(*time.Time)) = end
		*(dest[5].(*time.Time)) = createdAt
		*(dest[6].(*string)) = "yamada"
		*(dest[7].(*string)) = "yamada@example.com"
		*(dest[8].(*string)) = string(person.RoleEmployee)
		*(dest[9].(*string)) = "Apollo"
		*(dest[10].(*string)) = "manager-1"
		return nil
	}}

	a, err := scanAssignment(row)
	if err != nil {
		t.Fatalf("scanAssignment returned error: %v", err)
	}

	if a.Person == nil || a.Person.Username != "yamada" || a.Person.ID != "person-1" {
		t.Fatalf("expected person snapshot, got %+v", a.Person)
	}
	if a.Project == nil || a.Project.Name != "Apollo" || a.Project.ReferringEmployeeID != "manager-1" {
		t.Fatalf("expected project snapshot, got %+v", a.Project)
	}
	if !a.StartDate.Equal(start) || !a.EndDate.Equal(end) {
		t.Fatalf("unexpected dates: %+v", a)
	}
}

func TestScanAssignment_NormalizesDateColumns(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("JST", 9*60*60)
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, loc)

	row := stubRow{scanFn: func(dest ...interface{}) error {
		*(dest[0].(*string)) = "assignment-1"
		*(dest[1].(*string)) = "person-1"
		*(dest[2].(*string)) = "project-1"
		*(dest[3].(*time.Time)) = start
		*(dest[4].(*time.Time)) = start
		*(dest[5].(*time.Time)) = start
		*(dest[6].(*string)) = "yamada"
		*(dest[7].(*string)) = "yamada@example.com"
		*(dest[8].(*string)) = string(person.RoleEmployee)
		*(dest[9].(*string)) = "Apollo"
		*(dest[10].(*string)) = "manager-1"
		return nil
	}}

	a, err := scanAssignment(row)
	if err != nil {
		t.Fatalf("scanAssignment returned error: %v", err)
	}

	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !a.StartDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, a.StartDate)
	}
}

func TestTranslateAssignmentPgError(t *testing.T) {
	t.Parallel()

	exclusionErr := &pgconn.PgError{Code: assignmentExclusionViolationCode, ConstraintName: "project_assignments_no_overlap"}
	if !errors.Is(translateAssignmentPgError(exclusionErr), assignment.ErrAssignmentOverlap) {
		t.Fatalf("expected exclusion violation to map to ErrAssignmentOverlap")
	}

	personFkErr := &pgconn.PgError{Code: assignmentForeignKeyViolationCode, ConstraintName: "project_assignments_person_id_fkey"}
	if !errors.Is(translateAssignmentPgError(personFkErr), assignment.ErrPersonNotFound) {
		t.Fatalf("expected person fk violation to map to ErrPersonNotFound")
	}

	projectFkErr := &pgconn.PgError{Code: assignmentForeignKeyViolationCode, ConstraintName: "project_assignments_project_id_fkey"}
	if !errors.Is(translateAssignmentPgError(projectFkErr), assignment.ErrProjectNotFound) {
		t.Fatalf("expected project fk violation to map to ErrProjectNotFound")
	}

	checkErr := &pgconn.PgError{Code: assignmentCheckViolationCode}
	if !errors.Is(translateAssignmentPgError(checkErr), assignment.ErrInvalidDateRange) {
		t.Fatalf("expected check violation to map to ErrInvalidDateRange")
	}

	if !errors.Is(translateAssignmentPgError(pgx.ErrNoRows), assignment.ErrAssignmentNotFound) {
		t.Fatalf("expected no rows to map to ErrAssignmentNotFound")
	}
}

func TestAssignmentRepository_FindOverlapping(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAssignmentRepository(mock)
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)

	query := regexp.QuoteMeta(`
        SELECT ` + assignmentColumns + `
          FROM project_assignments
         WHERE person_id = $1
           AND start_date <= $3
           AND end_date >= $2
         LIMIT 1
    `)

	mock.ExpectQuery(query).
		WithArgs("person-1", start, end).
		WillReturnRows(assignmentTestRows(t))

	found, err := repo.FindOverlapping(context.Background(), "person-1", start, end)
	if err != nil {
		t.Fatalf("FindOverlapping returned error: %v", err)
	}
	if found.ID != "assignment-1" {
		t.Fatalf("unexpected assignment: %+v", found)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_ExistsCovering(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAssignmentRepository(mock)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("person-1", day).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsCovering(context.Background(), "person-1", day)
	if err != nil {
		t.Fatalf("ExistsCovering returned error: %v", err)
	}
	if !exists {
		t.Fatalf("expected covering assignment to exist")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_Create_OverlapBackstop(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAssignmentRepository(mock)
	now := time.Now().UTC()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO project_assignments`)).
		WithArgs(
			"assignment-2", "person-1", "project-1", start, end, now,
			"yamada", "yamada@example.com", string(person.RoleEmployee),
			"Apollo", "manager-1",
		).
		WillReturnError(&pgconn.PgError{Code: assignmentExclusionViolationCode, ConstraintName: "project_assignments_no_overlap"})

	_, err = repo.Create(context.Background(), &assignment.Assignment{
		ID:        "assignment-2",
		PersonID:  "person-1",
		ProjectID: "project-1",
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		Person: &assignment.PersonSnapshot{
			ID:       "person-1",
			Username: "yamada",
			Email:    "yamada@example.com",
			Role:     person.RoleEmployee,
		},
		Project: &assignment.ProjectSnapshot{
			ID:                  "project-1",
			Name:                "Apollo",
			ReferringEmployeeID: "manager-1",
		},
	})
	if !errors.Is(err, assignment.ErrAssignmentOverlap) {
		t.Fatalf("expected ErrAssignmentOverlap, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
