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
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func TestScanPerson_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Now().UTC()
	updatedAt := createdAt.Add(time.Minute)

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 7 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "person-1"
		*(dest[1].(*string)) = "yamada"
		*(dest[2].(*string)) = "yamada@example.com"
		*(dest[3].(*string)) = "$2a$10$hash"
		*(dest[4].(*string)) = string(person.RoleProjectManager)
		*(dest[5].(*time.Time)) = createdAt
		*(dest[6].(*time.Time)) = updatedAt
		return nil
	}}

	p, err := scanPerson(row)
	if err != nil {
		t.Fatalf("scanPerson returned error: %v", err)
	}

	if p.Username != "yamada" || p.Role != person.RoleProjectManager {
		t.Fatalf("unexpected person: %+v", p)
	}
	if !p.CreatedAt.Equal(createdAt) || !p.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("unexpected timestamps: %+v", p)
	}
}

func TestScanPerson_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanPerson(row)
	if !errors.Is(err, person.ErrPersonNotFound) {
		t.Fatalf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestTranslatePersonPgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translatePersonPgError(uniqueErr), person.ErrPersonAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrPersonAlreadyExists")
	}

	if !errors.Is(translatePersonPgError(pgx.ErrNoRows), person.ErrPersonNotFound) {
		t.Fatalf("expected no rows to map to ErrPersonNotFound")
	}

	other := errors.New("other")
	if translatePersonPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestPersonRepository_List_WithRoleFilter(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPersonRepository(mock)
	role := person.RoleEmployee

	query := regexp.QuoteMeta(`
        SELECT id, username, email, password_hash, role, created_at, updated_at
          FROM people WHERE role = $1
         ORDER BY created_at DESC, id DESC
         LIMIT $2
        OFFSET $3
    `)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow("person-1", "yamada", "yamada@example.com", "hash1", string(role), now, now).
		AddRow("person-2", "sato", "sato@example.com", "hash2", string(role), now, now).
		AddRow("person-3", "suzuki", "suzuki@example.com", "hash3", string(role), now, now)

	mock.ExpectQuery(query).
		WithArgs(string(role), 3, 0).
		WillReturnRows(rows)

	people, nextToken, err := repo.List(context.Background(), person.ListPeopleFilter{
		Role:   &role,
		Limit:  2,
		Offset: 0,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
	if nextToken != "2" {
		t.Fatalf("expected next token 2, got %q", nextToken)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPersonRepository_Create_DuplicateIdentity(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPersonRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`
        INSERT INTO people (id, username, email, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, username, email, password_hash, role, created_at, updated_at
    `)).
		WithArgs("person-1", "yamada", "yamada@example.com", "hash", string(person.RoleEmployee), now, now).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "people_username_key"})

	_, err = repo.Create(context.Background(), &person.Person{
		ID:           "person-1",
		Username:     "yamada",
		Email:        "yamada@example.com",
		PasswordHash: "hash",
		Role:         person.RoleEmployee,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, person.ErrPersonAlreadyExists) {
		t.Fatalf("expected ErrPersonAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
