package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/absence"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestScanAbsenceEvent_Success(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 8 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "event-1"
		*(dest[1].(*string)) = "person-1"
		*(dest[2].(*time.Time)) = day
		*(dest[3].(*string)) = string(absence.EventTypeRemoteWork)
		*(dest[4].(*string)) = string(absence.StatusPending)

		descDest := dest[5].(*sql.NullString)
		descDest.String = "dentist"
		descDest.Valid = true

		*(dest[6].(*time.Time)) = createdAt
		*(dest[7].(*time.Time)) = createdAt
		return nil
	}}

	e, err := scanAbsenceEvent(row)
	if err != nil {
		t.Fatalf("scanAbsenceEvent returned error: %v", err)
	}

	if e.Type != absence.EventTypeRemoteWork || e.Status != absence.StatusPending {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.Description == nil || *e.Description != "dentist" {
		t.Fatalf("expected description, got %+v", e.Description)
	}
	if !e.Date.Equal(day) {
		t.Fatalf("unexpected date: %v", e.Date)
	}
}

func TestScanAbsenceEvent_NullDescription(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	row := stubRow{scanFn: func(dest ...interface{}) error {
		*(dest[0].(*string)) = "event-1"
		*(dest[1].(*string)) = "person-1"
		*(dest[2].(*time.Time)) = day
		*(dest[3].(*string)) = string(absence.EventTypePaidLeave)
		*(dest[4].(*string)) = string(absence.StatusAccepted)
		*(dest[5].(*sql.NullString)) = sql.NullString{}
		*(dest[6].(*time.Time)) = day
		*(dest[7].(*time.Time)) = day
		return nil
	}}

	e, err := scanAbsenceEvent(row)
	if err != nil {
		t.Fatalf("scanAbsenceEvent returned error: %v", err)
	}
	if e.Description != nil {
		t.Fatalf("expected nil description, got %q", *e.Description)
	}
}

func TestTranslateAbsencePgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: absenceUniqueViolationCode, ConstraintName: "absence_events_person_id_event_date_key"}
	if !errors.Is(translateAbsencePgError(uniqueErr), absence.ErrDuplicateDay) {
		t.Fatalf("expected unique violation to map to ErrDuplicateDay")
	}

	if !errors.Is(translateAbsencePgError(pgx.ErrNoRows), absence.ErrEventNotFound) {
		t.Fatalf("expected no rows to map to ErrEventNotFound")
	}

	other := errors.New("other")
	if translateAbsencePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestAbsenceRepository_CountByTypeInRange(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	from := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs("person-1", string(absence.EventTypeRemoteWork), from, to).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByTypeInRange(context.Background(), "person-1", absence.EventTypeRemoteWork, from, to)
	if err != nil {
		t.Fatalf("CountByTypeInRange returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAbsenceRepository_Create_DuplicateDayBackstop(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	now := time.Now().UTC()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO absence_events`)).
		WithArgs("event-1", "person-1", day, string(absence.EventTypeRemoteWork), string(absence.StatusPending), nil, now, now).
		WillReturnError(&pgconn.PgError{Code: absenceUniqueViolationCode, ConstraintName: "absence_events_person_id_event_date_key"})

	_, err = repo.Create(context.Background(), &absence.Event{
		ID:        "event-1",
		PersonID:  "person-1",
		Date:      day,
		Type:      absence.EventTypeRemoteWork,
		Status:    absence.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if !errors.Is(err, absence.ErrDuplicateDay) {
		t.Fatalf("expected ErrDuplicateDay, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAbsenceRepository_ListDatesInRange(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT event_date`)).
		WithArgs("person-1", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"event_date"}).
			AddRow(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)).
			AddRow(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	dates, err := repo.ListDatesInRange(context.Background(), "person-1", from, to)
	if err != nil {
		t.Fatalf("ListDatesInRange returned error: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if !dates[0].Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first date: %v", dates[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
