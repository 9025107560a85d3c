package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/absence"
	pgdb "github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/db/postgres"
)

const (
	absenceUniqueViolationCode     = "23505"
	absenceForeignKeyViolationCode = "23503"
)

const absenceColumns = `id, person_id, event_date, event_type, status, description, created_at, updated_at`

// AbsenceRepository は PostgreSQL を利用した不在イベント永続化の実装です。
// (person_id, event_date) の UNIQUE 制約が同日重複のバックストップになります。
type AbsenceRepository struct {
	pool pgdb.Queryer
}

// NewAbsenceRepository は AbsenceRepository を生成します。
func NewAbsenceRepository(pool pgdb.Queryer) *AbsenceRepository {
	return &AbsenceRepository{pool: pool}
}

// Create は不在イベントを新規作成します。
func (r *AbsenceRepository) Create(ctx context.Context, e *absence.Event) (*absence.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO absence_events (id, person_id, event_date, event_type, status, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+absenceColumns+`
    `,
		e.ID,
		e.PersonID,
		e.Date,
		string(e.Type),
		string(e.Status),
		nullableString(e.Description),
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanAbsenceEvent(row)
	if err != nil {
		return nil, translateAbsencePgError(err)
	}
	return created, nil
}

// FindByID は ID で不在イベントを取得します。
func (r *AbsenceRepository) FindByID(ctx context.Context, id string) (*absence.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+absenceColumns+`
          FROM absence_events
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanAbsenceEvent(row)
	if err != nil {
		return nil, translateAbsencePgError(err)
	}
	return found, nil
}

// FindByPersonAndDate は personID の当日のイベントを取得します。
func (r *AbsenceRepository) FindByPersonAndDate(ctx context.Context, personID string, date time.Time) (*absence.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+absenceColumns+`
          FROM absence_events
         WHERE person_id = $1 AND event_date = $2
         LIMIT 1
    `, personID, date)

	found, err := scanAbsenceEvent(row)
	if err != nil {
		return nil, translateAbsencePgError(err)
	}
	return found, nil
}

// CountByTypeInRange は閉区間 [from, to] に含まれる eventType イベント数を返します。
func (r *AbsenceRepository) CountByTypeInRange(ctx context.Context, personID string, eventType absence.EventType, from, to time.Time) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT COUNT(*)
          FROM absence_events
         WHERE person_id = $1
           AND event_type = $2
           AND event_date BETWEEN $3 AND $4
    `, personID, string(eventType), from, to)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, translateAbsencePgError(err)
	}
	return count, nil
}

// UpdateStatus はイベントの承認状態を更新します。
func (r *AbsenceRepository) UpdateStatus(ctx context.Context, id string, status absence.Status, updatedAt time.Time) (*absence.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE absence_events
           SET status = $1,
               updated_at = $2
         WHERE id = $3
        RETURNING `+absenceColumns+`
    `, string(status), updatedAt, id)

	updated, err := scanAbsenceEvent(row)
	if err != nil {
		return nil, translateAbsencePgError(err)
	}
	return updated, nil
}

// List は不在イベントの一覧を取得します。
func (r *AbsenceRepository) List(ctx context.Context) ([]*absence.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+absenceColumns+`
          FROM absence_events
         ORDER BY event_date DESC, id DESC
    `)
	if err != nil {
		return nil, translateAbsencePgError(err)
	}
	defer rows.Close()

	events := make([]*absence.Event, 0)
	for rows.Next() {
		e, err := scanAbsenceEvent(rows)
		if err != nil {
			return nil, translateAbsencePgError(err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, translateAbsencePgError(err)
	}

	return events, nil
}

// ListDatesInRange は閉区間 [from, to] に含まれる personID のイベント日付を返します。
func (r *AbsenceRepository) ListDatesInRange(ctx context.Context, personID string, from, to time.Time) ([]time.Time, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT event_date
          FROM absence_events
         WHERE person_id = $1
           AND event_date BETWEEN $2 AND $3
         ORDER BY event_date
    `, personID, from, to)
	if err != nil {
		return nil, translateAbsencePgError(err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, translateAbsencePgError(err)
		}
		dates = append(dates, normalizeDateColumn(d))
	}

	if err := rows.Err(); err != nil {
		return nil, translateAbsencePgError(err)
	}

	return dates, nil
}

func scanAbsenceEvent(row pgx.Row) (*absence.Event, error) {
	var (
		id          string
		personID    string
		eventDate   time.Time
		eventType   string
		status      string
		description sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(
		&id,
		&personID,
		&eventDate,
		&eventType,
		&status,
		&description,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, absence.ErrEventNotFound
		}
		return nil, err
	}

	var descPtr *string
	if description.Valid {
		d := description.String
		descPtr = &d
	}

	return &absence.Event{
		ID:          id,
		PersonID:    personID,
		Date:        normalizeDateColumn(eventDate),
		Type:        absence.EventType(eventType),
		Status:      absence.Status(status),
		Description: descPtr,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func translateAbsencePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return absence.ErrEventNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case absenceUniqueViolationCode:
			return absence.ErrDuplicateDay
		case absenceForeignKeyViolationCode:
			return absence.ErrUnauthorized
		}
	}

	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
