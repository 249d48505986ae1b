package servicelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinlog/clinlog/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const logCols = `id, user_id, client_id, activity_id, service_date, patient_count,
	is_draft, submitted_at, created_at, updated_at`

const entryCols = `id, service_log_id, position, appointment_type, outcome_id,
	created_at, updated_at`

// CreateWithEntries inserts the parent log and its entries in one
// transaction. A failure on any entry insert rolls back the parent insert;
// no entry insert proceeds past a failed parent insert.
func (r *repoPG) CreateWithEntries(ctx context.Context, log *ServiceLog, entries []*PatientEntry) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)

		_, err := q.Exec(ctx,
			`INSERT INTO service_logs (`+logCols+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			log.ID, log.UserID, log.ClientID, log.ActivityID, log.ServiceDate,
			log.PatientCount, log.IsDraft, log.SubmittedAt, log.CreatedAt, log.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting service log: %w", err)
		}

		for _, e := range entries {
			_, err := q.Exec(ctx,
				`INSERT INTO patient_entries (`+entryCols+`)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				e.ID, e.ServiceLogID, e.Position, e.AppointmentType, e.OutcomeID,
				e.CreatedAt, e.UpdatedAt)
			if err != nil {
				return fmt.Errorf("inserting patient entry %d: %w", e.Position, err)
			}
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ServiceLog, []*PatientEntry, error) {
	q := r.conn(ctx)

	var log ServiceLog
	err := q.QueryRow(ctx,
		`SELECT `+logCols+` FROM service_logs WHERE id = $1`, id).
		Scan(&log.ID, &log.UserID, &log.ClientID, &log.ActivityID, &log.ServiceDate,
			&log.PatientCount, &log.IsDraft, &log.SubmittedAt, &log.CreatedAt, &log.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrLogNotFound
		}
		return nil, nil, err
	}

	rows, err := q.Query(ctx,
		`SELECT `+entryCols+` FROM patient_entries
		 WHERE service_log_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var entries []*PatientEntry
	for rows.Next() {
		var e PatientEntry
		if err := rows.Scan(&e.ID, &e.ServiceLogID, &e.Position, &e.AppointmentType,
			&e.OutcomeID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &log, entries, nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*ServiceLog, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM service_logs WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.Query(ctx,
		`SELECT `+logCols+` FROM service_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []*ServiceLog
	for rows.Next() {
		var log ServiceLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.ClientID, &log.ActivityID,
			&log.ServiceDate, &log.PatientCount, &log.IsDraft, &log.SubmittedAt,
			&log.CreatedAt, &log.UpdatedAt); err != nil {
			return nil, 0, err
		}
		logs = append(logs, &log)
	}
	return logs, total, rows.Err()
}
