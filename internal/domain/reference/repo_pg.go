package reference

import (
	"context"
	"errors"

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

const refCols = `id, name, active, created_at, updated_at`

func (r *repoPG) GetClient(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+refCols+` FROM clients WHERE id = $1 AND active`, id).
		Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	var a Activity
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+refCols+` FROM activities WHERE id = $1 AND active`, id).
		Scan(&a.ID, &a.Name, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) GetOutcome(ctx context.Context, id int64) (*Outcome, error) {
	var o Outcome
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+refCols+` FROM outcomes WHERE id = $1 AND active`, id).
		Scan(&o.ID, &o.Name, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repoPG) ListActiveClients(ctx context.Context) ([]*Client, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+refCols+` FROM clients WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

func (r *repoPG) ListActiveActivities(ctx context.Context) ([]*Activity, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+refCols+` FROM activities WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

func (r *repoPG) ListActiveOutcomes(ctx context.Context) ([]*Outcome, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+refCols+` FROM outcomes WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.ID, &o.Name, &o.Active, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, &o)
	}
	return outcomes, rows.Err()
}
