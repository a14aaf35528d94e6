package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pickwatch/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool, for deployments where the
// monitor runs alongside other services on a shared database.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS monitor_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS emitted_picks (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	identity   TEXT NOT NULL,
	pairing    TEXT NOT NULL,
	selection  TEXT NOT NULL,
	price      TEXT NOT NULL,
	stake      TEXT NOT NULL,
	tier       TEXT NOT NULL,
	category   TEXT NOT NULL,
	status     TEXT NOT NULL,
	analysis   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emitted_picks_created_at ON emitted_picks(created_at);
CREATE INDEX IF NOT EXISTS idx_emitted_picks_identity ON emitted_picks(identity);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*model.State, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM monitor_state WHERE id = 1`,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.NewState(), nil
	}
	if err != nil {
		zap.L().Warn("postgres: state unreadable, starting fresh", zap.Error(err))
		return model.NewState(), nil
	}

	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		zap.L().Warn("postgres: state corrupt, starting fresh", zap.Error(err))
		return model.NewState(), nil
	}
	return &state, nil
}

func (s *PostgresStore) Save(ctx context.Context, state *model.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal state")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO monitor_state (id, data, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		data, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save state")
}

func (s *PostgresStore) RecordEmitted(ctx context.Context, runID string, picks []model.Pick) error {
	for _, p := range picks {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO emitted_picks
			 (id, run_id, identity, pairing, selection, price, stake, tier, category, status, analysis, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.New().String(), runID, p.Identity, p.Pairing, p.Selection,
			p.Price, p.Stake, string(p.Tier), p.Category, string(p.Status),
			p.Analysis, p.CreatedAt,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert emitted pick %s", p.Identity)
		}
	}
	return nil
}

func (s *PostgresStore) RecentPicks(ctx context.Context, limit int) ([]model.Pick, error) {
	if limit <= 0 {
		limit = recentCap
	}
	rows, err := s.pool.Query(ctx,
		`SELECT identity, pairing, selection, price, stake, tier, category, status, analysis, created_at
		 FROM emitted_picks ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query recent picks")
	}
	defer rows.Close()

	var picks []model.Pick
	for rows.Next() {
		var p model.Pick
		var tier, status string
		if err := rows.Scan(&p.Identity, &p.Pairing, &p.Selection, &p.Price,
			&p.Stake, &tier, &p.Category, &status, &p.Analysis, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan pick")
		}
		p.Tier = model.Tier(tier)
		p.Status = model.PickStatus(status)
		picks = append(picks, p)
	}
	return picks, eris.Wrap(rows.Err(), "postgres: iterate picks")
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM monitor_state`); err != nil {
		return eris.Wrap(err, "postgres: reset state")
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM emitted_picks`)
	return eris.Wrap(err, "postgres: reset emitted picks")
}
