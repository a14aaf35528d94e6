package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pickwatch/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS monitor_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
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
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emitted_picks_created_at ON emitted_picks(created_at);
CREATE INDEX IF NOT EXISTS idx_emitted_picks_identity ON emitted_picks(identity);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (*model.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM monitor_state WHERE id = 1`,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return model.NewState(), nil
	}
	if err != nil {
		zap.L().Warn("sqlite: state unreadable, starting fresh", zap.Error(err))
		return model.NewState(), nil
	}

	var state model.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		zap.L().Warn("sqlite: state corrupt, starting fresh", zap.Error(err))
		return model.NewState(), nil
	}
	return &state, nil
}

func (s *SQLiteStore) Save(ctx context.Context, state *model.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal state")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO monitor_state (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save state")
}

func (s *SQLiteStore) RecordEmitted(ctx context.Context, runID string, picks []model.Pick) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, p := range picks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO emitted_picks
			 (id, run_id, identity, pairing, selection, price, stake, tier, category, status, analysis, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, p.Identity, p.Pairing, p.Selection,
			p.Price, p.Stake, string(p.Tier), p.Category, string(p.Status),
			p.Analysis, p.CreatedAt,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert emitted pick %s", p.Identity)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit emitted picks")
}

func (s *SQLiteStore) RecentPicks(ctx context.Context, limit int) ([]model.Pick, error) {
	if limit <= 0 {
		limit = recentCap
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity, pairing, selection, price, stake, tier, category, status, analysis, created_at
		 FROM emitted_picks ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query recent picks")
	}
	defer rows.Close()

	var picks []model.Pick
	for rows.Next() {
		var p model.Pick
		var tier, status string
		if err := rows.Scan(&p.Identity, &p.Pairing, &p.Selection, &p.Price,
			&p.Stake, &tier, &p.Category, &status, &p.Analysis, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan pick")
		}
		p.Tier = model.Tier(tier)
		p.Status = model.PickStatus(status)
		picks = append(picks, p)
	}
	return picks, eris.Wrap(rows.Err(), "sqlite: iterate picks")
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM monitor_state`); err != nil {
		return eris.Wrap(err, "sqlite: reset state")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM emitted_picks`)
	return eris.Wrap(err, "sqlite: reset emitted picks")
}
