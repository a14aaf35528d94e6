// Package store persists monitor history: the identity/dedup state
// document plus an audit log of emitted picks.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pickwatch/internal/config"
	"github.com/sells-group/pickwatch/internal/model"
)

// Store defines the persistence interface for monitor history. State is
// loaded once at the start of a run, mutated in memory, and saved once at
// the end; backends must make Save atomic so a crash can never leave a
// truncated document behind.
type Store interface {
	// Load returns the persisted state, or a fresh empty state when
	// nothing usable is persisted. Backends treat unreadable state as
	// recoverable: availability over strict continuity.
	Load(ctx context.Context) (*model.State, error)

	// Save atomically replaces the persisted state.
	Save(ctx context.Context, state *model.State) error

	// RecordEmitted appends emitted picks to the audit log.
	RecordEmitted(ctx context.Context, runID string, picks []model.Pick) error

	// RecentPicks returns the most recently emitted picks, newest first.
	RecentPicks(ctx context.Context, limit int) ([]model.Pick, error)

	// Reset clears all persisted history.
	Reset(ctx context.Context) error

	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "file", "":
		return NewFile(cfg.Path), nil
	case "sqlite":
		s, err := NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
