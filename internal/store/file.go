package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pickwatch/internal/model"
)

// recentCap bounds the pick audit kept inside the state file.
const recentCap = 50

// fileDoc is the on-disk document: the dedup state plus a bounded audit
// of recently emitted picks.
type fileDoc struct {
	State  *model.State `json:"state"`
	Recent []model.Pick `json:"recent_picks,omitempty"`
}

// FileStore persists history as a single JSON document, written via
// temp-file-and-rename so a crash mid-write leaves the previous document
// intact.
type FileStore struct {
	path   string
	recent []model.Pick
}

// NewFile creates a FileStore at the given path.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (*model.State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("store: state file unreadable, starting fresh",
				zap.String("path", f.path), zap.Error(err))
		}
		return model.NewState(), nil
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil || doc.State == nil {
		zap.L().Warn("store: state file corrupt, starting fresh",
			zap.String("path", f.path), zap.Error(err))
		return model.NewState(), nil
	}
	f.recent = doc.Recent
	return doc.State, nil
}

func (f *FileStore) Save(_ context.Context, state *model.State) error {
	doc := fileDoc{State: state, Recent: f.recent}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "store: marshal state")
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".pickwatch-state-*")
	if err != nil {
		return eris.Wrap(err, "store: create temp state file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "store: write temp state file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "store: close temp state file")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "store: rename state file")
	}
	return nil
}

func (f *FileStore) RecordEmitted(_ context.Context, _ string, picks []model.Pick) error {
	f.recent = append(f.recent, picks...)
	if n := len(f.recent) - recentCap; n > 0 {
		f.recent = f.recent[n:]
	}
	return nil
}

func (f *FileStore) RecentPicks(_ context.Context, limit int) ([]model.Pick, error) {
	if limit <= 0 || limit > len(f.recent) {
		limit = len(f.recent)
	}
	// Newest first.
	out := make([]model.Pick, 0, limit)
	for i := len(f.recent) - 1; i >= len(f.recent)-limit; i-- {
		out = append(out, f.recent[i])
	}
	return out, nil
}

func (f *FileStore) Reset(_ context.Context) error {
	f.recent = nil
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "store: remove state file")
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
