package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Repository owns the process-wide cached snapshot. It is constructed once in
// main and passed to whatever needs the data; there is no package-level state.
type Repository struct {
	source Source
	logger *slog.Logger

	reloadMu sync.Mutex // serialises fetches

	mu      sync.RWMutex
	current *Snapshot
}

func NewRepository(src Source, logger *slog.Logger) *Repository {
	return &Repository{source: src, logger: logger}
}

// Load fetches the snapshot the first time it is called and returns the cached
// one afterwards.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	if snap, err := r.Current(); err == nil {
		return snap, nil
	}

	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	// Another caller may have loaded while we waited.
	if snap, err := r.Current(); err == nil {
		return snap, nil
	}
	return r.fetch(ctx)
}

// Reload always fetches a fresh snapshot. On failure the previous snapshot is
// kept and the error is returned.
func (r *Repository) Reload(ctx context.Context) (*Snapshot, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	return r.fetch(ctx)
}

// Current returns the cached snapshot or ErrNotLoaded.
func (r *Repository) Current() (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil, ErrNotLoaded
	}
	return r.current, nil
}

func (r *Repository) fetch(ctx context.Context) (*Snapshot, error) {
	snap, err := r.source.Fetch(ctx)
	if err != nil {
		r.logger.Error("dataset fetch failed", "source", r.source.Name(), "error", err)
		if !errors.Is(err, ErrDataLoad) {
			err = fmt.Errorf("%w: %s: %v", ErrDataLoad, r.source.Name(), err)
		}
		return nil, err
	}

	r.mu.Lock()
	r.current = snap
	r.mu.Unlock()

	r.logger.Info("dataset loaded",
		"source", snap.Source,
		"snapshot_id", snap.ID,
		"operators", len(snap.Operators),
		"scenarios", len(snap.Scenarios),
	)
	return snap, nil
}
