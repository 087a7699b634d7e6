package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ytq/internal/fileutil"
	"ytq/internal/logging"
)

const snapshotFileMode = 0o644

// Store owns the on-disk queue snapshot.
type Store struct {
	path     string
	lockPath string
	logger   *slog.Logger
}

// Open returns a store for the snapshot at path. Nothing is touched on disk
// until the first Mutate or Read.
func Open(path string, logger *slog.Logger) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
		logger:   logging.NewComponentLogger(logger, "queue"),
	}
}

// Path returns the snapshot location.
func (s *Store) Path() string { return s.path }

// LockPath returns the advisory lock file location.
func (s *Store) LockPath() string { return s.lockPath }

// Mutate runs fn against the current queue under the exclusive lock and
// persists the result. When fn fails nothing is written and its error is
// returned unchanged.
func (s *Store) Mutate(ctx context.Context, fn func(*Items) error) (err error) {
	g, err := acquire(ctx, s.lockPath, lockExclusive)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := g.release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	before := len(items)
	if err := fn(&items); err != nil {
		return err
	}
	if err := s.save(items); err != nil {
		return err
	}
	s.logger.Debug("queue saved",
		logging.String(logging.FieldPath, s.path),
		logging.Int("items_before", before),
		logging.Int("items_after", len(items)),
	)
	return nil
}

// Read runs fn against the current queue under a shared lock.
func (s *Store) Read(ctx context.Context, fn func(Items) error) (err error) {
	g, err := acquire(ctx, s.lockPath, lockShared)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := g.release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(items)
}

// Snapshot returns a copy of the current queue.
func (s *Store) Snapshot(ctx context.Context) (Items, error) {
	var out Items
	err := s.Read(ctx, func(items Items) error {
		out = items
		return nil
	})
	return out, err
}

func (s *Store) load(ctx context.Context) (Items, error) {
	data, ok, err := fileutil.ReadFileIfExists(s.path)
	if err != nil {
		return nil, fmt.Errorf("read queue %s: %w", s.path, err)
	}
	if !ok || len(data) == 0 {
		return Items{}, nil
	}
	var items Items
	if err := json.Unmarshal(data, &items); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "queue snapshot unreadable; treating as empty", "queue_corrupt",
			logging.String(logging.FieldPath, s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "restore queue.json from backup or let the next change overwrite it"),
			logging.String(logging.FieldImpact, "queued items in the unreadable file are ignored"),
		)
		return Items{}, nil
	}
	if items == nil {
		items = Items{}
	}
	return items, nil
}

func (s *Store) save(items Items) error {
	if items == nil {
		items = Items{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, snapshotFileMode); err != nil {
		return fmt.Errorf("write queue: %w", err)
	}
	return nil
}
