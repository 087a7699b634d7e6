package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockPollInterval = 20 * time.Millisecond

type lockMode int

const (
	lockShared lockMode = iota
	lockExclusive
)

func (m lockMode) String() string {
	if m == lockExclusive {
		return "exclusive"
	}
	return "shared"
}

// guard holds an acquired advisory lock until release.
type guard struct {
	lock *flock.Flock
	mode lockMode
}

// acquire opens a fresh handle on path and locks it. Each call gets its own
// open file description, so two guards in one process exclude each other
// exactly like two processes do. A context without a Done channel blocks
// with no timeout; otherwise the lock is polled until ctx ends.
func acquire(ctx context.Context, path string, mode lockMode) (*guard, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)

	if ctx == nil || ctx.Done() == nil {
		var err error
		if mode == lockExclusive {
			err = lock.Lock()
		} else {
			err = lock.RLock()
		}
		if err != nil {
			return nil, fmt.Errorf("acquire %s lock on %s: %w", mode, path, err)
		}
		return &guard{lock: lock, mode: mode}, nil
	}

	var (
		locked bool
		err    error
	)
	if mode == lockExclusive {
		locked, err = lock.TryLockContext(ctx, lockPollInterval)
	} else {
		locked, err = lock.TryRLockContext(ctx, lockPollInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire %s lock on %s: %w", mode, path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire %s lock on %s: %w", mode, path, errors.New("lock not granted"))
	}
	return &guard{lock: lock, mode: mode}, nil
}

func (g *guard) release() error {
	if g == nil || g.lock == nil {
		return nil
	}
	if err := g.lock.Unlock(); err != nil {
		return fmt.Errorf("release %s lock: %w", g.mode, err)
	}
	return nil
}
