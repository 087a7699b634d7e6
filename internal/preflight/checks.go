package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"ytq/internal/config"
	"ytq/internal/fileutil"
	"ytq/internal/history"
	"ytq/internal/logging"
)

const lockProbeTimeout = 2 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckQueueLock verifies the queue lock can be taken exclusively and
// releases it at once. A lock held past the probe timeout usually means a
// stuck ytq process.
func CheckQueueLock(ctx context.Context, lockPath string) Result {
	const name = "Queue lock"

	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: "not created yet"}
	}

	probeCtx, cancel := context.WithTimeout(ctx, lockProbeTimeout)
	defer cancel()

	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(probeCtx, 50*time.Millisecond)
	if err != nil {
		if probeCtx.Err() != nil {
			return Result{Name: name, Detail: fmt.Sprintf("held by another process for over %s", lockProbeTimeout)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("lock failed: %v", err)}
	}
	if !locked {
		return Result{Name: name, Detail: "held by another process"}
	}
	if err := lock.Unlock(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unlock failed: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: "available"}
}

// CheckJSONDocument reports whether a whole-file JSON document decodes into
// target, the type its store reads. A missing file passes because it reads
// as empty.
func CheckJSONDocument(name, path string, target any) Result {
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !ok {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (missing, reads as empty)", path)}
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, target); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (unparsable, reads as empty: %v)", path, err)}
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", path, len(data))}
}

// CheckHistory counts journal segments and flags undecodable lines.
func CheckHistory(dir string) Result {
	const name = "History journal"

	stats, err := history.Open(dir, logging.NewNop()).Stats()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	detail := fmt.Sprintf("%d segments, %d events", stats.Segments, stats.Events)
	if stats.Skipped > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s, %d undecodable lines skipped", detail, stats.Skipped)}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckFetchCredentials reports whether metadata refreshes can run.
func CheckFetchCredentials(cfg *config.Config) Result {
	const name = "Metadata fetch"

	if cfg.Offline {
		return Result{Name: name, Passed: true, Detail: "offline mode (fetch disabled)"}
	}
	if !cfg.HasAPIKey() {
		return Result{Name: name, Detail: "api_key missing (set api_key or YTQ_API_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: "api key configured"}
}
