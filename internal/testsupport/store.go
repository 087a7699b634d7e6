package testsupport

import (
	"context"
	"testing"
	"time"

	"ytq/internal/config"
	"ytq/internal/history"
	"ytq/internal/logging"
	"ytq/internal/metadata"
	"ytq/internal/queue"
	"ytq/internal/youtube"
)

// MustOpenStore opens the queue store named by cfg.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()
	return queue.Open(cfg.QueuePath(), logging.NewNop())
}

// MustOpenJournal opens the history journal named by cfg.
func MustOpenJournal(t testing.TB, cfg *config.Config) *history.Journal {
	t.Helper()
	return history.Open(cfg.HistoryDir(), logging.NewNop())
}

// MustOpenCache opens the metadata cache named by cfg.
func MustOpenCache(t testing.TB, cfg *config.Config) *metadata.Cache {
	t.Helper()
	return metadata.Open(cfg.MetadataPath(), logging.NewNop())
}

// NewItem builds a queue item for id with its canonical URL.
func NewItem(id string, addedAt time.Time) queue.Item {
	return queue.Item{ID: id, URL: youtube.CanonicalURL(id), AddedAt: addedAt}
}

// SeedQueue appends items for ids, one second apart starting at start.
func SeedQueue(t testing.TB, store *queue.Store, start time.Time, ids ...string) {
	t.Helper()

	err := store.Mutate(context.Background(), func(items *queue.Items) error {
		for i, id := range ids {
			items.Append(NewItem(id, start.Add(time.Duration(i)*time.Second)))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed queue: %v", err)
	}
}

// QueueIDs returns the ids currently stored, in storage order.
func QueueIDs(t testing.TB, store *queue.Store) []string {
	t.Helper()

	items, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("read queue: %v", err)
	}
	return items.IDs()
}
