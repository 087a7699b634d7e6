package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"ytq/internal/config"
	"ytq/internal/history"
	"ytq/internal/logging"
	"ytq/internal/metadata"
	"ytq/internal/queue"
	"ytq/internal/youtube"
)

// Tracker bundles the stores named by a config.
type Tracker struct {
	cfg     *config.Config
	store   *queue.Store
	journal *history.Journal
	cache   *metadata.Cache
	logger  *slog.Logger
	now     func() time.Time
	intn    func(n int) int
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithRandom replaces the source used by Random. intn must return a value in [0,n).
func WithRandom(intn func(n int) int) Option {
	return func(t *Tracker) {
		if intn != nil {
			t.intn = intn
		}
	}
}

// New builds a tracker over the files named by cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		cfg:     cfg,
		store:   queue.Open(cfg.QueuePath(), logger),
		journal: history.Open(cfg.HistoryDir(), logger),
		cache:   metadata.Open(cfg.MetadataPath(), logger),
		logger:  logging.NewComponentLogger(logger, "tracker"),
		now:     time.Now,
		intn:    rand.IntN,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the configuration the tracker was built from.
func (t *Tracker) Config() *config.Config { return t.cfg }

// Store returns the queue store.
func (t *Tracker) Store() *queue.Store { return t.store }

// Journal returns the history journal.
func (t *Tracker) Journal() *history.Journal { return t.journal }

// Cache returns the metadata cache.
func (t *Tracker) Cache() *metadata.Cache { return t.cache }

// Add queues the video named by input.
func (t *Tracker) Add(ctx context.Context, input string) (queue.Item, error) {
	id, url, err := youtube.Normalize(input)
	if err != nil {
		return queue.Item{}, err
	}
	item := queue.Item{ID: id, URL: url, AddedAt: t.now().UTC()}

	err = t.store.Mutate(ctx, func(items *queue.Items) error {
		if items.Contains(id) {
			return fmt.Errorf("%w: %s", ErrAlreadyQueued, id)
		}
		items.Append(item)
		return nil
	})
	if err != nil {
		return queue.Item{}, err
	}

	if err := t.record(ctx, history.NewQueued(item)); err != nil {
		return item, err
	}
	logging.WithContext(ctx, t.logger).Info("video queued", logging.String(logging.FieldVideoID, id))
	return item, nil
}

// Next takes the next item for the configured mode, or the item named by
// target when target is not empty, and records it as watched.
func (t *Tracker) Next(ctx context.Context, target string) (queue.Item, error) {
	var targetID string
	if target != "" {
		id, err := youtube.ExtractVideoID(target)
		if err != nil {
			return queue.Item{}, err
		}
		targetID = id
	}

	var item queue.Item
	err := t.store.Mutate(ctx, func(items *queue.Items) error {
		var err error
		if targetID != "" {
			item, err = items.RemoveByID(targetID)
		} else {
			item, err = items.TakeNext(t.cfg.Mode)
		}
		return err
	})
	if err != nil {
		return queue.Item{}, err
	}
	return item, t.watched(ctx, item)
}

// Random takes a uniformly chosen item and records it as watched.
func (t *Tracker) Random(ctx context.Context) (queue.Item, error) {
	var item queue.Item
	err := t.store.Mutate(ctx, func(items *queue.Items) error {
		if len(*items) == 0 {
			return queue.ErrEmpty
		}
		var err error
		item, err = items.TakeAt(t.intn(len(*items)))
		return err
	})
	if err != nil {
		return queue.Item{}, err
	}
	return item, t.watched(ctx, item)
}

// Remove drops the item named by input and records it as skipped.
func (t *Tracker) Remove(ctx context.Context, input string) (queue.Item, error) {
	id, err := youtube.ExtractVideoID(input)
	if err != nil {
		return queue.Item{}, err
	}

	var item queue.Item
	err = t.store.Mutate(ctx, func(items *queue.Items) error {
		var err error
		item, err = items.RemoveByID(id)
		return err
	})
	if err != nil {
		return queue.Item{}, err
	}

	if err := t.record(ctx, history.NewSkipped(item, t.now())); err != nil {
		return item, err
	}
	logging.WithContext(ctx, t.logger).Info("video skipped", logging.String(logging.FieldVideoID, id))
	return item, nil
}

// List returns the queue in storage order.
func (t *Tracker) List(ctx context.Context) (queue.Items, error) {
	return t.store.Snapshot(ctx)
}

// Peek returns up to n items in the order Next would take them.
func (t *Tracker) Peek(ctx context.Context, n int) ([]queue.Item, error) {
	var out []queue.Item
	err := t.store.Read(ctx, func(items queue.Items) error {
		out = items.Peek(t.cfg.Mode, n)
		return nil
	})
	return out, err
}

// History returns every journaled event, oldest first.
func (t *Tracker) History() ([]history.Event, error) {
	return t.journal.ReadAll()
}

// Metadata returns the cached records.
func (t *Tracker) Metadata() (map[string]metadata.Record, error) {
	return t.cache.Load()
}

func (t *Tracker) watched(ctx context.Context, item queue.Item) error {
	ev := history.NewWatched(item, t.now())
	if err := t.record(ctx, ev); err != nil {
		return err
	}
	logging.WithContext(ctx, t.logger).Info("video watched",
		logging.String(logging.FieldVideoID, item.ID),
		logging.Int64("time_in_queue_sec", *ev.TimeInQueueSec),
	)
	return nil
}

func (t *Tracker) record(ctx context.Context, ev history.Event) error {
	if err := t.journal.Append(ev); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, t.logger), "history append failed after queue change", "history_append_failed",
			logging.String(logging.FieldVideoID, ev.VideoID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the history directory"),
			logging.String(logging.FieldImpact, "the queue change is kept but missing from history"),
		)
		return fmt.Errorf("queue updated but history not recorded: %w", err)
	}
	return nil
}
