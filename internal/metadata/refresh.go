package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytq/internal/logging"
)

// BatchSize caps how many ids are handed to one Fetch call.
const BatchSize = 50

// Fetcher resolves video ids to records. Ids it cannot resolve are simply
// absent from the result.
type Fetcher interface {
	Fetch(ctx context.Context, ids []string) ([]Record, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, ids []string) ([]Record, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, ids []string) ([]Record, error) {
	return f(ctx, ids)
}

// RefreshOptions tunes a refresh.
type RefreshOptions struct {
	// Force re-requests ids already cached, tombstones included.
	Force bool
	// Limit caps the number of ids requested; zero means no cap.
	Limit int
	// Now stamps fetched records; defaults to time.Now.
	Now func() time.Time
}

// Summary reports what a refresh did.
type Summary struct {
	Candidates  int
	Requested   int
	Resolved    int
	Unavailable int
}

// Refresh plans, fetches, and upserts metadata for ids in batches. Each batch
// is saved before the next is requested, so progress survives a later
// failure. Fetch errors are returned as-is with no retry.
func Refresh(ctx context.Context, cache *Cache, fetcher Fetcher, ids []string, opts RefreshOptions) (Summary, error) {
	summary := Summary{Candidates: len(ids)}
	if fetcher == nil {
		return summary, errors.New("metadata refresh: no fetcher configured")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	cached, err := cache.Load()
	if err != nil {
		return summary, err
	}
	plan := PlanFetch(ids, cached, opts.Force)
	if opts.Limit > 0 && len(plan) > opts.Limit {
		plan = plan[:opts.Limit]
	}

	for start := 0; start < len(plan); start += BatchSize {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		end := min(start+BatchSize, len(plan))
		batch := plan[start:end]

		fetched, err := fetcher.Fetch(ctx, batch)
		if err != nil {
			return summary, fmt.Errorf("fetch metadata: %w", err)
		}
		at := now().UTC()
		fetched = stampFetched(fetched, at)
		records := WithTombstones(batch, fetched, at)
		if _, err := cache.Upsert(records); err != nil {
			return summary, err
		}

		summary.Requested += len(batch)
		summary.Resolved += len(fetched)
		summary.Unavailable += len(records) - len(fetched)
		cache.logger.Info("metadata batch stored",
			logging.Int("requested", len(batch)),
			logging.Int("resolved", len(fetched)),
		)
	}
	return summary, nil
}

func stampFetched(records []Record, at time.Time) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if rec.FetchedAt.IsZero() {
			rec.FetchedAt = at
		}
		if rec.DurationSeconds == 0 && rec.Duration != "" {
			if secs, ok := ParseISO8601Duration(rec.Duration); ok {
				rec.DurationSeconds = secs
			}
		}
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		rec.Unavailable = false
		out = append(out, rec)
	}
	return out
}
