package tracker

import (
	"context"
	"fmt"
	"strings"

	"ytq/internal/history"
	"ytq/internal/logging"
	"ytq/internal/metadata"
	"ytq/internal/youtube"
)

// Scope selects which ids a metadata refresh considers.
type Scope string

const (
	ScopeQueue   Scope = "queue"
	ScopeHistory Scope = "history"
	ScopeAll     Scope = "all"
)

// RefreshRequest describes one metadata refresh.
type RefreshRequest struct {
	// Targets names explicit videos; when set, Scope is ignored.
	Targets []string
	Scope   Scope
	Force   bool
	Limit   int
}

// RefreshMetadata fetches metadata for the requested ids and merges it into
// the cache. It refuses to run in offline mode.
func (t *Tracker) RefreshMetadata(ctx context.Context, fetcher metadata.Fetcher, req RefreshRequest) (metadata.Summary, error) {
	if t.cfg.Offline {
		return metadata.Summary{}, ErrOffline
	}

	ids, err := t.refreshCandidates(ctx, req)
	if err != nil {
		return metadata.Summary{}, err
	}

	summary, err := metadata.Refresh(ctx, t.cache, fetcher, ids, metadata.RefreshOptions{
		Force: req.Force,
		Limit: req.Limit,
		Now:   t.now,
	})
	if err != nil {
		return summary, err
	}
	logging.WithContext(ctx, t.logger).Info("metadata refreshed",
		logging.Int("candidates", summary.Candidates),
		logging.Int("requested", summary.Requested),
		logging.Int("resolved", summary.Resolved),
		logging.Int("unavailable", summary.Unavailable),
	)
	return summary, nil
}

func (t *Tracker) refreshCandidates(ctx context.Context, req RefreshRequest) ([]string, error) {
	if len(req.Targets) > 0 {
		ids := make([]string, 0, len(req.Targets))
		for _, target := range req.Targets {
			for _, part := range strings.Split(target, ",") {
				if strings.TrimSpace(part) == "" {
					continue
				}
				id, err := youtube.ExtractVideoID(part)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	var ids []string
	scope := req.Scope
	if scope == "" {
		scope = ScopeQueue
	}
	switch scope {
	case ScopeQueue, ScopeHistory, ScopeAll:
	default:
		return nil, fmt.Errorf("unknown refresh scope %q", scope)
	}
	if scope == ScopeQueue || scope == ScopeAll {
		items, err := t.store.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		ids = append(ids, items.IDs()...)
	}
	if scope == ScopeHistory || scope == ScopeAll {
		events, err := t.journal.ReadAll()
		if err != nil {
			return nil, err
		}
		ids = append(ids, historyIDs(events)...)
	}
	return ids, nil
}

func historyIDs(events []history.Event) []string {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.VideoID)
	}
	return ids
}
