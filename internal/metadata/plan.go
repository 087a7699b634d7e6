package metadata

import (
	"strings"
	"time"
)

// PlanFetch returns the ids from candidates that a refresh should request.
// Without force every cached id is skipped, tombstones included. Duplicates
// and blanks are dropped; first-seen order is kept.
func PlanFetch(candidates []string, cached map[string]Record, force bool) []string {
	seen := make(map[string]struct{}, len(candidates))
	plan := make([]string, 0, len(candidates))
	for _, id := range candidates {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !force {
			if _, ok := cached[id]; ok {
				continue
			}
		}
		plan = append(plan, id)
	}
	return plan
}

// WithTombstones returns fetched plus a tombstone for every requested id the
// fetch did not return.
func WithTombstones(requested []string, fetched []Record, at time.Time) []Record {
	returned := make(map[string]struct{}, len(fetched))
	for _, rec := range fetched {
		returned[rec.ID] = struct{}{}
	}
	out := make([]Record, 0, len(requested))
	out = append(out, fetched...)
	for _, id := range requested {
		if _, ok := returned[id]; ok {
			continue
		}
		returned[id] = struct{}{}
		out = append(out, Tombstone(id, at))
	}
	return out
}
