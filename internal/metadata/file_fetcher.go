package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileFetcher resolves ids from a JSON array of records on disk, such as an
// export from another machine's cache.
type FileFetcher struct {
	Path string
}

// Fetch returns the records in the file whose ids were requested.
func (f FileFetcher) Fetch(ctx context.Context, ids []string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	var all []Record
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse records file %s: %w", f.Path, err)
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]Record, 0, len(ids))
	for _, rec := range all {
		if _, ok := wanted[rec.ID]; !ok || rec.Unavailable {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
