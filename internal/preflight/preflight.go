package preflight

import (
	"context"

	"ytq/internal/config"
	"ytq/internal/metadata"
	"ytq/internal/queue"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.DataDir()),
		CheckDirectoryAccess("History directory", cfg.HistoryDir()),
		CheckQueueLock(ctx, cfg.QueuePath()+".lock"),
		CheckJSONDocument("Queue snapshot", cfg.QueuePath(), &queue.Items{}),
		CheckJSONDocument("Metadata cache", cfg.MetadataPath(), &map[string]metadata.Record{}),
		CheckHistory(cfg.HistoryDir()),
		CheckFetchCredentials(cfg),
	}
	return results
}
