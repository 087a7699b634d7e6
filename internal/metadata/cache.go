package metadata

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"ytq/internal/fileutil"
	"ytq/internal/logging"
)

const cacheFileMode = 0o644

// Cache reads and replaces the metadata document at one path.
type Cache struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// Open returns a cache for the document at path. The file is created on
// first save.
func Open(path string, logger *slog.Logger) *Cache {
	return &Cache{
		path:   path,
		logger: logging.NewComponentLogger(logger, "metadata"),
	}
}

// Path returns the document location.
func (c *Cache) Path() string { return c.path }

// Load returns the cached records keyed by id.
func (c *Cache) Load() (map[string]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Save replaces the document with records.
func (c *Cache) Save(records map[string]Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(records)
}

// Upsert merges records into the document, overwriting existing ids, and
// returns how many records were written.
func (c *Cache) Upsert(records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.load()
	if err != nil {
		return 0, err
	}
	written := 0
	replaced := 0
	for _, rec := range records {
		rec.ID = strings.TrimSpace(rec.ID)
		if rec.ID == "" {
			continue
		}
		if _, ok := existing[rec.ID]; ok {
			replaced++
		}
		existing[rec.ID] = rec
		written++
	}
	if written == 0 {
		return 0, nil
	}
	if err := c.save(existing); err != nil {
		return 0, err
	}
	c.logger.Debug("metadata upserted",
		logging.Int("written", written),
		logging.Int("replaced", replaced),
		logging.Int("total", len(existing)),
	)
	return written, nil
}

func (c *Cache) load() (map[string]Record, error) {
	records := make(map[string]Record)
	data, ok, err := fileutil.ReadFileIfExists(c.path)
	if err != nil {
		return nil, fmt.Errorf("read metadata cache: %w", err)
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		logging.WarnWithContext(c.logger, "metadata cache unreadable; treating as empty", "metadata_corrupt",
			logging.String(logging.FieldPath, c.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run ytq fetch to rebuild the cache"),
			logging.String(logging.FieldImpact, "cached titles and tombstones are ignored until the next save"),
		)
		return make(map[string]Record), nil
	}
	if records == nil {
		records = make(map[string]Record)
	}
	return records, nil
}

func (c *Cache) save(records map[string]Record) error {
	if records == nil {
		records = map[string]Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata cache: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.path, data, cacheFileMode); err != nil {
		return fmt.Errorf("write metadata cache: %w", err)
	}
	return nil
}
