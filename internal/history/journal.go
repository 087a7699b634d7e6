package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"ytq/internal/fileutil"
	"ytq/internal/logging"
)

const (
	segmentExt      = ".log"
	segmentLayout   = "2006-01"
	segmentFileMode = 0o644
)

// Journal appends to and reads the monthly segments under one directory.
type Journal struct {
	dir    string
	logger *slog.Logger
	open   func(name string) (*os.File, error)
}

// Open returns a journal rooted at dir. The directory is created on first
// append.
func Open(dir string, logger *slog.Logger) *Journal {
	return &Journal{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "history"),
		open:   os.Open,
	}
}

// Dir returns the segment directory.
func (j *Journal) Dir() string { return j.dir }

// SegmentPath returns the file an event with ev's timestamp belongs to.
func (j *Journal) SegmentPath(ev Event) string {
	return filepath.Join(j.dir, ev.Timestamp.UTC().Format(segmentLayout)+segmentExt)
}

// Append writes ev as one line to its month's segment and syncs it.
func (j *Journal) Append(ev Event) error {
	if !ev.Action.Valid() {
		return fmt.Errorf("append event: unknown action %q", ev.Action)
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	path := j.SegmentPath(ev)
	if err := fileutil.AppendLine(path, line, segmentFileMode); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	j.logger.Debug("event appended",
		logging.String(logging.FieldEventType, string(ev.Action)),
		logging.String(logging.FieldVideoID, ev.VideoID),
		logging.String(logging.FieldPath, path),
	)
	return nil
}

// Segments returns the segment file names in name order. A missing
// directory yields none.
func (j *Journal) Segments() ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list history segments: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), segmentExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// ReadAll returns every decodable event, oldest first. Events with equal
// timestamps keep their physical order. A segment that cannot be read is
// logged and skipped; Stats reports it instead.
func (j *Journal) ReadAll() ([]Event, error) {
	names, err := j.Segments()
	if err != nil {
		return nil, err
	}
	var events []Event
	for _, name := range names {
		path := filepath.Join(j.dir, name)
		skipped := 0
		if err := j.scanSegment(path, func(ev Event, ok bool) bool {
			if ok {
				events = append(events, ev)
			} else {
				skipped++
			}
			return true
		}); err != nil {
			j.warnUnreadable(path, err)
			continue
		}
		if skipped > 0 {
			j.logger.Debug("skipped undecodable history lines",
				logging.String(logging.FieldPath, path),
				logging.Int("lines", skipped),
			)
		}
	}
	sort.SliceStable(events, func(a, b int) bool {
		return events[a].Timestamp.Before(events[b].Timestamp)
	})
	return events, nil
}

// Events yields decodable events segment by segment in physical order,
// without sorting. Unreadable segments are logged and skipped.
func (j *Journal) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		names, err := j.Segments()
		if err != nil {
			j.logger.Warn("history listing failed", logging.Error(err))
			return
		}
		for _, name := range names {
			stopped := false
			path := filepath.Join(j.dir, name)
			err := j.scanSegment(path, func(ev Event, ok bool) bool {
				if !ok {
					return true
				}
				if !yield(ev) {
					stopped = true
					return false
				}
				return true
			})
			if stopped {
				return
			}
			if err != nil {
				j.warnUnreadable(path, err)
			}
		}
	}
}

func (j *Journal) warnUnreadable(path string, err error) {
	logging.WarnWithContext(j.logger, "history segment unreadable; skipping", "history_segment_unreadable",
		logging.String(logging.FieldPath, path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions on the history directory"),
		logging.String(logging.FieldImpact, "events in this segment are missing from history output"),
	)
}

// scanSegment decodes each non-blank line of path and hands the result to
// fn, which returns false to stop.
func (j *Journal) scanSegment(path string, fn func(ev Event, ok bool) bool) error {
	f, err := j.open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open history segment: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		line, readErr := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			ev, ok := DecodeLine(trimmed)
			if !fn(ev, ok) {
				return nil
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read history segment %s: %w", path, readErr)
		}
	}
}

// Stats summarizes the journal on disk.
type Stats struct {
	Segments int
	Events   int
	Skipped  int
}

// Stats counts segments, decodable events, and undecodable lines.
func (j *Journal) Stats() (Stats, error) {
	names, err := j.Segments()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Segments: len(names)}
	for _, name := range names {
		err := j.scanSegment(filepath.Join(j.dir, name), func(_ Event, ok bool) bool {
			if ok {
				stats.Events++
			} else {
				stats.Skipped++
			}
			return true
		})
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}
