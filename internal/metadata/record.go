package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// State distinguishes resolved records from tombstones.
type State int

const (
	StateAvailable State = iota
	StateUnavailable
)

func (s State) String() string {
	if s == StateUnavailable {
		return "unavailable"
	}
	return "available"
}

// Record holds the descriptive fields for one video.
type Record struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Channel         string    `json:"channel"`
	ChannelID       string    `json:"channel_id"`
	Duration        string    `json:"duration"`
	DurationSeconds uint64    `json:"duration_seconds"`
	PublishedAt     time.Time `json:"published_at"`
	CategoryID      string    `json:"category_id"`
	Tags            []string  `json:"tags"`
	FetchedAt       time.Time `json:"fetched_at"`
	Unavailable     bool      `json:"unavailable"`
}

// Tombstone returns the record stored for an id the fetcher could not resolve.
func Tombstone(id string, at time.Time) Record {
	return Record{
		ID:          id,
		Tags:        []string{},
		FetchedAt:   at.UTC(),
		Unavailable: true,
	}
}

// State reports whether r is a resolved record or a tombstone.
func (r Record) State() State {
	if r.Unavailable {
		return StateUnavailable
	}
	return StateAvailable
}

// Available reports whether r carries descriptive fields.
func (r Record) Available() bool {
	return r.State() == StateAvailable
}

// Length returns the video length when known.
func (r Record) Length() (time.Duration, bool) {
	if !r.Available() || r.DurationSeconds == 0 {
		return 0, false
	}
	return time.Duration(r.DurationSeconds) * time.Second, true
}

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISO8601Duration converts a "PT#H#M#S" duration to seconds.
func ParseISO8601Duration(value string) (uint64, bool) {
	m := iso8601Duration.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	var total uint64
	for i, scale := range []uint64{3600, 60, 1} {
		part := m[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return 0, false
		}
		total += n * scale
	}
	return total, true
}

// FormatDuration renders seconds as "H:MM:SS", or "M:SS" under an hour.
func FormatDuration(seconds uint64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
