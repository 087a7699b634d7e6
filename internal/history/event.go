package history

import (
	"encoding/json"
	"fmt"
	"time"

	"ytq/internal/queue"
)

// Action names a lifecycle transition.
type Action string

const (
	ActionQueued  Action = "Queued"
	ActionWatched Action = "Watched"
	ActionSkipped Action = "Skipped"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionQueued, ActionWatched, ActionSkipped:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects unknown actions so DecodeLine treats them as corrupt.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !Action(raw).Valid() {
		return fmt.Errorf("unknown action %q", raw)
	}
	*a = Action(raw)
	return nil
}

// Event is one journal record. TimeInQueueSec is set only for watched
// events.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	Action         Action    `json:"action"`
	VideoID        string    `json:"video_id"`
	TimeInQueueSec *int64    `json:"time_in_queue_sec"`
}

// NewQueued records item entering the queue at its insertion time.
func NewQueued(item queue.Item) Event {
	return Event{
		Timestamp: item.AddedAt.UTC(),
		Action:    ActionQueued,
		VideoID:   item.ID,
	}
}

// NewWatched records item being consumed at at.
func NewWatched(item queue.Item, at time.Time) Event {
	seconds := int64(at.Sub(item.AddedAt) / time.Second)
	return Event{
		Timestamp:      at.UTC(),
		Action:         ActionWatched,
		VideoID:        item.ID,
		TimeInQueueSec: &seconds,
	}
}

// NewSkipped records item being dropped at at.
func NewSkipped(item queue.Item, at time.Time) Event {
	return Event{
		Timestamp: at.UTC(),
		Action:    ActionSkipped,
		VideoID:   item.ID,
	}
}

// TimeInQueue returns the recorded wait, if any.
func (e Event) TimeInQueue() (time.Duration, bool) {
	if e.TimeInQueueSec == nil {
		return 0, false
	}
	return time.Duration(*e.TimeInQueueSec) * time.Second, true
}

// DecodeLine parses one journal line. It returns false for blank lines and
// for anything that is not a complete event.
func DecodeLine(line []byte) (Event, bool) {
	var ev Event
	if len(line) == 0 {
		return ev, false
	}
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, false
	}
	if ev.Timestamp.IsZero() || ev.VideoID == "" || ev.Action == "" {
		return Event{}, false
	}
	return ev, true
}
