package queue

import (
	"fmt"
	"time"

	"ytq/internal/config"
)

// Item is one queued video.
type Item struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	AddedAt time.Time `json:"added_at"`
}

// Items is the ordered queue, oldest first.
type Items []Item

// Append adds item at the back of the queue. Callers check Contains first;
// the store does not deduplicate.
func (q *Items) Append(item Item) {
	*q = append(*q, item)
}

// TakeNext removes the next item for mode: the front for queue mode, the
// back for stack mode.
func (q *Items) TakeNext(mode config.Mode) (Item, error) {
	if len(*q) == 0 {
		return Item{}, ErrEmpty
	}
	if mode == config.ModeStack {
		return q.TakeAt(len(*q) - 1)
	}
	return q.TakeAt(0)
}

// RemoveByID removes the item with id regardless of mode.
func (q *Items) RemoveByID(id string) (Item, error) {
	idx := q.Index(id)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return q.TakeAt(idx)
}

// TakeAt removes the item at position i.
func (q *Items) TakeAt(i int) (Item, error) {
	items := *q
	if i < 0 || i >= len(items) {
		if len(items) == 0 {
			return Item{}, ErrEmpty
		}
		return Item{}, fmt.Errorf("queue position %d out of range [0,%d)", i, len(items))
	}
	item := items[i]
	*q = append(items[:i:i], items[i+1:]...)
	return item, nil
}

// Index returns the position of id, or -1.
func (q Items) Index(id string) int {
	for i, item := range q {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is queued.
func (q Items) Contains(id string) bool {
	return q.Index(id) >= 0
}

// Peek returns up to n items in the order TakeNext would yield them.
func (q Items) Peek(mode config.Mode, n int) []Item {
	if n <= 0 || len(q) == 0 {
		return nil
	}
	if n > len(q) {
		n = len(q)
	}
	out := make([]Item, 0, n)
	for i := range n {
		if mode == config.ModeStack {
			out = append(out, q[len(q)-1-i])
		} else {
			out = append(out, q[i])
		}
	}
	return out
}

// IDs returns the queued ids in storage order.
func (q Items) IDs() []string {
	ids := make([]string, len(q))
	for i, item := range q {
		ids[i] = item.ID
	}
	return ids
}
