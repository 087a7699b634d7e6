// Package history records queue lifecycle events in an append-only journal.
//
// Events are JSON lines partitioned into one segment per calendar month
// ("2025-03.log", named by the event's UTC timestamp). Appends open the
// segment with O_APPEND and write each record in a single call, so
// concurrent processes interleave at line granularity and need no lock.
// Segments are never rewritten or deleted.
//
// Reading decodes each line on its own. Lines that do not decode, such as
// the tail of a crash mid-append, are dropped, and the survivors are sorted
// by timestamp because neither segment enumeration nor interleaved appends
// preserve chronological order.
package history
