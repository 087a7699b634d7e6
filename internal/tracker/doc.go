// Package tracker drives the queue, journal, and metadata cache for one
// invocation.
//
// Each mutating operation normalizes its input, performs its
// read-modify-write inside queue.Store.Mutate, and only after the lock is
// released appends the matching history event. A journal failure after a
// committed queue change is reported but does not roll the queue back.
package tracker
