// Package metadata caches descriptive video records next to the queue.
//
// The cache is one JSON document mapping video id to Record, loaded and
// replaced whole. A missing or unparsable document reads as an empty cache.
// Upsert overwrites by id unconditionally, so a later fetch always wins.
//
// Ids the fetcher could not resolve are stored as tombstones (Unavailable
// set, descriptive fields empty). PlanFetch skips every cached id, tombstones
// included, unless a forced refresh asks for them again. Records are never
// deleted.
//
// Writes are not locked against other processes; one metadata writer at a
// time is assumed.
package metadata
