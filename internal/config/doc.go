// Package config loads, normalizes, validates, and persists ytq settings.
//
// The settings live in a single TOML document. Its top-level keys form the
// user-facing record (ordering mode, offline flag, API credential) that
// commands consult before touching the store; the [paths] and [logging]
// tables locate the data directory and shape log output. Missing keys fall
// back to documented defaults so older files keep loading.
//
// The file is small and rewritten whole. Concurrent writers race with
// last-writer-wins semantics, which is acceptable for a per-user settings
// file; every write is an atomic replace so readers never see a torn file.
package config
