// Package main hosts the ytq CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds a
// tracker over the queue, journal, and metadata files, and tags every log line
// with a per-invocation id. Command output goes to stdout; logs go to stderr.
//
// Keep this package lean: queue semantics live in internal/tracker and the
// store packages, and commands here only parse arguments and render results.
package main
