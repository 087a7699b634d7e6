// Package queue persists the pending video queue as a single JSON snapshot
// guarded by an advisory lock file.
//
// Every mutation runs under an exclusive lock on "<snapshot>.lock": the
// snapshot is loaded, handed to the caller's transform, and written back in
// full through an atomic replace before the lock is released. Reads take a
// shared lock, so many readers proceed together and block only while a
// writer holds the file. Locks are advisory and tied to the open file, so a
// crashed process never leaves the queue wedged.
//
// A missing or unparsable snapshot loads as an empty queue. Write-path I/O
// errors and lock failures are returned to the caller.
//
// Selection policy (FIFO or LIFO) belongs to the caller; the Items helpers
// implement it so transforms stay one-liners.
package queue
