package tracker

import "errors"

var (
	// ErrAlreadyQueued reports an add for an id that is already pending.
	ErrAlreadyQueued = errors.New("video already in queue")
	// ErrOffline reports a metadata refresh while offline mode is on.
	ErrOffline = errors.New("offline mode is enabled; run `ytq config set offline false` to fetch metadata")
)
