// Package preflight provides readiness checks for the files and settings
// ytq depends on.
//
// The CLI "ytq doctor" command runs RunAll and renders each Result; the
// individual checks (CheckDirectoryAccess, CheckQueueLock, ...) stay
// exported so other commands can probe a single concern. Checks never
// modify data: the lock probe releases immediately and snapshot checks
// only read.
package preflight
