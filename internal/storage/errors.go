package storage

import "fmt"

// PersistenceError reports an I/O failure during load, save, or backup.
// A failed save leaves the in-memory state intact; the caller decides
// whether to retry or warn that the change is not yet durable.
type PersistenceError struct {
	Op   string // "init", "load", "save", "backup"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// RecoveredFromBackupError is returned by Load together with a usable
// snapshot when the canonical file was corrupt and a backup was loaded
// instead. Non-fatal: the caller should inform the user that recent
// changes may be missing.
type RecoveredFromBackupError struct {
	Path   string // the corrupted canonical file
	Backup string // the backup that was loaded
	Err    error  // what was wrong with the canonical file
}

func (e *RecoveredFromBackupError) Error() string {
	return fmt.Sprintf("recovered %s from backup %s: %v", e.Path, e.Backup, e.Err)
}

func (e *RecoveredFromBackupError) Unwrap() error {
	return e.Err
}
