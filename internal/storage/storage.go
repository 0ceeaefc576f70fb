// Package storage persists task snapshots to disk as JSON files.
//
// The layout under the data directory is tasks.json for the task
// collection, categories.json for the category registry, and backups/
// holding timestamped copies of both, pruned after a retention period.
// Every write goes through a temp-file-and-rename step, so a crash
// mid-save leaves the previous complete snapshot in place. A corrupted
// canonical file is recovered from the newest parsable backup.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ChrisZHHG/taskdeck/internal/model"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

const (
	taskFileName     = "tasks.json"
	categoryFileName = "categories.json"
	backupDirName    = "backups"

	// backupStampLayout renders UTC times like 20240115T100000.000Z.
	// Lexicographic order on backup names matches chronological order.
	backupStampLayout = "20060102T150405.000Z0700"
)

// DefaultRetention is how long backups are kept before pruning.
const DefaultRetention = 30 * 24 * time.Hour

// Storage reads and writes snapshots under a single data directory.
// All save and backup calls serialize on an internal mutex, so there is
// never more than one writer to the canonical files.
type Storage struct {
	mu        sync.Mutex
	dir       string
	retention time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// Option configures a Storage at construction time.
type Option func(*Storage)

// WithRetention overrides how long backups are kept.
func WithRetention(d time.Duration) Option {
	return func(s *Storage) { s.retention = d }
}

// WithClock overrides the time source, for tests that simulate "now".
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// WithLogger sets the logger for save, recovery, and pruning events.
func WithLogger(log *zap.Logger) Option {
	return func(s *Storage) { s.log = log }
}

// DefaultDir returns the default data directory (~/.taskdeck)
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".taskdeck"), nil
}

// New opens the storage rooted at dir, creating it and the backup
// directory on first use.
func New(dir string, opts ...Option) (*Storage, error) {
	s := &Storage{
		dir:       dir,
		retention: DefaultRetention,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Join(dir, backupDirName), 0755); err != nil {
		return nil, &PersistenceError{Op: "init", Path: dir, Err: err}
	}
	return s, nil
}

// taskFile is the on-disk schema of tasks.json.
type taskFile struct {
	Version   int          `json:"version"`
	Revision  uint64       `json:"revision"`
	TaskCount int          `json:"task_count"`
	UpdatedAt time.Time    `json:"updated_at"`
	Tasks     []model.Task `json:"tasks"`
}

// categoryFile is the on-disk schema of categories.json.
type categoryFile struct {
	Version    int              `json:"version"`
	Categories []model.Category `json:"categories"`
}

// Load reads the canonical files into a snapshot. On first run it returns
// an empty snapshot and no error. If a canonical file is corrupt, Load
// falls back to the newest parsable backup and returns the snapshot
// together with a RecoveredFromBackupError so the caller can warn the
// user; only when no backup helps does it fail with a PersistenceError.
func (s *Storage) Load() (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recovered *RecoveredFromBackupError

	tf, recTasks, err := readJSON[taskFile](s, s.tasksPath(), "tasks-")
	switch {
	case err != nil && os.IsNotExist(err):
		// First run
		tf = taskFile{Version: store.SnapshotVersion}
	case err != nil:
		return store.Snapshot{}, err
	case recTasks != nil:
		recovered = recTasks
	}

	cf, recCats, err := readJSON[categoryFile](s, s.categoriesPath(), "categories-")
	switch {
	case err != nil && os.IsNotExist(err):
		// The registry reseeds its predefined set; customs are
		// re-registered from the tasks that use them.
	case err != nil:
		s.log.Warn("category registry unreadable, continuing without it", zap.Error(err))
	case recCats != nil && recovered == nil:
		recovered = recCats
	}

	snap := store.Snapshot{
		Version:    tf.Version,
		Revision:   tf.Revision,
		TaskCount:  tf.TaskCount,
		UpdatedAt:  tf.UpdatedAt,
		Tasks:      tf.Tasks,
		Categories: cf.Categories,
	}
	if recovered != nil {
		return snap, recovered
	}
	return snap, nil
}

// Save atomically replaces the canonical files with the snapshot. The
// prior canonical state is backed up first, and expired backups are
// pruned afterwards. Safe to call concurrently; saves serialize.
func (s *Storage) Save(snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.backup(); err != nil {
		return err
	}

	tf := taskFile{
		Version:   snap.Version,
		Revision:  snap.Revision,
		TaskCount: snap.TaskCount,
		UpdatedAt: snap.UpdatedAt,
		Tasks:     snap.Tasks,
	}
	if err := s.writeJSON(s.tasksPath(), tf); err != nil {
		return err
	}

	cf := categoryFile{Version: snap.Version, Categories: snap.Categories}
	if err := s.writeJSON(s.categoriesPath(), cf); err != nil {
		return err
	}

	s.prune()
	s.log.Debug("snapshot saved",
		zap.Uint64("revision", snap.Revision),
		zap.Int("tasks", snap.TaskCount))
	return nil
}

// SaveAsync runs Save in the background and reports completion on the
// returned channel. The channel is buffered, so the result may be
// ignored without leaking the goroutine.
func (s *Storage) SaveAsync(snap store.Snapshot) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- s.Save(snap)
	}()
	return done
}

// BackupHandle identifies a completed backup.
type BackupHandle struct {
	Stamp          time.Time
	TasksPath      string
	CategoriesPath string
}

// Backup copies the current canonical files into the backup directory
// under a timestamped name. Returns nil without error when there is
// nothing to back up yet.
func (s *Storage) Backup() (*BackupHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backup()
}

func (s *Storage) backup() (*BackupHandle, error) {
	stamp := s.now().UTC()
	handle := &BackupHandle{Stamp: stamp}

	copies := []struct {
		src    string
		prefix string
		dst    *string
	}{
		{s.tasksPath(), "tasks-", &handle.TasksPath},
		{s.categoriesPath(), "categories-", &handle.CategoriesPath},
	}

	var wrote bool
	for _, c := range copies {
		data, err := os.ReadFile(c.src)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, &PersistenceError{Op: "backup", Path: c.src, Err: err}
		}

		name := c.prefix + stamp.Format(backupStampLayout) + ".json"
		path := filepath.Join(s.dir, backupDirName, name)
		if err := writeAtomic(path, data); err != nil {
			return nil, &PersistenceError{Op: "backup", Path: path, Err: err}
		}
		*c.dst = path
		wrote = true
	}

	if !wrote {
		return nil, nil
	}
	s.log.Debug("backup written", zap.Time("stamp", stamp))
	return handle, nil
}

// prune removes backups older than the retention period. Failures are
// logged and never fail the surrounding save.
func (s *Storage) prune() {
	backupDir := filepath.Join(s.dir, backupDirName)
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		s.log.Warn("failed to read backup directory", zap.Error(err))
		return
	}

	cutoff := s.now().UTC().Add(-s.retention)
	var removed int
	for _, e := range entries {
		stamp, ok := backupStamp(e.Name())
		if !ok {
			continue
		}
		if stamp.Before(cutoff) {
			path := filepath.Join(backupDir, e.Name())
			if err := os.Remove(path); err != nil {
				s.log.Warn("failed to remove expired backup", zap.String("path", path), zap.Error(err))
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("expired backups pruned", zap.Int("count", removed))
	}
}

func (s *Storage) tasksPath() string {
	return filepath.Join(s.dir, taskFileName)
}

func (s *Storage) categoriesPath() string {
	return filepath.Join(s.dir, categoryFileName)
}

// backupsFor lists backup paths for the given file prefix, newest first.
func (s *Storage) backupsFor(prefix string) []string {
	backupDir := filepath.Join(s.dir, backupDirName)
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	slices.Reverse(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(backupDir, name)
	}
	return paths
}

// backupStamp extracts the timestamp from a backup name like
// tasks-20240115T100000.000Z.json. Names that do not fit the scheme are
// ignored so pruning never touches foreign files.
func backupStamp(name string) (time.Time, bool) {
	base, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return time.Time{}, false
	}
	i := strings.IndexByte(base, '-')
	if i < 0 {
		return time.Time{}, false
	}
	stamp, err := time.Parse(backupStampLayout, base[i+1:])
	if err != nil {
		return time.Time{}, false
	}
	return stamp, true
}

func (s *Storage) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := writeAtomic(path, data); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// readJSON loads path into a fresh T. When the canonical file is corrupt
// it falls back to the newest parsable backup with the given name prefix
// and reports the recovery. A missing canonical file surfaces as an
// os.IsNotExist error.
func readJSON[T any](s *Storage, path, prefix string) (T, *RecoveredFromBackupError, error) {
	var zero T

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, nil, err
		}
		return recoverJSON[T](s, path, prefix, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return recoverJSON[T](s, path, prefix, err)
	}
	return v, nil, nil
}

func recoverJSON[T any](s *Storage, path, prefix string, cause error) (T, *RecoveredFromBackupError, error) {
	var zero T

	for _, backupPath := range s.backupsFor(prefix) {
		data, err := os.ReadFile(backupPath)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			s.log.Warn("skipping unreadable backup", zap.String("path", backupPath), zap.Error(err))
			continue
		}
		s.log.Warn("recovered from backup",
			zap.String("path", path),
			zap.String("backup", backupPath),
			zap.Error(cause))
		return v, &RecoveredFromBackupError{Path: path, Backup: backupPath, Err: cause}, nil
	}

	return zero, nil, &PersistenceError{Op: "load", Path: path, Err: cause}
}

// writeAtomic writes data to path through a temp file in the same
// directory: write, fsync, close, then rename over the destination.
// A crash at any point leaves either the old complete file or the new
// complete one at path, never a truncated mixture.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
