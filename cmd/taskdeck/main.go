package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ChrisZHHG/taskdeck/internal/config"
	"github.com/ChrisZHHG/taskdeck/internal/storage"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Single-user task manager for the terminal",
	Long: `taskdeck tracks tasks through their lifecycle: create them with a priority
and a duration class, postpone what slips, complete what gets done, and let
reminders flag what is due soon or overdue. State lives in JSON files under
the data directory, with timestamped backups.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// appEnv is the wired-up engine for one command invocation.
type appEnv struct {
	cfg   *config.Config
	log   *zap.Logger
	files *storage.Storage
	store *store.Store
}

// openEnv loads configuration, builds the logger, opens storage, and
// hydrates the store from the persisted snapshot. A load that had to fall
// back to a backup degrades to a stderr warning; the command still runs.
func openEnv() (*appEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	files, err := storage.New(cfg.DataDir,
		storage.WithRetention(cfg.Retention()),
		storage.WithLogger(log))
	if err != nil {
		return nil, err
	}

	st := store.New(nil,
		store.WithAssignee(cfg.Assignee),
		store.WithLogger(log))

	snap, err := files.Load()
	if err != nil {
		var rec *storage.RecoveredFromBackupError
		if !errors.As(err, &rec) {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	st.Load(snap)

	return &appEnv{cfg: cfg, log: log, files: files, store: st}, nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if flagData != "" {
		cfg.DataDir = flagData
	}
	return cfg, nil
}

// newLogger builds the process logger at the configured level. Unknown
// levels fall back to info.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// save persists the current store state. The in-memory state stays valid
// even when the write fails; the error is surfaced to the caller.
func (a *appEnv) save() error {
	return a.files.Save(a.store.Snapshot())
}

func (a *appEnv) close() {
	_ = a.log.Sync()
}

func init() {
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(postponeCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
