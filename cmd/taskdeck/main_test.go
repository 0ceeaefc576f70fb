package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/ChrisZHHG/taskdeck/internal/config"
	"github.com/ChrisZHHG/taskdeck/internal/storage"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

// captureOutput redirects stdout while fn runs and returns what it wrote.
func captureOutput(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupTestEnv wires an appEnv over a temp data directory.
func setupTestEnv(t *testing.T) *appEnv {
	t.Helper()

	dir := t.TempDir()
	files, err := storage.New(dir)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}

	cfg := config.Default()
	cfg.DataDir = dir

	return &appEnv{
		cfg:   cfg,
		log:   zap.NewNop(),
		files: files,
		store: store.New(nil),
	}
}
