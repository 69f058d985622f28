// Package testutil provides shared test helpers for setting up vaults and stores.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/artha/internal/storage"
	"github.com/starford/artha/internal/store"
)

// Logger returns a quiet logger for tests.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	fs, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, fs
}

// TestStore creates a store over a temporary vault.
func TestStore(t *testing.T) (string, *store.Store) {
	t.Helper()
	vaultDir := t.TempDir()
	st, err := store.New(store.Options{
		Root:    vaultDir,
		Backups: true,
		Logger:  Logger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, st
}

// WriteFile writes a file under the vault root, creating parent directories.
func WriteFile(t *testing.T, vaultDir, rel, content string) {
	t.Helper()
	path := filepath.Join(vaultDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
