package state

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestStore(t *testing.T) *FileTokenStore {
	t.Helper()
	return NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"), slog.Default())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("tok-abc"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "tok-abc" {
		t.Errorf("Load() = %q, want %q", token, "tok-abc")
	}
}

func TestLoadMissingFileMeansNoToken(t *testing.T) {
	store := newTestStore(t)

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "" {
		t.Errorf("Load() = %q, want empty", token)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("first"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "second" {
		t.Errorf("Load() = %q, want %q", token, "second")
	}
}

func TestClearRemovesToken(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "" {
		t.Errorf("Load() = %q, want empty after Clear", token)
	}

	// Clearing again must be a no-op.
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() on missing file error = %v", err)
	}
}

func TestTokenFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits not meaningful on windows")
	}

	store := newTestStore(t)
	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("token file mode = %04o, want 0600", mode)
	}
}

func TestLoadCorruptFileReturnsError(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("not-json{"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("expected error for corrupt token file")
	}
}
