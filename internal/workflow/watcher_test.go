package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWatcher_ReloadsOnFileCreate(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()

	reloaded := make(chan struct{}, 16)
	w, err := NewWatcher(dir, r, func(count int, err error) {
		if err != nil {
			t.Errorf("reload error: %v", err)
		}
		reloaded <- struct{}{}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "live.yaml"),
		[]byte("name: live-check\ntasks:\n  - name: probe\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never reloaded after file create")
	}

	waitFor(t, func() bool {
		_, err := r.Get("live-check")
		return err == nil
	}, "new workflow not visible in registry")
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()

	var reloads int
	done := make(chan struct{}, 1)
	w, err := NewWatcher(dir, r, func(count int, err error) {
		reloads++
		select {
		case done <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
		t.Error("non-YAML file should not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_RemoveDropsLoadedDefinition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp.yaml")
	if err := os.WriteFile(path, []byte("name: temp-flow\ntasks:\n  - name: probe\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(defs); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("temp-flow"); err != nil {
		t.Fatalf("precondition: %v", err)
	}

	w, err := NewWatcher(dir, r, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		_, err := r.Get("temp-flow")
		return err != nil
	}, "removed workflow still in registry")
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), NewRegistry(), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.Close()
	w.Close()
}

func TestWatcher_MissingDirFails(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), NewRegistry(), nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
