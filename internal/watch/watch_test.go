package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsPackFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"assets/minecraft/models/block/stone.json", true},
		{"assets/minecraft/textures/blocks/stone.png", true},
		{"assets/minecraft/textures/blocks/stone.png.mcmeta", true},
		{"assets/minecraft/textures/blocks/STONE.PNG", true},
		{"assets/minecraft/textures/blocks/stone.webp", true},
		{"packs/faithful.zip", true},
		{"notes.txt", false},
		{"stone.png~", false},
	}
	for _, tt := range tests {
		if got := IsPackFile(tt.path); got != tt.want {
			t.Errorf("IsPackFile(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherEvents(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "assets", "minecraft", "models")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w, err := New(10*time.Millisecond, root)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(sub, "ignored.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(sub, "stone.json")
	if err := os.WriteFile(target, []byte("{}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != target {
			t.Errorf("expected event for %s, got %s", target, got)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := New(0, t.TempDir())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("expected Events to be closed")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(0, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
