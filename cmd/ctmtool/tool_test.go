package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ctm/internal/config"
	"github.com/Faultbox/midgard-ctm/internal/pack"
	"github.com/Faultbox/midgard-ctm/pkg/ctm"
)

func writePackFile(t *testing.T, root, name, data string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestTool(t *testing.T) *tool {
	t.Helper()
	root := t.TempDir()

	writePackFile(t, root, "assets/minecraft/models/block/cube.json", `{
  "elements": [{"from": [0,0,0], "to": [16,16,16], "faces": {
    "up": {"texture": "#all", "tintindex": 1},
    "down": {"texture": "#all"}
  }}]
}`)
	writePackFile(t, root, "assets/minecraft/models/block/stone.json",
		`{"parent": "block/cube", "textures": {"all": "block/stone"}}`)
	writePackFile(t, root, "assets/minecraft/models/block/glass.json",
		`{"parent": "block/cube", "textures": {"all": "block/glass"}, "ctm_version": 1,
		  "ctm_overrides": {"1": {"type": "normal", "layer": "translucent"}}}`)
	writePackFile(t, root, "assets/minecraft/models/block/broken.json", `{"parent": "block/missing"}`)

	cfg := config.Default()
	cfg.Packs = []string{root}
	cfg.Bake.Workers = 2

	tl, err := newTool(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newTool failed: %v", err)
	}
	t.Cleanup(tl.Close)
	return tl
}

func TestBakeAll(t *testing.T) {
	tl := newTestTool(t)

	names := []string{"block/stone", "block/glass", "block/broken"}
	results, err := tl.bakeAll(context.Background(), names)
	if err != nil {
		t.Fatalf("bakeAll failed: %v", err)
	}
	if len(results) != len(names) {
		t.Fatalf("got %d results, want %d", len(results), len(names))
	}

	for i, r := range results {
		if r.Name != names[i] {
			t.Errorf("results[%d].Name = %q, want %q", i, r.Name, names[i])
		}
	}

	if _, ok := results[0].Geometry.(*pack.Geometry); !ok || results[0].Err != nil {
		t.Errorf("stone: geometry %T, err %v", results[0].Geometry, results[0].Err)
	}

	baked, ok := results[1].Geometry.(*ctm.BakedModel)
	if !ok || results[1].Err != nil {
		t.Fatalf("glass: geometry %T, err %v", results[1].Geometry, results[1].Err)
	}
	if !baked.Layers().Has(ctm.LayerTranslucent) {
		t.Errorf("glass layers = %v, want translucent", baked.Layers().Declared())
	}

	if !errors.Is(results[2].Err, pack.ErrModelNotFound) {
		t.Errorf("broken: err = %v, want ErrModelNotFound", results[2].Err)
	}
}

func TestBakeAllCancelled(t *testing.T) {
	tl := newTestTool(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tl.bakeAll(ctx, []string{"block/stone"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseBindings(t *testing.T) {
	got, err := parseBindings([]string{"all=block/stone", "#top=block/glass"})
	if err != nil {
		t.Fatalf("parseBindings failed: %v", err)
	}
	if got["all"] != "block/stone" || got["#top"] != "block/glass" {
		t.Errorf("parseBindings = %v", got)
	}

	for _, bad := range []string{"all", "=block/stone"} {
		if _, err := parseBindings([]string{bad}); !errors.Is(err, errUsage) {
			t.Errorf("parseBindings(%q) error = %v, want errUsage", bad, err)
		}
	}
}

func TestBakeResultString(t *testing.T) {
	r := bakeResult{Name: "minecraft:block/x", Err: errors.New("boom")}
	if got := r.String(); got != "FAIL minecraft:block/x: boom" {
		t.Errorf("String() = %q", got)
	}
}

func TestReloadSeesChanges(t *testing.T) {
	tl := newTestTool(t)

	r := tl.bake("block/broken")
	if r.Err == nil {
		t.Fatal("expected broken model to fail before the parent exists")
	}

	writePackFile(t, tl.cfg.Packs[0], "assets/minecraft/models/block/missing.json", `{"textures": {"particle": "block/stone"}}`)
	if err := tl.reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if r := tl.bake("block/broken"); r.Err != nil {
		t.Errorf("after reload bake failed: %v", r.Err)
	}
}
