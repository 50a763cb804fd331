package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ctm/internal/config"
	"github.com/Faultbox/midgard-ctm/internal/pack"
	"github.com/Faultbox/midgard-ctm/internal/watch"
	"github.com/Faultbox/midgard-ctm/pkg/ctm"
)

func cmdModels(t *tool) error {
	names, err := t.pack.Models()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func cmdDeps(t *tool, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: ctmtool deps <model>", errUsage)
	}

	model, err := t.pack.LoadModel(args[0])
	if err != nil {
		return err
	}
	for _, loc := range model.Textures() {
		fmt.Println(loc)
	}
	return nil
}

func cmdMeta(t *tool, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: ctmtool meta <sprite>", errUsage)
	}

	loc, err := t.pack.Location(args[0])
	if err != nil {
		return err
	}
	meta, err := t.pack.Metadata(loc)
	if err != nil {
		return err
	}
	if meta == nil {
		fmt.Printf("%s: no ctm metadata\n", loc)
		return nil
	}

	fmt.Printf("Sprite:     %s\n", loc)
	fmt.Printf("Type:       %s\n", meta.Type)
	if meta.Layer != nil {
		fmt.Printf("Layer:      %s\n", *meta.Layer)
	}
	for _, a := range meta.Additional {
		fmt.Printf("Additional: %s\n", a)
	}
	if len(meta.Extra) > 0 {
		fmt.Printf("Extra:      %s\n", meta.Extra)
	}
	return nil
}

func cmdBake(ctx context.Context, t *tool, args []string) error {
	names := args
	if len(names) == 0 {
		var err error
		if names, err = t.pack.Models(); err != nil {
			return err
		}
	}

	failed, err := t.bakeAndReport(ctx, names)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d models failed", failed, len(names))
	}
	return nil
}

func (t *tool) bakeAndReport(ctx context.Context, names []string) (int, error) {
	results, err := t.bakeAll(ctx, names)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range results {
		fmt.Println(r)
		if r.Err != nil {
			failed++
		}
	}
	return failed, nil
}

func cmdLayers(t *tool, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: ctmtool layers <model> [native-layer]", errUsage)
	}

	native := ctm.LayerSolid
	if len(args) > 1 {
		l, err := ctm.ParseLayer(args[1])
		if err != nil {
			return err
		}
		native = l
	}

	r := t.bake(args[0])
	if r.Err != nil {
		return r.Err
	}
	baked, ok := r.Geometry.(*ctm.BakedModel)
	if !ok {
		fmt.Printf("%s is not a ctm model; renders only in %s\n", r.Name, native)
		return nil
	}

	mask := baked.Layers()
	fmt.Printf("Model:    %s\n", r.Name)
	fmt.Printf("Declared: %v\n", mask.Declared())
	fmt.Printf("Legacy:   %v\n", mask.HasLegacy())
	state := pack.BlockState{Layer: native}
	for _, l := range ctm.Layers() {
		fmt.Printf("  %-15s %v\n", l, baked.CanRenderInLayer(state, l))
	}
	return nil
}

// parseBindings turns var=path arguments into a retexture map.
func parseBindings(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: binding %q is not var=path", errUsage, a)
		}
		out[k] = v
	}
	return out, nil
}

func cmdRetexture(t *tool, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: ctmtool retexture <model> var=path...", errUsage)
	}

	bindings, err := parseBindings(args[1:])
	if err != nil {
		return err
	}
	model, err := t.pack.LoadModel(args[0])
	if err != nil {
		return err
	}

	re, err := model.Retexture(bindings)
	if err != nil {
		return err
	}
	if re == ctm.MissingModel() {
		fmt.Printf("%s: retexture failed, using the missing model\n", args[0])
		return nil
	}
	for _, loc := range re.Textures() {
		fmt.Println(loc)
	}
	return nil
}

func cmdWatch(ctx context.Context, t *tool) error {
	w, err := watch.New(t.cfg.Watch.Debounce, t.cfg.Packs...)
	if err != nil {
		return err
	}
	defer w.Close()

	rebake := func() error {
		names, err := t.pack.Models()
		if err != nil {
			return err
		}
		failed, err := t.bakeAndReport(ctx, names)
		if err != nil {
			return err
		}
		t.log.Info("baked", zap.Int("models", len(names)), zap.Int("failed", failed))
		return nil
	}

	if err := rebake(); err != nil {
		return err
	}
	t.log.Info("watching packs", zap.Strings("packs", t.cfg.Packs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			t.log.Info("pack changed", zap.String("path", path))
			if err := t.reload(); err != nil {
				t.log.Warn("reopening packs", zap.Error(err))
				continue
			}
			if err := rebake(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			t.log.Warn("watch error", zap.Error(err))
		}
	}
}

func cmdInitConfig(args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	cfg := config.Default()
	if path == "" {
		if err := cfg.Save(); err != nil {
			return err
		}
		path = filepath.Join(config.ConfigDir(), "config.yaml")
	} else if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
