package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-ctm/internal/assets"
	"github.com/Faultbox/midgard-ctm/internal/config"
	"github.com/Faultbox/midgard-ctm/internal/pack"
	"github.com/Faultbox/midgard-ctm/pkg/ctm"
)

// tool holds the packs opened for one run.
type tool struct {
	cfg    *config.Config
	log    *zap.Logger
	assets *assets.Manager
	pack   *pack.Pack
	atlas  *pack.Atlas
}

func newTool(cfg *config.Config, log *zap.Logger) (*tool, error) {
	t := &tool{cfg: cfg, log: log}
	if err := t.open(); err != nil {
		return nil, err
	}
	return t, nil
}

// open (re)opens every configured pack. Zipped packs are read when opened,
// so a change on disk needs a fresh manager rather than a cache flush.
func (t *tool) open() error {
	m := assets.NewManager()
	for _, dir := range t.cfg.Packs {
		if err := m.AddRoot(dir); err != nil {
			m.Close()
			return err
		}
	}

	p := pack.New(m, &pack.Options{
		Namespace: t.cfg.Namespace,
		Logger:    t.log.Named("pack"),
	})

	if t.assets != nil {
		t.assets.Close()
	}
	t.assets, t.pack, t.atlas = m, p, p.NewAtlas()
	return nil
}

// reload forgets everything read from disk.
func (t *tool) reload() error {
	return t.open()
}

func (t *tool) Close() {
	t.assets.Close()
}

type bakeResult struct {
	Name     string
	Model    ctm.VanillaModel
	Geometry ctm.BakedGeometry
	Err      error
}

func (r bakeResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("FAIL %s: %v", r.Name, r.Err)
	}

	switch g := r.Geometry.(type) {
	case *ctm.BakedModel:
		quads := 0
		if geo, ok := g.Parent().(*pack.Geometry); ok {
			quads = len(geo.Quads)
		}
		return fmt.Sprintf("ok   %s  quads=%d  ctm=%d  layers=%v",
			r.Name, quads, len(g.ChiselTextures()), g.Layers().Declared())
	case *pack.Geometry:
		return fmt.Sprintf("ok   %s  quads=%d", r.Name, len(g.Quads))
	default:
		return fmt.Sprintf("ok   %s", r.Name)
	}
}

// bakeAll loads and bakes names with at most cfg.Bake.Workers in flight.
// Per-model failures are reported in the results; only cancellation aborts.
func (t *tool) bakeAll(ctx context.Context, names []string) ([]bakeResult, error) {
	results := make([]bakeResult, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Bake.Workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = t.bake(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (t *tool) bake(name string) bakeResult {
	r := bakeResult{Name: name}

	model, err := t.pack.LoadModel(name)
	if err != nil {
		r.Err = err
		return r
	}
	r.Model = model

	r.Geometry, r.Err = model.Bake(nil, t.cfg.Bake.VertexFormat, t.atlas.Resolve)
	if r.Err != nil {
		t.log.Debug("bake failed", zap.String("model", name), zap.Error(r.Err))
	}
	return r
}
