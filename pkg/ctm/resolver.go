package ctm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// State is the bake state of a Resolver.
type State uint8

const (
	StateUnbaked State = iota
	StateBaked
)

func (s State) String() string {
	if s == StateBaked {
		return "baked"
	}
	return "unbaked"
}

// Options configures a Resolver.
type Options struct {
	// Name identifies the model in errors and logs.
	Name string
	// Registry resolves texture type keys (default: DefaultRegistry).
	Registry *Registry
	// Metadata reads sprite metadata (default: no sprite has metadata).
	Metadata MetadataSource
	// Missing is returned by Retexture when the parent cannot be retextured
	// (default: MissingModel).
	Missing VanillaModel
	// Logger receives diagnostics (default: no-op).
	Logger *zap.Logger
}

// normalize fills defaults.
func (o *Options) normalize() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Registry == nil {
		out.Registry = DefaultRegistry()
	}
	if out.Metadata == nil {
		out.Metadata = noMetadata{}
	}
	if out.Missing == nil {
		out.Missing = MissingModel()
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return out
}

// Resolver decides, for a vanilla model plus tint overrides, which texture
// each baked face uses. It moves from StateUnbaked to StateBaked on the first
// successful bake; later bakes reuse the caches built then.
type Resolver struct {
	opts      Options
	decoder   *Decoder
	model     *ModelDescriptor
	parent    VanillaModel
	overrides *overrideSet
	deps      []ResourceLocation

	// bakeMu serializes bakes and guards state and table.
	bakeMu sync.Mutex
	state  State
	table  *overrideTable

	// mu guards the per-sprite textures and the layer mask, which are
	// filled from inside the parent's bake.
	mu       sync.Mutex
	textures map[string]Texture
	order    []string
	layers   LayerMask
}

// NewResolver decodes the overrides, computes the texture dependencies and
// validates the metadata of every dependency. Failures are *LoadError.
func NewResolver(model *ModelDescriptor, parent VanillaModel, overrides map[int]json.RawMessage, opts *Options) (*Resolver, error) {
	o := opts.normalize()
	if parent == nil {
		return nil, &LoadError{Model: o.Name, Err: fmt.Errorf("nil vanilla model")}
	}
	if model == nil {
		model = &ModelDescriptor{Textures: make(map[string]string)}
	}

	r := &Resolver{
		opts:     o,
		decoder:  NewDecoder(o.Registry),
		model:    model,
		parent:   parent,
		textures: make(map[string]Texture),
	}

	set, err := decodeOverrides(overrides, r.decoder, o.Metadata)
	if err != nil {
		return nil, &LoadError{Model: o.Name, Err: err}
	}
	r.overrides = set

	deps := make(locationSet)
	deps.add(parent.Textures()...)
	deps.add(set.dependencies()...)
	for loc := range deps {
		if loc.IsVariable() {
			delete(deps, loc)
		}
	}
	r.deps = deps.sorted()

	for _, loc := range r.deps {
		if _, err := o.Metadata.Metadata(loc); err != nil {
			return nil, &LoadError{Model: o.Name, Err: fmt.Errorf("texture %s: %w", loc, err)}
		}
	}

	o.Logger.Debug("ctm model loaded",
		zap.String("model", o.Name),
		zap.Int("overrides", len(set.raw)),
		zap.Int("dependencies", len(r.deps)))

	return r, nil
}

// Name returns the model name given in Options.
func (r *Resolver) Name() string { return r.opts.Name }

// Parent returns the vanilla model geometry is delegated to.
func (r *Resolver) Parent() VanillaModel { return r.parent }

// Descriptor returns the model description. Callers must not modify it.
func (r *Resolver) Descriptor() *ModelDescriptor { return r.model }

// Textures returns the sprites that must be loaded before baking, sorted.
// Unresolved texture variables are never included.
func (r *Resolver) Textures() []ResourceLocation {
	return append([]ResourceLocation(nil), r.deps...)
}

// Override returns a copy of the raw override for tint.
func (r *Resolver) Override(tint int) (json.RawMessage, bool) {
	raw, ok := r.overrides.raw[tint]
	return bytes.Clone(raw), ok
}

// MetadataOverride returns a copy of the decoded metadata override for tint.
func (r *Resolver) MetadataOverride(tint int) (*Metadata, bool) {
	m, ok := r.overrides.meta[tint]
	return m.Clone(), ok
}

// State returns the current bake state.
func (r *Resolver) State() State {
	r.bakeMu.Lock()
	defer r.bakeMu.Unlock()
	return r.state
}

// Bake implements VanillaModel; the geometry returned is a *BakedModel.
func (r *Resolver) Bake(state ModelState, format VertexFormat, resolve SpriteResolver) (BakedGeometry, error) {
	baked, err := r.BakeModel(state, format, resolve)
	if err != nil {
		return nil, err
	}
	return baked, nil
}

// BakeModel bakes the parent, binding every sprite it resolves to a texture,
// and builds the override table on the first call. resolve is not retained.
func (r *Resolver) BakeModel(state ModelState, format VertexFormat, resolve SpriteResolver) (*BakedModel, error) {
	if resolve == nil {
		return nil, ErrNilSpriteResolver
	}

	r.bakeMu.Lock()
	defer r.bakeMu.Unlock()

	intercept := func(loc ResourceLocation) Sprite {
		s := resolve(loc)
		if s != nil {
			r.bind(s, resolve)
		}
		return s
	}

	geometry, err := r.parent.Bake(state, format, intercept)
	if err != nil {
		return nil, fmt.Errorf("baking %s: %w", r.opts.Name, err)
	}

	if r.state == StateUnbaked {
		table := buildOverrideTable(r.model, r.overrides, resolve, r.opts.Logger)
		r.mu.Lock()
		for _, tex := range table.all() {
			r.layers.Add(tex)
		}
		r.mu.Unlock()
		r.table = table
		r.state = StateBaked
	}

	return &BakedModel{resolver: r, parent: geometry, table: r.table}, nil
}

// bind creates the texture for s the first time s is seen.
func (r *Resolver) bind(s Sprite, resolve SpriteResolver) {
	name := s.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.textures[name]; ok {
		return
	}

	tex := MakeTexture(r.spriteMetadata(name), s, resolve)
	r.textures[name] = tex
	r.order = append(r.order, name)
	r.layers.Add(tex)
}

// spriteMetadata reads a sprite's metadata. Errors mean "no metadata".
func (r *Resolver) spriteMetadata(name string) *Metadata {
	loc, err := ParseResourceLocation(name)
	if err != nil {
		return nil
	}
	meta, err := r.opts.Metadata.Metadata(loc)
	if err != nil {
		r.opts.Logger.Debug("ignoring unreadable sprite metadata",
			zap.String("model", r.opts.Name),
			zap.String("sprite", name),
			zap.Error(err))
		return nil
	}
	return meta
}

// Layers returns a snapshot of the layers recorded so far.
func (r *Resolver) Layers() LayerMask {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layers
}
