// Package pack is a ctm host backed by resource pack directories: block
// model JSON, sprite images and their .mcmeta metadata.
package pack

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ctm/internal/assets"
	"github.com/Faultbox/midgard-ctm/pkg/ctm"
)

// maxParentDepth bounds model parent chains.
const maxParentDepth = 32

// Pack errors.
var (
	ErrModelNotFound    = errors.New("model not found")
	ErrInvalidRetexture = errors.New("invalid retexture binding")
)

// Options configures a Pack.
type Options struct {
	// Namespace is used for model names written without one.
	Namespace string
	Registry  *ctm.Registry
	Logger    *zap.Logger
}

func (o *Options) normalize() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Namespace == "" {
		out.Namespace = ctm.DefaultNamespace
	}
	if out.Registry == nil {
		out.Registry = ctm.DefaultRegistry()
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return out
}

// Pack loads models and sprite metadata from an asset manager.
type Pack struct {
	assets  *assets.Manager
	opts    Options
	decoder *ctm.Decoder

	mu   sync.Mutex
	meta map[ctm.ResourceLocation]*ctm.Metadata
}

// New creates a pack over m.
func New(m *assets.Manager, opts *Options) *Pack {
	o := opts.normalize()
	return &Pack{
		assets:  m,
		opts:    o,
		decoder: ctm.NewDecoder(o.Registry),
		meta:    make(map[ctm.ResourceLocation]*ctm.Metadata),
	}
}

// Location parses a name, applying the pack's default namespace.
func (p *Pack) Location(name string) (ctm.ResourceLocation, error) {
	if !strings.Contains(name, ":") {
		name = p.opts.Namespace + ":" + name
	}
	return ctm.ParseResourceLocation(name)
}

// Reset drops cached metadata so the next reads see the files on disk.
func (p *Pack) Reset() {
	p.mu.Lock()
	p.meta = make(map[ctm.ResourceLocation]*ctm.Metadata)
	p.mu.Unlock()
	p.assets.Invalidate()
}

// Models returns the names of every model in the pack namespace.
func (p *Pack) Models() ([]string, error) {
	dir := "assets/" + p.opts.Namespace + "/models/"
	files, err := p.assets.List(dir, ".json")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, p.opts.Namespace+":"+strings.TrimSuffix(strings.TrimPrefix(f, dir), ".json"))
	}
	return names, nil
}

func modelPath(loc ctm.ResourceLocation) string {
	return "assets/" + loc.Namespace + "/models/" + loc.Path + ".json"
}

func texturePath(loc ctm.ResourceLocation, ext string) string {
	return "assets/" + loc.Namespace + "/textures/" + loc.Path + ext
}

func metadataPath(loc ctm.ResourceLocation) string {
	return texturePath(loc, ".png") + ".mcmeta"
}

// Metadata implements ctm.MetadataSource by reading the "ctm" section of
// the sprite's .png.mcmeta file.
func (p *Pack) Metadata(sprite ctm.ResourceLocation) (*ctm.Metadata, error) {
	if sprite.IsVariable() {
		return nil, nil
	}

	p.mu.Lock()
	meta, ok := p.meta[sprite]
	p.mu.Unlock()
	if ok {
		return meta, nil
	}

	path := metadataPath(sprite)
	data, err := p.assets.Load(path)
	switch {
	case errors.Is(err, assets.ErrNotFound):
		meta = nil
	case err != nil:
		return nil, err
	case !gjson.ValidBytes(data):
		return nil, fmt.Errorf("%w: %s is not valid JSON", ctm.ErrMalformedMetadata, path)
	default:
		if section := gjson.GetBytes(data, "ctm"); section.Exists() {
			meta, err = p.decoder.Decode([]byte(section.Raw))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	p.mu.Lock()
	p.meta[sprite] = meta
	p.mu.Unlock()
	return meta, nil
}

// LoadModel loads a block model. Models declaring ctm_version or
// ctm_overrides are wrapped in a ctm.Resolver; others load as plain models.
func (p *Pack) LoadModel(name string) (ctm.VanillaModel, error) {
	loc, err := p.Location(name)
	if err != nil {
		return nil, err
	}

	data, desc, err := p.loadDescriptor(loc, 0)
	if err != nil {
		return nil, err
	}
	model := &Model{name: loc.String(), desc: desc}

	version := gjson.GetBytes(data, "ctm_version")
	rawOverrides := gjson.GetBytes(data, "ctm_overrides")
	if !version.Exists() && !rawOverrides.Exists() {
		return model, nil
	}
	if version.Exists() && version.Int() != ctm.CurrentVersion {
		return nil, &ctm.LoadError{Model: model.name, Err: fmt.Errorf("%w: %s", ctm.ErrUnsupportedVersion, version.Raw)}
	}

	overrides := make(map[int]json.RawMessage)
	var perr error
	rawOverrides.ForEach(func(key, value gjson.Result) bool {
		tint, err := strconv.Atoi(key.String())
		if err != nil {
			perr = fmt.Errorf("%w: key %q is not a tint index", ctm.ErrInvalidOverride, key.String())
			return false
		}
		overrides[tint] = json.RawMessage(value.Raw)
		return true
	})
	if perr != nil {
		return nil, &ctm.LoadError{Model: model.name, Err: perr}
	}

	res, err := ctm.NewResolver(desc.Clone(), model, overrides, &ctm.Options{
		Name:     model.name,
		Registry: p.opts.Registry,
		Metadata: p,
		Logger:   p.opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// loadDescriptor reads a model and merges its parent chain into it. The raw
// bytes returned are those of loc itself.
func (p *Pack) loadDescriptor(loc ctm.ResourceLocation, depth int) ([]byte, *ctm.ModelDescriptor, error) {
	if depth > maxParentDepth {
		return nil, nil, fmt.Errorf("model %s: parent chain deeper than %d", loc, maxParentDepth)
	}

	data, err := p.assets.Load(modelPath(loc))
	if errors.Is(err, assets.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrModelNotFound, loc)
	}
	if err != nil {
		return nil, nil, err
	}

	desc, err := ctm.ParseModelDescriptor(data)
	if err != nil {
		return nil, nil, fmt.Errorf("model %s: %w", loc, err)
	}
	if desc.Parent == "" || strings.HasPrefix(desc.Parent, "builtin/") {
		return data, desc, nil
	}

	parentLoc, err := p.Location(desc.Parent)
	if err != nil {
		return nil, nil, fmt.Errorf("model %s: parent: %w", loc, err)
	}
	_, parent, err := p.loadDescriptor(parentLoc, depth+1)
	if err != nil {
		return nil, nil, fmt.Errorf("model %s: %w", loc, err)
	}

	merged := parent.Clone()
	merged.Parent = desc.Parent
	for k, v := range desc.Textures {
		merged.Textures[k] = v
	}
	if len(desc.Elements) > 0 {
		merged.Elements = desc.Elements
	}
	return data, merged, nil
}
