package ctm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// overrideSet holds the per-tint overrides as loaded: the raw JSON plus the
// decoded sprite references and metadata.
type overrideSet struct {
	raw     map[int]json.RawMessage
	sprites map[int]ResourceLocation
	meta    map[int]*Metadata
}

// decodeOverrides decodes every raw override. A bare string names a sprite;
// if that sprite carries metadata of its own, it is also registered as the
// tint's metadata override.
func decodeOverrides(raw map[int]json.RawMessage, dec *Decoder, src MetadataSource) (*overrideSet, error) {
	set := &overrideSet{
		raw:     make(map[int]json.RawMessage, len(raw)),
		sprites: make(map[int]ResourceLocation),
		meta:    make(map[int]*Metadata),
	}

	for _, tint := range sortedTints(raw) {
		value := bytes.TrimSpace(raw[tint])
		set.raw[tint] = bytes.Clone(value)

		if !gjson.ValidBytes(value) {
			return nil, fmt.Errorf("%w: tint %d: invalid JSON", ErrInvalidOverride, tint)
		}
		res := gjson.ParseBytes(value)
		switch {
		case res.Type == gjson.String:
			loc, err := ParseResourceLocation(res.Str)
			if err != nil {
				return nil, fmt.Errorf("%w: tint %d: %v", ErrInvalidOverride, tint, err)
			}
			set.sprites[tint] = loc
			if loc.IsVariable() {
				continue
			}
			meta, err := src.Metadata(loc)
			if err != nil {
				return nil, fmt.Errorf("reading metadata for override %d (%s): %w", tint, loc, err)
			}
			if meta != nil {
				set.meta[tint] = meta
			}
		case res.IsObject():
			meta, err := dec.Decode(value)
			if err != nil {
				return nil, fmt.Errorf("override %d: %w", tint, err)
			}
			set.meta[tint] = meta
		default:
			return nil, fmt.Errorf("%w: tint %d: expected string or object, got %s", ErrInvalidOverride, tint, res.Type)
		}
	}

	return set, nil
}

// dependencies returns every concrete sprite the overrides reference.
func (s *overrideSet) dependencies() []ResourceLocation {
	var out []ResourceLocation
	for _, tint := range sortedTints(s.sprites) {
		out = append(out, s.sprites[tint])
	}
	for _, tint := range sortedTints(s.meta) {
		out = append(out, s.meta[tint].Additional...)
	}
	return out
}

type overrideKey struct {
	tint   int
	sprite string
}

// overrideTable is the bake-time view of the overrides, bound to real sprites.
type overrideTable struct {
	sprites  map[int]Sprite
	textures map[overrideKey]Texture
	order    []overrideKey
}

// buildOverrideTable resolves sprite overrides and, for each metadata
// override, creates one texture per distinct sprite among the faces that
// carry its tint.
func buildOverrideTable(model *ModelDescriptor, set *overrideSet, resolve SpriteResolver, log *zap.Logger) *overrideTable {
	t := &overrideTable{
		sprites:  make(map[int]Sprite, len(set.sprites)),
		textures: make(map[overrideKey]Texture),
	}

	for _, tint := range sortedTints(set.sprites) {
		loc := set.sprites[tint]
		if loc.IsVariable() {
			log.Debug("skipping unbound sprite override", zap.Int("tint", tint), zap.Stringer("sprite", loc))
			continue
		}
		if s := resolve(loc); s != nil {
			t.sprites[tint] = s
		}
	}

	for _, tint := range sortedTints(set.meta) {
		meta := set.meta[tint]

		var paths []ResourceLocation
		seen := make(map[ResourceLocation]bool)
		model.EachFace(func(_ string, f Face) {
			if f.Tint() != tint {
				return
			}
			ref := model.ResolveTexture(f.Texture)
			loc, err := ParseResourceLocation(ref)
			if err != nil || loc.IsVariable() {
				log.Debug("skipping unresolved face texture", zap.Int("tint", tint), zap.String("texture", f.Texture))
				return
			}
			if !seen[loc] {
				seen[loc] = true
				paths = append(paths, loc)
			}
		})

		for _, loc := range paths {
			sprite, ok := t.sprites[tint]
			if !ok {
				sprite = resolve(loc)
			}
			key := overrideKey{tint: tint, sprite: loc.String()}
			t.textures[key] = MakeTexture(meta, sprite, resolve)
			t.order = append(t.order, key)
		}
	}

	return t
}

func (t *overrideTable) sprite(tint int) (Sprite, bool) {
	s, ok := t.sprites[tint]
	return s, ok
}

func (t *overrideTable) texture(tint int, sprite string) (Texture, bool) {
	tex, ok := t.textures[overrideKey{tint: tint, sprite: sprite}]
	return tex, ok
}

func (t *overrideTable) all() []Texture {
	out := make([]Texture, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.textures[k])
	}
	return out
}

func sortedTints[V any](m map[int]V) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
