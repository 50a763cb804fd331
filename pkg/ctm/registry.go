package ctm

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TextureFunc builds a texture of type t.
type TextureFunc func(t *TextureType, info TextureInfo) Texture

// TextureType describes one connected-texture variant.
type TextureType struct {
	Name string
	// RequiredTextures counts the primary sprite plus additional ones.
	RequiredTextures int
	// New builds textures of this type; nil means NewBaseTexture.
	New TextureFunc
}

func (t *TextureType) String() string { return t.Name }

// MakeTexture instantiates a texture of this type.
func (t *TextureType) MakeTexture(info TextureInfo) Texture {
	if t.New == nil {
		return NewBaseTexture(t, info)
	}
	return t.New(t, info)
}

// Built-in texture types.
var (
	TypeNormal   = &TextureType{Name: "normal", RequiredTextures: 1}
	TypeCTM      = &TextureType{Name: "ctm", RequiredTextures: 2}
	TypeCTMH     = &TextureType{Name: "ctmh", RequiredTextures: 1}
	TypeCTMV     = &TextureType{Name: "ctmv", RequiredTextures: 1}
	TypePillar   = &TextureType{Name: "pillar", RequiredTextures: 2}
	TypeRandom   = &TextureType{Name: "random", RequiredTextures: 1}
	TypePattern  = &TextureType{Name: "pattern", RequiredTextures: 1}
	TypeEdges    = &TextureType{Name: "edges", RequiredTextures: 3}
	TypeEldritch = &TextureType{Name: "eldritch", RequiredTextures: 1}
	TypeSCTM     = &TextureType{Name: "sctm", RequiredTextures: 1}
)

var builtinTypes = []*TextureType{
	TypeNormal, TypeCTM, TypeCTMH, TypeCTMV, TypePillar,
	TypeRandom, TypePattern, TypeEdges, TypeEldritch, TypeSCTM,
}

// Registry maps type keys to texture types. Keys are case-insensitive.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*TextureType
}

// NewRegistry returns a registry holding only the built-in types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]*TextureType, len(builtinTypes))}
	for _, t := range builtinTypes {
		r.types[t.Name] = t
	}
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds t under its name.
func (r *Registry) Register(t *TextureType) error {
	if t == nil || strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("registering texture type: empty name")
	}
	if t.RequiredTextures < 1 {
		return fmt.Errorf("registering texture type %s: required textures must be at least 1, got %d", t.Name, t.RequiredTextures)
	}

	key := strings.ToLower(t.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTextureType, t.Name)
	}
	r.types[key] = t
	return nil
}

// Lookup finds a type by key.
func (r *Registry) Lookup(name string) (*TextureType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Names returns the registered keys, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for k := range r.types {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
