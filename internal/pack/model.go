package pack

import (
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-ctm/pkg/ctm"
)

// MissingSprite is resolved for faces whose texture cannot be bound.
var MissingSprite = ctm.NewResourceLocation(ctm.DefaultNamespace, "missingno")

// Quad is one baked face.
type Quad struct {
	Direction string
	CullFace  string
	TintIndex int
	Sprite    ctm.Sprite
}

// Geometry is what a Model bakes to.
type Geometry struct {
	Format   ctm.VertexFormat
	Quads    []Quad
	Particle ctm.Sprite
}

// Model is a plain JSON block model.
type Model struct {
	name string
	desc *ctm.ModelDescriptor
}

func (m *Model) Name() string { return m.name }

// Descriptor returns the merged model description.
func (m *Model) Descriptor() *ctm.ModelDescriptor { return m.desc }

// Textures returns every concrete sprite the faces and particle use.
func (m *Model) Textures() []ctm.ResourceLocation {
	seen := make(map[ctm.ResourceLocation]bool)
	var out []ctm.ResourceLocation
	add := func(ref string) {
		loc, ok := m.bind(ref)
		if ok && !seen[loc] {
			seen[loc] = true
			out = append(out, loc)
		}
	}

	m.desc.EachFace(func(_ string, f ctm.Face) { add(f.Texture) })
	if _, ok := m.desc.Textures["particle"]; ok {
		add("#particle")
	}
	return out
}

// Bake resolves one sprite per face; unbound faces get MissingSprite.
func (m *Model) Bake(_ ctm.ModelState, format ctm.VertexFormat, resolve ctm.SpriteResolver) (ctm.BakedGeometry, error) {
	g := &Geometry{Format: format}
	m.desc.EachFace(func(dir string, f ctm.Face) {
		loc, ok := m.bind(f.Texture)
		if !ok {
			loc = MissingSprite
		}
		g.Quads = append(g.Quads, Quad{
			Direction: dir,
			CullFace:  f.CullFace,
			TintIndex: f.Tint(),
			Sprite:    resolve(loc),
		})
	})
	if loc, ok := m.bind("#particle"); ok {
		g.Particle = resolve(loc)
	}
	return g, nil
}

// Retexture binds texture variables to new sprites.
func (m *Model) Retexture(textures map[string]string) (ctm.VanillaModel, error) {
	desc := m.desc.Clone()
	for k, v := range textures {
		k = strings.TrimPrefix(k, "#")
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s bound to an empty path", ErrInvalidRetexture, k)
		}
		if !strings.HasPrefix(v, "#") {
			if _, err := ctm.ParseResourceLocation(v); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRetexture, k, err)
			}
		}
		desc.Textures[k] = v
	}
	return &Model{name: m.name, desc: desc}, nil
}

func (m *Model) bind(ref string) (ctm.ResourceLocation, bool) {
	loc, err := ctm.ParseResourceLocation(m.desc.ResolveTexture(ref))
	if err != nil || loc.IsVariable() {
		return ctm.ResourceLocation{}, false
	}
	return loc, true
}

// BlockState is a block whose native render layer is Layer.
type BlockState struct {
	Layer ctm.Layer
}

func (b BlockState) RenderLayer() ctm.Layer { return b.Layer }
