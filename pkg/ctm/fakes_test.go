package ctm

import (
	"errors"
	"sync"
)

type fakeSprite struct{ name string }

func (s *fakeSprite) Name() string { return s.name }

// fakeAtlas hands out one sprite per location and counts lookups.
type fakeAtlas struct {
	mu      sync.Mutex
	sprites map[string]*fakeSprite
	calls   map[string]int
}

func newFakeAtlas() *fakeAtlas {
	return &fakeAtlas{sprites: map[string]*fakeSprite{}, calls: map[string]int{}}
}

func (a *fakeAtlas) Resolve(loc ResourceLocation) Sprite {
	a.mu.Lock()
	defer a.mu.Unlock()
	name := loc.String()
	a.calls[name]++
	s, ok := a.sprites[name]
	if !ok {
		s = &fakeSprite{name: name}
		a.sprites[name] = s
	}
	return s
}

func (a *fakeAtlas) sprite(name string) Sprite {
	return a.Resolve(mustLoc(name))
}

// fakeModel bakes by resolving the texture of every face.
type fakeModel struct {
	desc          *ModelDescriptor
	extra         []string
	retextureErr  error
	bakeErr       error
	parallelBakes int
}

func (m *fakeModel) Textures() []ResourceLocation {
	var out []ResourceLocation
	m.desc.EachFace(func(_ string, f Face) {
		out = append(out, mustLoc(m.desc.ResolveTexture(f.Texture)))
	})
	for _, e := range m.extra {
		out = append(out, mustLoc(e))
	}
	return out
}

func (m *fakeModel) Bake(_ ModelState, _ VertexFormat, resolve SpriteResolver) (BakedGeometry, error) {
	if m.bakeErr != nil {
		return nil, m.bakeErr
	}
	var refs []ResourceLocation
	m.desc.EachFace(func(_ string, f Face) {
		if loc := mustLoc(m.desc.ResolveTexture(f.Texture)); !loc.IsVariable() {
			refs = append(refs, loc)
		}
	})

	if m.parallelBakes > 0 {
		var wg sync.WaitGroup
		for i := 0; i < m.parallelBakes; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for _, loc := range refs {
					resolve(loc)
				}
			}()
		}
		wg.Wait()
		return len(refs), nil
	}

	for _, loc := range refs {
		resolve(loc)
	}
	return len(refs), nil
}

func (m *fakeModel) Retexture(textures map[string]string) (VanillaModel, error) {
	if m.retextureErr != nil {
		return nil, m.retextureErr
	}
	desc := m.desc.Clone()
	for k, v := range textures {
		desc.Textures[k] = v
	}
	return &fakeModel{desc: desc, extra: m.extra}, nil
}

type fakeMetadata struct {
	meta map[string]*Metadata
	errs map[string]error
}

func (f *fakeMetadata) Metadata(loc ResourceLocation) (*Metadata, error) {
	if err, ok := f.errs[loc.String()]; ok {
		return nil, err
	}
	return f.meta[loc.String()], nil
}

type fakeBlock struct{ layer Layer }

func (b fakeBlock) RenderLayer() Layer { return b.layer }

var errFake = errors.New("fake failure")

func mustLoc(s string) ResourceLocation {
	loc, err := ParseResourceLocation(s)
	if err != nil {
		panic(err)
	}
	return loc
}

func mustMeta(raw string) *Metadata {
	m, err := DecodeMetadata([]byte(raw))
	if err != nil {
		panic(err)
	}
	return m
}

func tint(i int) *int { return &i }

// cubeModel builds a single-element model from direction -> (texture, tint).
func cubeModel(textures map[string]string, faces map[string]Face) *ModelDescriptor {
	if textures == nil {
		textures = map[string]string{}
	}
	return &ModelDescriptor{
		Textures: textures,
		Elements: []Element{{To: [3]float32{16, 16, 16}, Faces: faces}},
	}
}
