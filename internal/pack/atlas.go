package pack

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"sort"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/midgard-ctm/internal/assets"
	"github.com/Faultbox/midgard-ctm/pkg/ctm"
)

// spriteExts are tried in order when loading a sprite.
var spriteExts = []string{".png", ".webp"}

// Sprite is an atlas entry.
type Sprite struct {
	name    string
	Width   int
	Height  int
	Missing bool
}

func (s *Sprite) Name() string { return s.name }

// Atlas resolves sprite references to sprites, loading each image header
// once. Unloadable sprites resolve to the shared missing sprite.
type Atlas struct {
	pack *Pack

	mu      sync.Mutex
	sprites map[ctm.ResourceLocation]*Sprite
	missing *Sprite
}

// NewAtlas creates an empty atlas over the pack.
func (p *Pack) NewAtlas() *Atlas {
	return &Atlas{
		pack:    p,
		sprites: make(map[ctm.ResourceLocation]*Sprite),
		missing: &Sprite{name: MissingSprite.String(), Width: 16, Height: 16, Missing: true},
	}
}

// Resolve implements ctm.SpriteResolver.
func (a *Atlas) Resolve(loc ctm.ResourceLocation) ctm.Sprite {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.sprites[loc]; ok {
		return s
	}

	s, err := a.load(loc)
	if err != nil {
		if loc != MissingSprite {
			a.pack.opts.Logger.Debug("using missing sprite", zap.Stringer("sprite", loc), zap.Error(err))
		}
		s = a.missing
	}
	a.sprites[loc] = s
	return s
}

func (a *Atlas) load(loc ctm.ResourceLocation) (*Sprite, error) {
	if loc.IsVariable() {
		return nil, fmt.Errorf("unbound texture variable %s", loc.Path)
	}
	for _, ext := range spriteExts {
		path := texturePath(loc, ext)
		data, err := a.pack.assets.Load(path)
		if errors.Is(err, assets.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return &Sprite{name: loc.String(), Width: cfg.Width, Height: cfg.Height}, nil
	}
	return nil, fmt.Errorf("%w: sprite %s", assets.ErrNotFound, loc)
}

// Names returns the loaded sprite names, sorted.
func (a *Atlas) Names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.sprites))
	for loc := range a.sprites {
		out = append(out, loc.String())
	}
	sort.Strings(out)
	return out
}

// Reset forgets every loaded sprite.
func (a *Atlas) Reset() {
	a.mu.Lock()
	a.sprites = make(map[ctm.ResourceLocation]*Sprite)
	a.mu.Unlock()
}
