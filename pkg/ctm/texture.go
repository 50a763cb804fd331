package ctm

import "encoding/json"

// Texture is a texture type bound to concrete sprites.
type Texture interface {
	Type() *TextureType
	// Sprites returns the primary sprite followed by the additional ones.
	Sprites() []Sprite
	// Layer returns the declared render layer; false marks a legacy texture.
	Layer() (Layer, bool)
	// Extra returns the type-specific metadata, if any.
	Extra() json.RawMessage
}

// TextureInfo carries what a TextureFunc needs.
type TextureInfo struct {
	Sprites []Sprite
	Layer   *Layer
	Extra   json.RawMessage
}

// BaseTexture is the default Texture implementation.
type BaseTexture struct {
	typ     *TextureType
	sprites []Sprite
	layer   *Layer
	extra   json.RawMessage
}

// NewBaseTexture binds t to the sprites in info.
func NewBaseTexture(t *TextureType, info TextureInfo) *BaseTexture {
	tex := &BaseTexture{
		typ:     t,
		sprites: append([]Sprite(nil), info.Sprites...),
		extra:   info.Extra,
	}
	if info.Layer != nil {
		l := *info.Layer
		tex.layer = &l
	}
	return tex
}

func (t *BaseTexture) Type() *TextureType { return t.typ }

func (t *BaseTexture) Sprites() []Sprite { return append([]Sprite(nil), t.sprites...) }

func (t *BaseTexture) Layer() (Layer, bool) {
	if t.layer == nil {
		return 0, false
	}
	return *t.layer, true
}

func (t *BaseTexture) Extra() json.RawMessage { return t.extra }

// Particle returns the primary sprite.
func (t *BaseTexture) Particle() Sprite {
	if len(t.sprites) == 0 {
		return nil
	}
	return t.sprites[0]
}

// MakeTexture instantiates the texture described by meta around primary.
// Additional sprites are looked up through resolve. A nil meta yields a
// single-sprite normal texture with no layer.
func MakeTexture(meta *Metadata, primary Sprite, resolve SpriteResolver) Texture {
	if meta == nil {
		return TypeNormal.MakeTexture(TextureInfo{Sprites: []Sprite{primary}})
	}

	sprites := make([]Sprite, 0, len(meta.Additional)+1)
	sprites = append(sprites, primary)
	for _, loc := range meta.Additional {
		sprites = append(sprites, resolve(loc))
	}

	return meta.Type.MakeTexture(TextureInfo{
		Sprites: sprites,
		Layer:   meta.Layer,
		Extra:   meta.Extra,
	})
}
