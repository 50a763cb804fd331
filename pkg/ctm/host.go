package ctm

// Sprite is a host atlas region. Name is the sprite's full location string.
type Sprite interface {
	Name() string
}

// SpriteResolver maps a sprite reference to the host's sprite handle.
type SpriteResolver func(loc ResourceLocation) Sprite

// Opaque host types passed through the bake untouched.
type (
	ModelState    = any
	VertexFormat  = any
	BakedGeometry = any
)

// VanillaModel is the host model a Resolver delegates geometry to.
type VanillaModel interface {
	// Textures returns the sprites the model needs loaded.
	Textures() []ResourceLocation
	// Bake produces geometry, calling resolve for every sprite it uses.
	Bake(state ModelState, format VertexFormat, resolve SpriteResolver) (BakedGeometry, error)
	// Retexture returns a copy with texture variables rebound.
	Retexture(textures map[string]string) (VanillaModel, error)
}

// MetadataSource reads the metadata attached to a sprite. A sprite without
// metadata yields (nil, nil).
type MetadataSource interface {
	Metadata(sprite ResourceLocation) (*Metadata, error)
}

// MetadataSourceFunc adapts a function to MetadataSource.
type MetadataSourceFunc func(sprite ResourceLocation) (*Metadata, error)

func (f MetadataSourceFunc) Metadata(sprite ResourceLocation) (*Metadata, error) { return f(sprite) }

// BlockState exposes the part of a block state the layer check needs.
type BlockState interface {
	RenderLayer() Layer
}

type noMetadata struct{}

func (noMetadata) Metadata(ResourceLocation) (*Metadata, error) { return nil, nil }

// missingModel is the fallback placeholder when the host supplies none.
type missingModel struct{}

// MissingModel returns a placeholder model with no textures and no geometry.
func MissingModel() VanillaModel { return missingModel{} }

func (missingModel) Textures() []ResourceLocation { return nil }

func (missingModel) Bake(ModelState, VertexFormat, SpriteResolver) (BakedGeometry, error) {
	return nil, nil
}

func (m missingModel) Retexture(map[string]string) (VanillaModel, error) { return m, nil }
