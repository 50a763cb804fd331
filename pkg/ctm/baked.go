package ctm

// BakedModel is the render-ready result of a bake. It reads the resolver's
// caches and never modifies them.
type BakedModel struct {
	resolver *Resolver
	parent   BakedGeometry
	table    *overrideTable
}

// Parent returns the geometry produced by the vanilla model.
func (b *BakedModel) Parent() BakedGeometry { return b.parent }

// Resolver returns the resolver that produced b.
func (b *BakedModel) Resolver() *Resolver { return b.resolver }

// ChiselTextures returns the per-sprite textures in first-seen order,
// followed by the override textures.
func (b *BakedModel) ChiselTextures() []Texture {
	r := b.resolver
	r.mu.Lock()
	out := make([]Texture, 0, len(r.order)+len(b.table.order))
	for _, name := range r.order {
		out = append(out, r.textures[name])
	}
	r.mu.Unlock()
	return append(out, b.table.all()...)
}

// Texture returns the texture bound to the named sprite.
func (b *BakedModel) Texture(spriteName string) (Texture, bool) {
	r := b.resolver
	r.mu.Lock()
	defer r.mu.Unlock()
	tex, ok := r.textures[spriteName]
	return tex, ok
}

// OverrideSprite returns the sprite that replaces faces with tint index tint.
func (b *BakedModel) OverrideSprite(tint int) (Sprite, bool) {
	return b.table.sprite(tint)
}

// OverrideTexture returns the override texture for faces with tint index
// tint whose sprite is sprite. Absence means the per-sprite texture applies.
func (b *BakedModel) OverrideTexture(tint int, sprite string) (Texture, bool) {
	if tex, ok := b.table.texture(tint, sprite); ok {
		return tex, true
	}
	loc, err := ParseResourceLocation(sprite)
	if err != nil {
		return nil, false
	}
	return b.table.texture(tint, loc.String())
}

// Layers returns the layers recorded by the resolver.
func (b *BakedModel) Layers() LayerMask { return b.resolver.Layers() }

// CanRenderInLayer reports whether the model has faces in layer. Textures
// without a layer render only in the block's own layer.
func (b *BakedModel) CanRenderInLayer(state BlockState, layer Layer) bool {
	mask := b.Layers()
	if mask.Has(layer) {
		return true
	}
	return state != nil && mask.CanRender(state.RenderLayer(), layer)
}
