/*
Package ctm resolves connected-texture metadata for baked block models.

A Resolver wraps a vanilla model together with per-tint texture overrides.
It computes the sprites the model depends on when it is constructed, and on
the first bake it binds every sprite the vanilla model asks for to a Texture,
builds the override table and records which render layers the model uses.

Loading a model:

	res, err := ctm.NewResolver(desc, vanilla, overrides, &ctm.Options{
		Name:     "minecraft:block/stone_bricks",
		Metadata: pack,
	})
	if err != nil {
		// the host substitutes its missing model
	}

Baking:

	baked, err := res.BakeModel(state, format, atlas.Resolve)
	if err != nil {
		// handle error
	}
	tex, ok := baked.OverrideTexture(5, "minecraft:blocks/stone")

Sprite metadata is JSON:

	{"ctm_version": 1, "type": "ctm", "layer": "CUTOUT", "additional": ["blocks/stone_ctm"]}
*/
package ctm
