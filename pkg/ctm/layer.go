package ctm

import (
	"fmt"
	"strings"
)

// Layer is a render pass category.
type Layer uint8

const (
	LayerSolid Layer = iota
	LayerCutoutMipped
	LayerCutout
	LayerTranslucent

	layerCount
)

var layerNames = [layerCount]string{"SOLID", "CUTOUT_MIPPED", "CUTOUT", "TRANSLUCENT"}

// Layers returns every render layer in pass order.
func Layers() []Layer {
	out := make([]Layer, 0, layerCount)
	for l := Layer(0); l < layerCount; l++ {
		out = append(out, l)
	}
	return out
}

// String returns the layer name as written in metadata.
func (l Layer) String() string {
	if l >= layerCount {
		return fmt.Sprintf("Layer(%d)", uint8(l))
	}
	return layerNames[l]
}

// ParseLayer parses a layer name, ignoring case.
func ParseLayer(s string) (Layer, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range layerNames {
		if n == name {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLayer, s)
}

// LayerMask records which layers a model's textures render in. Textures
// without a declared layer set the legacy flag instead; they render only in
// the block's own layer.
type LayerMask struct {
	declared [layerCount]bool
	legacy   bool
}

// Add records the layer of tex.
func (m *LayerMask) Add(tex Texture) {
	if l, ok := tex.Layer(); ok && l < layerCount {
		m.declared[l] = true
		return
	}
	m.legacy = true
}

// Has reports whether some texture declared layer l.
func (m LayerMask) Has(l Layer) bool {
	return l < layerCount && m.declared[l]
}

// HasLegacy reports whether some texture declared no layer.
func (m LayerMask) HasLegacy() bool { return m.legacy }

// Declared returns the declared layers in pass order.
func (m LayerMask) Declared() []Layer {
	var out []Layer
	for l := Layer(0); l < layerCount; l++ {
		if m.declared[l] {
			out = append(out, l)
		}
	}
	return out
}

// CanRender reports whether a block whose native layer is native renders in layer.
func (m LayerMask) CanRender(native, layer Layer) bool {
	return (m.legacy && native == layer) || m.Has(layer)
}
