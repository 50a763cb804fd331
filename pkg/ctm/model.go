package ctm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Face directions in the order faces are visited.
var faceOrder = []string{"down", "up", "north", "south", "west", "east"}

// maxVariableDepth bounds "#a" -> "#b" -> ... chains.
const maxVariableDepth = 32

// ModelDescriptor is the declarative block model: elements with per-face
// texture bindings and the texture variable table.
type ModelDescriptor struct {
	Parent   string            `json:"parent,omitempty"`
	Textures map[string]string `json:"textures,omitempty"`
	Elements []Element         `json:"elements,omitempty"`
}

type Element struct {
	From  [3]float32      `json:"from"`
	To    [3]float32      `json:"to"`
	Faces map[string]Face `json:"faces"`
}

type Face struct {
	Texture   string `json:"texture"`
	CullFace  string `json:"cullface,omitempty"`
	TintIndex *int   `json:"tintindex,omitempty"`
}

// Tint returns the face's tint index, -1 when untinted.
func (f Face) Tint() int {
	if f.TintIndex == nil {
		return -1
	}
	return *f.TintIndex
}

// ParseModelDescriptor decodes a block model JSON document.
func ParseModelDescriptor(data []byte) (*ModelDescriptor, error) {
	var m ModelDescriptor
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	if m.Textures == nil {
		m.Textures = make(map[string]string)
	}
	return &m, nil
}

// ResolveTexture follows texture variables through the table. A reference
// that cannot be resolved is returned as the last variable reached.
func (m *ModelDescriptor) ResolveTexture(ref string) string {
	for i := 0; i < maxVariableDepth && strings.HasPrefix(ref, "#"); i++ {
		next, ok := m.Textures[ref[1:]]
		if !ok {
			return ref
		}
		ref = next
	}
	return ref
}

// EachFace calls fn for every face, elements in order and faces by direction.
func (m *ModelDescriptor) EachFace(fn func(dir string, face Face)) {
	for _, el := range m.Elements {
		for _, dir := range faceOrder {
			if f, ok := el.Faces[dir]; ok {
				fn(dir, f)
			}
		}
		// Non-standard direction keys still count.
		var extra []string
		for dir := range el.Faces {
			if !isFaceDirection(dir) {
				extra = append(extra, dir)
			}
		}
		sort.Strings(extra)
		for _, dir := range extra {
			fn(dir, el.Faces[dir])
		}
	}
}

func isFaceDirection(dir string) bool {
	for _, d := range faceOrder {
		if d == dir {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of m.
func (m *ModelDescriptor) Clone() *ModelDescriptor {
	if m == nil {
		return &ModelDescriptor{Textures: make(map[string]string)}
	}
	out := &ModelDescriptor{
		Parent:   m.Parent,
		Textures: make(map[string]string, len(m.Textures)),
		Elements: make([]Element, len(m.Elements)),
	}
	for k, v := range m.Textures {
		out.Textures[k] = v
	}
	for i, el := range m.Elements {
		faces := make(map[string]Face, len(el.Faces))
		for dir, f := range el.Faces {
			if f.TintIndex != nil {
				tint := *f.TintIndex
				f.TintIndex = &tint
			}
			faces[dir] = f
		}
		el.Faces = faces
		out.Elements[i] = el
	}
	return out
}
