package ctm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// CurrentVersion is the only ctm_version understood by the decoder.
const CurrentVersion = 1

// Metadata is the decoded "ctm" section of a sprite or override.
type Metadata struct {
	Version    int
	Type       *TextureType
	Layer      *Layer
	Additional []ResourceLocation
	Extra      json.RawMessage
}

// Validate checks the additional texture count against the type.
func (m *Metadata) Validate() error {
	if got := len(m.Additional) + 1; got != m.Type.RequiredTextures {
		return &InvalidTextureMetadataError{Type: m.Type.Name, Expected: m.Type.RequiredTextures, Actual: got}
	}
	return nil
}

// Clone returns a deep copy of m.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	out := *m
	out.Additional = append([]ResourceLocation(nil), m.Additional...)
	out.Extra = bytes.Clone(m.Extra)
	if m.Layer != nil {
		l := *m.Layer
		out.Layer = &l
	}
	return &out
}

type metadataJSON struct {
	Version    int             `json:"ctm_version"`
	Type       string          `json:"type"`
	Layer      string          `json:"layer"`
	Additional []string        `json:"additional"`
	Textures   []string        `json:"textures"`
	Extra      json.RawMessage `json:"extra"`
}

// Decoder turns metadata JSON into Metadata using a type registry.
type Decoder struct {
	registry *Registry
}

// NewDecoder returns a decoder over r, or the default registry if r is nil.
func NewDecoder(r *Registry) *Decoder {
	if r == nil {
		r = DefaultRegistry()
	}
	return &Decoder{registry: r}
}

// DecodeMetadata decodes raw with the default registry.
func DecodeMetadata(raw []byte) (*Metadata, error) {
	return NewDecoder(nil).Decode(raw)
}

// Decode parses a metadata object. A missing ctm_version is treated as
// version 1.
func (d *Decoder) Decode(raw []byte) (*Metadata, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedMetadata)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrMalformedMetadata, root.Type)
	}

	if !root.Get("ctm_version").Exists() {
		var err error
		raw, err = sjson.SetBytes(bytes.Clone(raw), "ctm_version", CurrentVersion)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
		}
	}

	var w metadataJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	if w.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, w.Version)
	}

	typeName := w.Type
	if typeName == "" {
		typeName = TypeNormal.Name
	}
	typ, ok := d.registry.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTextureType, typeName)
	}

	meta := &Metadata{Version: w.Version, Type: typ}

	if w.Layer != "" {
		l, err := ParseLayer(w.Layer)
		if err != nil {
			return nil, err
		}
		meta.Layer = &l
	}

	refs := w.Additional
	if refs == nil {
		refs = w.Textures
	}
	for i, ref := range refs {
		loc, err := ParseResourceLocation(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: additional[%d]: %v", ErrMalformedMetadata, i, err)
		}
		meta.Additional = append(meta.Additional, loc)
	}

	if len(w.Extra) > 0 && !bytes.Equal(w.Extra, []byte("null")) {
		meta.Extra = bytes.Clone(w.Extra)
	}

	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return meta, nil
}
