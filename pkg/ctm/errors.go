package ctm

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMetadata indicates metadata that is not a valid JSON object of the expected shape.
	ErrMalformedMetadata = errors.New("malformed texture metadata")

	// ErrUnknownTextureType indicates metadata naming a texture type absent from the registry.
	ErrUnknownTextureType = errors.New("unknown texture type")

	// ErrUnsupportedVersion indicates a ctm_version this package cannot decode.
	ErrUnsupportedVersion = errors.New("unsupported ctm_version")

	// ErrInvalidLayer indicates an unrecognized render layer name.
	ErrInvalidLayer = errors.New("invalid render layer")

	// ErrInvalidOverride indicates an override entry that is neither a sprite reference nor an object.
	ErrInvalidOverride = errors.New("invalid texture override")

	// ErrInvalidLocation indicates a malformed resource location string.
	ErrInvalidLocation = errors.New("invalid resource location")

	// ErrDuplicateTextureType indicates a second registration under an existing name.
	ErrDuplicateTextureType = errors.New("duplicate texture type")

	// ErrRetexture indicates the vanilla parent could not be retextured.
	ErrRetexture = errors.New("retexture failed")

	// ErrNilSpriteResolver indicates Bake was called without a sprite resolver.
	ErrNilSpriteResolver = errors.New("nil sprite resolver")
)

// InvalidTextureMetadataError reports metadata whose texture count does not
// match what its texture type requires.
type InvalidTextureMetadataError struct {
	Type     string
	Expected int
	Actual   int
}

func (e *InvalidTextureMetadataError) Error() string {
	return fmt.Sprintf("texture type %s requires exactly %d textures. %d were provided", e.Type, e.Expected, e.Actual)
}

// LoadError is returned when a model cannot be constructed. The host is
// expected to replace the model with its missing-model placeholder.
type LoadError struct {
	Model string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Model == "" {
		return "loading ctm model: " + e.Err.Error()
	}
	return fmt.Sprintf("loading ctm model %s: %v", e.Model, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
