package ctm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Retexture returns a new resolver whose parent, texture table and
// overrides have the given variables bound. Keys are variable names with or
// without the leading '#'. The receiver is not modified. If the parent
// cannot be retextured or the result fails to load, the configured missing
// model is returned instead and the error is only logged.
func (r *Resolver) Retexture(textures map[string]string) (VanillaModel, error) {
	ret, err := r.retexture(textures)
	if err != nil {
		r.opts.Logger.Warn("retexture failed, using missing model",
			zap.String("model", r.opts.Name),
			zap.Error(err))
		return r.opts.Missing, nil
	}
	return ret, nil
}

func (r *Resolver) retexture(textures map[string]string) (*Resolver, error) {
	subs := make(map[string]string, len(textures))
	for k, v := range textures {
		subs[strings.TrimPrefix(k, "#")] = v
	}

	parent, err := r.parent.Retexture(subs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetexture, err)
	}

	model := r.model.Clone()
	for k, v := range subs {
		model.Textures[k] = v
	}

	overrides := make(map[int]json.RawMessage, len(r.overrides.raw))
	for tint, raw := range r.overrides.raw {
		out, err := substituteOverride(raw, subs)
		if err != nil {
			return nil, fmt.Errorf("override %d: %w", tint, err)
		}
		overrides[tint] = out
	}

	opts := r.opts
	return NewResolver(model, parent, overrides, &opts)
}

// substituteOverride binds "#variable" references in one raw override: the
// value itself when it is a string, or the additional texture list when it
// is metadata. raw is never modified.
func substituteOverride(raw json.RawMessage, subs map[string]string) (json.RawMessage, error) {
	res := gjson.ParseBytes(raw)
	switch {
	case res.Type == gjson.String:
		if v, ok := boundVariable(res.Str, subs); ok {
			return json.Marshal(v)
		}
		return bytes.Clone(raw), nil

	case res.IsObject():
		key := "additional"
		if !res.Get(key).Exists() && res.Get("textures").Exists() {
			key = "textures"
		}

		out := bytes.Clone(raw)
		var err error
		idx := 0
		res.Get(key).ForEach(func(_, ref gjson.Result) bool {
			if v, ok := boundVariable(ref.String(), subs); ok {
				out, err = sjson.SetBytes(out, key+"."+strconv.Itoa(idx), v)
				if err != nil {
					return false
				}
			}
			idx++
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	return bytes.Clone(raw), nil
}

// boundVariable returns the substitution for ref if ref is a bound "#name".
func boundVariable(ref string, subs map[string]string) (string, bool) {
	loc, err := ParseResourceLocation(ref)
	if err != nil || !loc.IsVariable() {
		return "", false
	}
	v, ok := subs[loc.Path[1:]]
	return v, ok
}
