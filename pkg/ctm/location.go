package ctm

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultNamespace is used for locations written without a namespace.
const DefaultNamespace = "minecraft"

// ResourceLocation identifies a resource as namespace:path.
type ResourceLocation struct {
	Namespace string
	Path      string
}

// NewResourceLocation builds a location, defaulting an empty namespace.
func NewResourceLocation(namespace, path string) ResourceLocation {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return ResourceLocation{Namespace: namespace, Path: path}
}

// ParseResourceLocation parses "path" or "namespace:path".
func ParseResourceLocation(s string) (ResourceLocation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ResourceLocation{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}

	ns, path, found := strings.Cut(s, ":")
	if !found {
		return NewResourceLocation("", s), nil
	}
	if strings.Contains(path, ":") {
		return ResourceLocation{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}
	if path == "" {
		return ResourceLocation{}, fmt.Errorf("%w: empty path in %q", ErrInvalidLocation, s)
	}

	return NewResourceLocation(ns, path), nil
}

// String returns the location as "namespace:path".
func (l ResourceLocation) String() string {
	return l.Namespace + ":" + l.Path
}

// IsVariable reports whether the path is an unresolved "#name" texture variable.
func (l ResourceLocation) IsVariable() bool {
	return strings.HasPrefix(l.Path, "#")
}

// locationSet is an insertion-independent set of locations.
type locationSet map[ResourceLocation]struct{}

func (s locationSet) add(locs ...ResourceLocation) {
	for _, l := range locs {
		s[l] = struct{}{}
	}
}

// sorted returns the members ordered by their string form.
func (s locationSet) sorted() []ResourceLocation {
	out := make([]ResourceLocation, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
