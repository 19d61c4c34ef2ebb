package resource

import (
	"encoding/json"
	"strings"
)

// Model is a block/item model document. Geometry fields the optimizer does
// not interpret (display, element rotation, face cull data) are carried as
// opaque values and written back unchanged.
type Model struct {
	Parent   *Key                  `json:"parent,omitempty"`
	Textures map[string]TextureVar `json:"textures,omitempty"`
	Elements []*Element            `json:"elements,omitempty"`
	Display  json.RawMessage       `json:"display,omitempty"`
}

// Element is one cuboid of a model.
type Element struct {
	From     []float64        `json:"from,omitempty"`
	To       []float64        `json:"to,omitempty"`
	Shade    *bool            `json:"shade,omitempty"`
	Rotation json.RawMessage  `json:"rotation,omitempty"`
	Faces    map[string]*Face `json:"faces,omitempty"`
}

// Face maps one side of an element onto a texture. UV is in the fixed
// 0-16 coordinate space regardless of texture resolution; a reversed pair
// (u1>u2 or v1>v2) mirrors the face on that axis.
type Face struct {
	UV        *[4]float64 `json:"uv,omitempty"`
	Texture   string      `json:"texture,omitempty"`
	CullFace  string      `json:"cullface,omitempty"`
	Rotation  *int        `json:"rotation,omitempty"`
	TintIndex *int        `json:"tintindex,omitempty"`
}

// TextureVar is the value of one texture variable: either a resolved Key or
// a reference to another variable ("#name"). Strings that are neither are
// kept verbatim so the document round-trips.
type TextureVar struct {
	key Key
	raw string
}

// ResolvedVar returns a variable pointing directly at k.
func ResolvedVar(k Key) TextureVar {
	return TextureVar{key: k}
}

// IsResolved reports whether the variable holds a concrete key.
func (v TextureVar) IsResolved() bool { return !v.key.IsZero() }

// IsReference reports whether the variable refers to another variable.
func (v TextureVar) IsReference() bool { return strings.HasPrefix(v.raw, "#") }

// Key returns the resolved key; zero when IsResolved is false.
func (v TextureVar) Key() Key { return v.key }

// Raw returns the textual form the variable was read from.
func (v TextureVar) Raw() string {
	if v.IsResolved() {
		return v.key.String()
	}
	return v.raw
}

func (v TextureVar) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

func (v *TextureVar) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.HasPrefix(s, "#") {
		*v = TextureVar{raw: s}
		return nil
	}
	k, err := ParseKey(s)
	if err != nil {
		// Not a valid key; keep the string as-is.
		*v = TextureVar{raw: s}
		return nil
	}
	*v = TextureVar{key: k, raw: s}
	return nil
}

// HasElements reports whether the model defines geometry of its own.
// A model with a parent but no elements inherits geometry.
func (m *Model) HasElements() bool {
	return len(m.Elements) > 0
}

// NonParticleTextures returns the distinct resolved keys of all texture
// variables except "particle".
func (m *Model) NonParticleTextures() []Key {
	seen := make(map[Key]struct{})
	var keys []Key
	for name, v := range m.Textures {
		if name == "particle" || !v.IsResolved() {
			continue
		}
		if _, ok := seen[v.Key()]; ok {
			continue
		}
		seen[v.Key()] = struct{}{}
		keys = append(keys, v.Key())
	}
	return keys
}

// FaceTextureKeys builds the "#variable" → resolved key mapping used to
// match faces against a texture. The particle variable and unresolved or
// reference-valued variables are skipped.
func (m *Model) FaceTextureKeys() map[string]Key {
	refs := make(map[string]Key)
	for name, v := range m.Textures {
		if name == "particle" || !v.IsResolved() {
			continue
		}
		refs["#"+name] = v.Key()
	}
	return refs
}
