// Package resource models a directory-based asset pack: namespaced keys,
// model documents and their textures, and the on-disk store for both.
package resource

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// Key is a namespaced resource name, e.g. "minecraft:block/stone".
// It maps deterministically to model, texture and metadata file paths.
type Key struct {
	Namespace string
	Path      string
}

// ParseKey parses "namespace:path". A bare string without ':' defaults to
// the "minecraft" namespace. Keys must be lower-case with no whitespace.
func ParseKey(s string) (Key, error) {
	if strings.ContainsAny(s, " \t") || s != strings.ToLower(s) {
		return Key{}, fmt.Errorf("resource: invalid key %q", s)
	}

	ns, p, ok := strings.Cut(s, ":")
	if !ok {
		ns, p = "minecraft", s
	}
	if ns == "" || p == "" {
		return Key{}, fmt.Errorf("resource: invalid key %q", s)
	}
	return Key{Namespace: ns, Path: p}, nil
}

func (k Key) String() string {
	return k.Namespace + ":" + k.Path
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k.Namespace == "" && k.Path == ""
}

// ModelPath is the pack-relative path of the model JSON document.
func (k Key) ModelPath() string {
	return path.Join("assets", k.Namespace, "models", k.Path+".json")
}

// TexturePath is the pack-relative path of the texture PNG.
func (k Key) TexturePath() string {
	return path.Join("assets", k.Namespace, "textures", k.Path+".png")
}

// TextureMetaPath is the pack-relative path of the texture sidecar metadata.
func (k Key) TextureMetaPath() string {
	return k.TexturePath() + ".mcmeta"
}

// MarshalJSON writes the key in its "namespace:path" string form.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON reads the key from its string form.
func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
