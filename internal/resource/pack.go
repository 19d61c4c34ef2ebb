package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Decoded explicitly for the stray TGA textures some packs ship; its
	// image.RegisterFormat uses an empty magic that would shadow PNG sniffing.
	"github.com/ftrvxmtrx/tga"

	"rp-optimizer/internal/imageutil"
)

// Texture is a decoded texture with its optional sidecar metadata.
// Metadata presence marks the texture as animated.
type Texture struct {
	Key   Key
	Image *image.NRGBA
	Meta  json.RawMessage
}

// Animated reports whether the texture carries sidecar metadata.
func (t *Texture) Animated() bool { return len(t.Meta) > 0 }

// Pack reads and writes models and textures of one asset pack rooted at a
// directory. Reads resolve against the root it was opened with; writes take
// an explicit output root so an optimizer can read the input pack while
// rewriting a copy.
type Pack struct {
	root string
}

// Open returns a Pack for the given root directory.
func Open(root string) *Pack {
	return &Pack{root: root}
}

// Root returns the pack's base directory.
func (p *Pack) Root() string { return p.root }

// Model loads and parses a model document. Missing or malformed documents
// return an error; callers treat both as absence.
func (p *Pack) Model(key Key) (*Model, error) {
	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(key.ModelPath())))
	if err != nil {
		return nil, fmt.Errorf("resource: read model %s: %w", key, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("resource: parse model %s: %w", key, err)
	}
	return &m, nil
}

// HasTexture reports whether the texture image file exists.
func (p *Pack) HasTexture(key Key) bool {
	_, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(key.TexturePath())))
	return err == nil
}

// HasTextureMeta reports whether the texture has sidecar metadata.
func (p *Pack) HasTextureMeta(key Key) bool {
	_, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(key.TextureMetaPath())))
	return err == nil
}

// Texture loads a texture image and, when present, its sidecar metadata.
func (p *Pack) Texture(key Key) (*Texture, error) {
	raw, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(key.TexturePath())))
	if err != nil {
		return nil, fmt.Errorf("resource: read texture %s: %w", key, err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		var tgaErr error
		if img, tgaErr = tga.Decode(bytes.NewReader(raw)); tgaErr != nil {
			return nil, fmt.Errorf("resource: decode texture %s: %w", key, err)
		}
	}

	tex := &Texture{Key: key, Image: imageutil.ToNRGBA(img)}

	metaPath := filepath.Join(p.root, filepath.FromSlash(key.TextureMetaPath()))
	if meta, err := os.ReadFile(metaPath); err == nil {
		tex.Meta = json.RawMessage(meta)
	}
	return tex, nil
}

// DiscoverModels walks assets/*/models and returns the key of every model
// document found.
func (p *Pack) DiscoverModels() ([]Key, error) {
	return p.discover("models", ".json")
}

// DiscoverTextures walks assets/*/textures and returns the key of every
// texture image found.
func (p *Pack) DiscoverTextures() ([]Key, error) {
	return p.discover("textures", ".png")
}

func (p *Pack) discover(kind, ext string) ([]Key, error) {
	assets := filepath.Join(p.root, "assets")
	if _, err := os.Stat(assets); err != nil {
		return nil, nil
	}

	var keys []Key
	err := filepath.WalkDir(assets, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ext) {
			return err
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		// assets/<namespace>/<kind>/<path...>
		if len(parts) < 4 || parts[0] != "assets" || parts[2] != kind {
			return nil
		}
		keys = append(keys, Key{
			Namespace: parts[1],
			Path:      strings.TrimSuffix(strings.Join(parts[3:], "/"), ext),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource: discover %s: %w", kind, err)
	}
	return keys, nil
}

// SaveModel writes a model document under outputRoot.
func (p *Pack) SaveModel(key Key, m *Model, outputRoot string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("resource: encode model %s: %w", key, err)
	}
	return writeFile(filepath.Join(outputRoot, filepath.FromSlash(key.ModelPath())), data)
}

// SaveTexture writes a texture image as PNG under outputRoot.
func (p *Pack) SaveTexture(key Key, img image.Image, outputRoot string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("resource: encode texture %s: %w", key, err)
	}
	return writeFile(filepath.Join(outputRoot, filepath.FromSlash(key.TexturePath())), buf.Bytes())
}

// SaveTextureWithMeta writes a texture and, when meta is non-empty, its
// sidecar metadata next to it.
func (p *Pack) SaveTextureWithMeta(key Key, img image.Image, meta json.RawMessage, outputRoot string) error {
	if err := p.SaveTexture(key, img, outputRoot); err != nil {
		return err
	}
	if len(meta) == 0 {
		return nil
	}
	return writeFile(filepath.Join(outputRoot, filepath.FromSlash(key.TextureMetaPath())), meta)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("resource: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("resource: write %s: %w", path, err)
	}
	return nil
}
