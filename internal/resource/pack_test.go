package resource

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: 3, A: 255})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return img
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPackDiscoverModels(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "assets/mypack/models/item/a.json"), `{}`)
	writeTestFile(t, filepath.Join(root, "assets/mypack/models/block/sub/b.json"), `{}`)
	writeTestFile(t, filepath.Join(root, "assets/other/models/c.json"), `{}`)
	// Files outside the models tree must be ignored.
	writeTestFile(t, filepath.Join(root, "assets/mypack/textures/item/a.json"), `{}`)
	writeTestFile(t, filepath.Join(root, "pack.json"), `{}`)

	p := Open(root)
	keys, err := p.DiscoverModels()
	if err != nil {
		t.Fatalf("DiscoverModels: %v", err)
	}
	got := make([]string, len(keys))
	for i, k := range keys {
		got[i] = k.String()
	}
	sort.Strings(got)
	want := []string{"mypack:block/sub/b", "mypack:item/a", "other:c"}
	if len(got) != len(want) {
		t.Fatalf("DiscoverModels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DiscoverModels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPackModelLoad(t *testing.T) {
	root := t.TempDir()
	key := Key{"mypack", "item/a"}
	writeTestFile(t, filepath.Join(root, filepath.FromSlash(key.ModelPath())),
		`{"textures":{"all":"mypack:item/a_tex"}}`)

	p := Open(root)
	m, err := p.Model(key)
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if !m.Textures["all"].IsResolved() {
		t.Error("texture variable not resolved")
	}

	if _, err := p.Model(Key{"mypack", "missing"}); err == nil {
		t.Error("expected error for missing model")
	}

	writeTestFile(t, filepath.Join(root, "assets/mypack/models/bad.json"), `{not json`)
	if _, err := p.Model(Key{"mypack", "bad"}); err == nil {
		t.Error("expected error for malformed model")
	}
}

func TestPackTextureLoad(t *testing.T) {
	root := t.TempDir()
	key := Key{"mypack", "block/crate"}
	want := writeTestPNG(t, filepath.Join(root, filepath.FromSlash(key.TexturePath())), 8, 4)

	p := Open(root)
	if !p.HasTexture(key) {
		t.Error("HasTexture should see the png")
	}
	if p.HasTextureMeta(key) {
		t.Error("HasTextureMeta should be false without sidecar")
	}

	tex, err := p.Texture(key)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	if tex.Animated() {
		t.Error("texture without metadata should not be animated")
	}
	b := tex.Image.Bounds()
	if b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("decoded size = %v", b)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if tex.Image.NRGBAAt(x, y) != want.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed in decode", x, y)
			}
		}
	}
}

func TestPackTextureMeta(t *testing.T) {
	root := t.TempDir()
	key := Key{"mypack", "block/lava"}
	writeTestPNG(t, filepath.Join(root, filepath.FromSlash(key.TexturePath())), 4, 4)
	writeTestFile(t, filepath.Join(root, filepath.FromSlash(key.TextureMetaPath())),
		`{"animation":{"frametime":2}}`)

	p := Open(root)
	if !p.HasTextureMeta(key) {
		t.Error("HasTextureMeta should see the sidecar")
	}
	tex, err := p.Texture(key)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	if !tex.Animated() {
		t.Error("texture with metadata should be animated")
	}
}

func TestPackSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	p := Open(root)

	mkey := Key{"mypack", "item/a"}
	uv := [4]float64{0, 0, 8, 8}
	m := &Model{
		Textures: map[string]TextureVar{"all": ResolvedVar(Key{"mypack", "item/a_tex"})},
		Elements: []*Element{{Faces: map[string]*Face{"north": {UV: &uv, Texture: "#all"}}}},
	}
	if err := p.SaveModel(mkey, m, out); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	back, err := Open(out).Model(mkey)
	if err != nil {
		t.Fatalf("reload model: %v", err)
	}
	if *back.Elements[0].Faces["north"].UV != uv {
		t.Error("uv changed in save round trip")
	}

	tkey := Key{"mypack", "item/a_tex"}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	if err := p.SaveTexture(tkey, img, out); err != nil {
		t.Fatalf("SaveTexture: %v", err)
	}
	texBack, err := Open(out).Texture(tkey)
	if err != nil {
		t.Fatalf("reload texture: %v", err)
	}
	if texBack.Image.NRGBAAt(1, 1) != img.NRGBAAt(1, 1) {
		t.Error("pixel changed in texture save round trip")
	}
}

func TestPackSaveTextureWithMeta(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	p := Open(root)

	key := Key{"mypack", "block/fire"}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	meta := []byte(`{"animation":{}}`)
	if err := p.SaveTextureWithMeta(key, img, meta, out); err != nil {
		t.Fatalf("SaveTextureWithMeta: %v", err)
	}
	if !Open(out).HasTextureMeta(key) {
		t.Error("sidecar not written")
	}
}
