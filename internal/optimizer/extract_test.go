package optimizer

import (
	"testing"

	"rp-optimizer/internal/resource"
)

func newFace(uv [4]float64) *resource.Face {
	u := uv
	return &resource.Face{UV: &u, Texture: "#all"}
}

func TestExtractFaceAreaInBounds(t *testing.T) {
	img := gradient(32, 32)
	tex := &resource.Texture{Key: resource.Key{Namespace: "test", Path: "t"}, Image: img}
	mk := resource.Key{Namespace: "test", Path: "m"}

	// UV [4,2,8,6] on a 32x32 texture is the pixel rect (8,4)-(16,12).
	area := extractFaceArea(mk, newFace([4]float64{4, 2, 8, 6}), tex)
	if area == nil {
		t.Fatal("area is nil")
	}
	b := area.patch.Bounds()
	if b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("patch size = %v, want 8x8", b)
	}
	if area.flipH || area.flipV {
		t.Error("ascending UV must not set flip flags")
	}
	for dy := 0; dy < 8; dy++ {
		for dx := 0; dx < 8; dx++ {
			if area.patch.NRGBAAt(dx, dy) != img.NRGBAAt(8+dx, 4+dy) {
				t.Fatalf("pixel (%d,%d) wrong", dx, dy)
			}
		}
	}
}

func TestExtractFaceAreaFlipFlags(t *testing.T) {
	tex := &resource.Texture{Key: resource.Key{Namespace: "test", Path: "t"}, Image: gradient(16, 16)}
	mk := resource.Key{Namespace: "test", Path: "m"}

	tests := []struct {
		uv           [4]float64
		flipH, flipV bool
	}{
		{[4]float64{0, 0, 4, 4}, false, false},
		{[4]float64{4, 0, 0, 4}, true, false},
		{[4]float64{0, 4, 4, 0}, false, true},
		{[4]float64{4, 4, 0, 0}, true, true},
	}
	for _, tt := range tests {
		area := extractFaceArea(mk, newFace(tt.uv), tex)
		if area == nil {
			t.Fatalf("uv %v: area is nil", tt.uv)
		}
		if area.flipH != tt.flipH || area.flipV != tt.flipV {
			t.Errorf("uv %v: flips = %v,%v want %v,%v", tt.uv, area.flipH, area.flipV, tt.flipH, tt.flipV)
		}
		// The stored patch is the normalized bounding box either way.
		if area.patch.NRGBAAt(0, 0) != tex.Image.NRGBAAt(0, 0) {
			t.Errorf("uv %v: patch not taken from the normalized box", tt.uv)
		}
	}
}

func TestExtractFaceAreaDegenerate(t *testing.T) {
	tex := &resource.Texture{Key: resource.Key{Namespace: "test", Path: "t"}, Image: gradient(16, 16)}
	mk := resource.Key{Namespace: "test", Path: "m"}

	if a := extractFaceArea(mk, newFace([4]float64{4, 0, 4, 8}), tex); a != nil {
		t.Error("zero-width box must be skipped")
	}
	if a := extractFaceArea(mk, newFace([4]float64{0, 8, 8, 8}), tex); a != nil {
		t.Error("zero-height box must be skipped")
	}
}

// TestExtractFaceAreaWraps: a UV past the image edge samples with
// wrap-around addressing instead of failing.
func TestExtractFaceAreaWraps(t *testing.T) {
	img := gradient(16, 16)
	tex := &resource.Texture{Key: resource.Key{Namespace: "test", Path: "t"}, Image: img}
	mk := resource.Key{Namespace: "test", Path: "m"}

	// Pixel rect (8,8)-(24,24) on a 16x16 image.
	area := extractFaceArea(mk, newFace([4]float64{8, 8, 24, 24}), tex)
	if area == nil {
		t.Fatal("area is nil")
	}
	b := area.patch.Bounds()
	if b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("patch size = %v, want 16x16", b)
	}
	for dy := 0; dy < 16; dy++ {
		for dx := 0; dx < 16; dx++ {
			want := img.NRGBAAt((8+dx)%16, (8+dy)%16)
			if got := area.patch.NRGBAAt(dx, dy); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want wrapped source %v", dx, dy, got, want)
			}
		}
	}
}
