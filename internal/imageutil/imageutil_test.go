package imageutil

import (
	"image"
	"image/color"
	"testing"
)

// gradient fills a w×h image with a distinct color per pixel.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func TestFlipHorizontal(t *testing.T) {
	img := gradient(4, 3)
	flipped := Flip(img, true, false)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if flipped.NRGBAAt(x, y) != img.NRGBAAt(3-x, y) {
				t.Fatalf("pixel (%d,%d) not mirrored", x, y)
			}
		}
	}
}

func TestFlipVertical(t *testing.T) {
	img := gradient(4, 3)
	flipped := Flip(img, false, true)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if flipped.NRGBAAt(x, y) != img.NRGBAAt(x, 2-y) {
				t.Fatalf("pixel (%d,%d) not mirrored", x, y)
			}
		}
	}
}

func TestFlipRoundTrip(t *testing.T) {
	img := gradient(5, 7)
	cases := []struct{ h, v bool }{{true, false}, {false, true}, {true, true}}
	for _, c := range cases {
		back := Flip(Flip(img, c.h, c.v), c.h, c.v)
		if !Equal(img, back) {
			t.Errorf("double flip (h=%v v=%v) is not identity", c.h, c.v)
		}
	}
}

func TestFlipNoopReturnsSameImage(t *testing.T) {
	img := gradient(2, 2)
	if Flip(img, false, false) != img {
		t.Error("no-axis flip should return the input unchanged")
	}
}

func TestEqual(t *testing.T) {
	a := gradient(4, 4)
	b := gradient(4, 4)
	if !Equal(a, b) {
		t.Error("identical images should be equal")
	}
	b.SetNRGBA(2, 3, color.NRGBA{A: 1})
	if Equal(a, b) {
		t.Error("images differing in one pixel should not be equal")
	}
	if Equal(a, gradient(4, 5)) {
		t.Error("images of different size should not be equal")
	}
}

func TestSubImage(t *testing.T) {
	img := gradient(8, 8)
	sub := SubImage(img, 2, 3, 4, 2)
	if got := sub.Bounds(); got.Dx() != 4 || got.Dy() != 2 {
		t.Fatalf("sub bounds = %v", got)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if sub.NRGBAAt(x, y) != img.NRGBAAt(2+x, 3+y) {
				t.Fatalf("pixel (%d,%d) wrong", x, y)
			}
		}
	}
}

func TestWrapSubImageTiles(t *testing.T) {
	img := gradient(8, 8)
	// Region extends past both edges; every pixel must come from the
	// wrapped source address.
	sub := WrapSubImage(img, 5, 6, 6, 6)
	for dy := 0; dy < 6; dy++ {
		for dx := 0; dx < 6; dx++ {
			want := img.NRGBAAt((5+dx)%8, (6+dy)%8)
			if got := sub.NRGBAAt(dx, dy); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", dx, dy, got, want)
			}
		}
	}
}

func TestWrapSubImageNegativeOffsets(t *testing.T) {
	img := gradient(8, 8)
	sub := WrapSubImage(img, -3, -2, 4, 4)
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 4; dx++ {
			sx := ((-3+dx)%8 + 8) % 8
			sy := ((-2+dy)%8 + 8) % 8
			if got := sub.NRGBAAt(dx, dy); got != img.NRGBAAt(sx, sy) {
				t.Fatalf("pixel (%d,%d) = %v, want source (%d,%d)", dx, dy, got, sx, sy)
			}
		}
	}
}

func TestToNRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 23))
	src.SetRGBA(11, 21, color.RGBA{R: 200, A: 255})
	out := ToNRGBA(src)
	if out.Bounds().Min != (image.Point{}) {
		t.Fatalf("bounds not anchored at origin: %v", out.Bounds())
	}
	if got := out.NRGBAAt(1, 1); got.R != 200 || got.A != 255 {
		t.Errorf("pixel (1,1) = %v, want translated source pixel", got)
	}
}

func TestDrawAt(t *testing.T) {
	canvas := NewTransparent(8, 8)
	patch := gradient(3, 3)
	DrawAt(canvas, patch, 4, 5)
	if canvas.NRGBAAt(4, 5) != patch.NRGBAAt(0, 0) {
		t.Error("patch origin not composited at (4,5)")
	}
	if canvas.NRGBAAt(6, 7) != patch.NRGBAAt(2, 2) {
		t.Error("patch corner not composited")
	}
	if canvas.NRGBAAt(0, 0) != (color.NRGBA{}) {
		t.Error("untouched canvas pixel should stay transparent")
	}
}
