// Package imageutil holds the pixel-level operations the optimizer needs:
// NRGBA conversion, axis flips, bitwise comparison and region extraction
// with wrap-around addressing.
package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA converts any image to NRGBA with bounds anchored at the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}

// Flip returns img mirrored on the requested axes. With neither axis set
// the input is returned unchanged.
func Flip(img *image.NRGBA, horizontal, vertical bool) *image.NRGBA {
	if !horizontal && !vertical {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := y
		if vertical {
			sy = h - 1 - y
		}
		for x := 0; x < w; x++ {
			sx := x
			if horizontal {
				sx = w - 1 - x
			}
			out.SetNRGBA(x, y, img.NRGBAAt(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return out
}

// Equal reports whether two images have the same dimensions and identical
// pixel values everywhere.
func Equal(a, b *image.NRGBA) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			if a.NRGBAAt(ab.Min.X+x, ab.Min.Y+y) != b.NRGBAAt(bb.Min.X+x, bb.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

// SubImage copies the w×h rectangle at (x, y) out of img. The rectangle
// must lie fully inside the image.
func SubImage(img *image.NRGBA, x, y, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Copy(out, image.Point{}, img, image.Rect(x, y, x+w, y+h), draw.Src, nil)
	return out
}

// WrapSubImage copies the w×h rectangle at (x, y), sampling outside the
// image bounds by tiling: source addresses wrap modulo the image size.
func WrapSubImage(img *image.NRGBA, x, y, w, h int) *image.NRGBA {
	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for dy := 0; dy < h; dy++ {
		sy := (y + dy) % ih
		if sy < 0 {
			sy += ih
		}
		for dx := 0; dx < w; dx++ {
			sx := (x + dx) % iw
			if sx < 0 {
				sx += iw
			}
			out.SetNRGBA(dx, dy, img.NRGBAAt(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return out
}

// NewTransparent returns a fully transparent canvas of the given size.
func NewTransparent(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// DrawAt composites src onto dst with its top-left corner at (x, y).
func DrawAt(dst *image.NRGBA, src *image.NRGBA, x, y int) {
	draw.Copy(dst, image.Pt(x, y), src, src.Bounds(), draw.Src, nil)
}
