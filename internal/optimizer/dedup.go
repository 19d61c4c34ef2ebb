package optimizer

import (
	"image"

	"rp-optimizer/internal/imageutil"
)

// Transform is one of the four symmetry transforms relating a rendered
// region to its canonical image.
type Transform uint8

const (
	TransformNone Transform = iota
	TransformFlipH
	TransformFlipV
	TransformFlipHV
)

func (t Transform) String() string {
	switch t {
	case TransformFlipH:
		return "flip-h"
	case TransformFlipV:
		return "flip-v"
	case TransformFlipHV:
		return "flip-hv"
	default:
		return "none"
	}
}

func (t Transform) flips() (h, v bool) {
	return t == TransformFlipH || t == TransformFlipHV,
		t == TransformFlipV || t == TransformFlipHV
}

// uniqueArea is one canonical image plus every extracted area that equals
// it under some symmetry transform. X/Y are set once packing assigns a
// placement in the new atlas.
type uniqueArea struct {
	canonical *image.NRGBA
	w, h      int
	matches   []areaMatch
	x, y      int
}

// areaMatch ties an extracted area to its unique area with the transform
// that maps canonical → rendered area.
type areaMatch struct {
	area      *textureArea
	transform Transform
}

// deduplicate partitions areas into unique areas. Each area is first
// rendered by applying its own UV flips (the image as it appears in-world),
// then compared bitwise against existing canonicals under all four
// transforms. First match wins; scan order is discovery order.
func deduplicate(areas []*textureArea) []*uniqueArea {
	var uniques []*uniqueArea

	for _, area := range areas {
		rendered := imageutil.Flip(area.patch, area.flipH, area.flipV)

		var found *uniqueArea
		transform := TransformNone
		for _, u := range uniques {
			if t, ok := matchTransform(rendered, u.canonical); ok {
				found, transform = u, t
				break
			}
		}

		if found != nil {
			found.matches = append(found.matches, areaMatch{area: area, transform: transform})
			continue
		}
		b := rendered.Bounds()
		uniques = append(uniques, &uniqueArea{
			canonical: rendered,
			w:         b.Dx(),
			h:         b.Dy(),
			matches:   []areaMatch{{area: area, transform: TransformNone}},
		})
	}
	return uniques
}

// matchTransform finds the first transform under which rendered equals the
// canonical image.
func matchTransform(rendered, canonical *image.NRGBA) (Transform, bool) {
	for _, t := range []Transform{TransformNone, TransformFlipH, TransformFlipV, TransformFlipHV} {
		h, v := t.flips()
		if imageutil.Equal(rendered, imageutil.Flip(canonical, h, v)) {
			return t, true
		}
	}
	return TransformNone, false
}
