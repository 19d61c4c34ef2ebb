package optimizer

import (
	"image"
	"math"
	"strings"

	"rp-optimizer/internal/imageutil"
	"rp-optimizer/internal/logger"
	"rp-optimizer/internal/resource"
)

// textureArea is the pixel region one face's UV maps to, with the flip
// flags its UV ordering implies and the face it came from.
type textureArea struct {
	model resource.Key
	face  *resource.Face
	patch *image.NRGBA
	flipH bool // u1 > u2 in the source UV
	flipV bool // v1 > v2 in the source UV
}

// extractAreas cuts the used region out of tex for every face of every
// model in the group that references it. Individual bad faces are skipped,
// never failing the group.
func (o *Optimizer) extractAreas(tex *resource.Texture, models []resource.Key) []*textureArea {
	var areas []*textureArea

	for _, modelKey := range models {
		entry := o.cache.entry(modelKey)
		if entry == nil {
			continue
		}

		// Face UVs may be rewritten concurrently by another group that
		// shares this model; extraction takes the read side.
		entry.mu.RLock()
		areas = append(areas, extractModelAreas(modelKey, entry.model, tex)...)
		entry.mu.RUnlock()
	}
	return areas
}

func extractModelAreas(modelKey resource.Key, m *resource.Model, tex *resource.Texture) []*textureArea {
	refs := m.FaceTextureKeys()

	var areas []*textureArea
	for _, element := range m.Elements {
		for _, face := range element.Faces {
			if face.Texture == "" || !strings.HasPrefix(face.Texture, "#") {
				continue
			}
			faceTex, ok := refs[face.Texture]
			if !ok || faceTex != tex.Key {
				continue
			}
			if face.UV == nil {
				continue
			}

			area := extractFaceArea(modelKey, face, tex)
			if area != nil {
				areas = append(areas, area)
			}
		}
	}
	return areas
}

// extractFaceArea maps one face's UV from the fixed 0-16 space into pixel
// space and copies the region. Returns nil for degenerate boxes.
func extractFaceArea(modelKey resource.Key, face *resource.Face, tex *resource.Texture) *textureArea {
	b := tex.Image.Bounds()
	imgW, imgH := b.Dx(), b.Dy()
	uv := *face.UV

	x1 := uv[0] / 16 * float64(imgW)
	y1 := uv[1] / 16 * float64(imgH)
	x2 := uv[2] / 16 * float64(imgW)
	y2 := uv[3] / 16 * float64(imgH)

	x := int(math.Round(math.Min(x1, x2)))
	y := int(math.Round(math.Min(y1, y2)))
	w := int(math.Round(math.Abs(x2 - x1)))
	h := int(math.Round(math.Abs(y2 - y1)))

	if w <= 0 || h <= 0 {
		return nil
	}

	var patch *image.NRGBA
	if x >= 0 && y >= 0 && x+w <= imgW && y+h <= imgH {
		patch = imageutil.SubImage(tex.Image, x, y, w, h)
	} else {
		// The UV leaves the image; the texture tiles, so wrap around.
		logger.Sugar.Warnf("Wrapping out-of-bounds UV on %s (texture %s), check the model", modelKey, tex.Key)
		patch = imageutil.WrapSubImage(tex.Image, x, y, w, h)
	}

	return &textureArea{
		model: modelKey,
		face:  face,
		patch: patch,
		flipH: uv[0] > uv[2],
		flipV: uv[1] > uv[3],
	}
}
