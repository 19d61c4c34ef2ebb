package optimizer

import (
	"rp-optimizer/internal/resource"
)

// patchModels rewrites every consuming face's UV to point into the new
// atlas and updates each model's texture variables, then persists the
// models. Mutation and save of a model happen under its exclusive lock
// because a model can belong to several groups processed concurrently.
func (o *Optimizer) patchModels(models []resource.Key, atlas *Atlas) error {
	facePatch := make(map[*resource.Face][4]float64)

	for _, u := range atlas.areas {
		canonical := [4]float64{
			float64(u.x) / float64(atlas.W) * 16,
			float64(u.y) / float64(atlas.H) * 16,
			float64(u.x+u.w) / float64(atlas.W) * 16,
			float64(u.y+u.h) / float64(atlas.H) * 16,
		}

		for _, m := range u.matches {
			// Canonical → rendered orientation, then restore the mirroring
			// the source face's own UV ordering carried.
			uv := applyTransform(canonical, m.transform)
			uv = applyFlips(uv, m.area.flipH, m.area.flipV)
			facePatch[m.area.face] = uv
		}
	}

	for _, modelKey := range models {
		entry := o.cache.entry(modelKey)
		if entry == nil {
			continue
		}

		entry.mu.Lock()
		m := entry.model
		for name, v := range m.Textures {
			if v.IsResolved() && v.Key() == atlas.Key {
				m.Textures[name] = resource.ResolvedVar(atlas.Key)
			}
		}
		for _, element := range m.Elements {
			for _, face := range element.Faces {
				if uv, ok := facePatch[face]; ok {
					patched := uv
					face.UV = &patched
				}
			}
		}
		err := o.pack.SaveModel(modelKey, m, o.outputRoot)
		entry.mu.Unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// applyTransform mirrors a UV rectangle by swapping endpoint pairs: U for
// horizontal transforms, V for vertical ones. Each transform is its own
// inverse.
func applyTransform(uv [4]float64, t Transform) [4]float64 {
	h, v := t.flips()
	return applyFlips(uv, h, v)
}

func applyFlips(uv [4]float64, flipH, flipV bool) [4]float64 {
	if flipH {
		uv[0], uv[2] = uv[2], uv[0]
	}
	if flipV {
		uv[1], uv[3] = uv[3], uv[1]
	}
	return uv
}
