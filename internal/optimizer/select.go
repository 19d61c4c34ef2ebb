package optimizer

import (
	"sort"

	"rp-optimizer/internal/logger"
	"rp-optimizer/internal/resource"
)

// Groups discovers all models and returns the texture → eligible models
// mapping. A model qualifies when it is a root model (no parent) with real
// geometry, resolves at least one non-particle texture, touches no animated
// texture, and — if it is itself a parent — none of its children define
// geometry or animation of their own. Eligible models are loaded into the
// run's model cache so later groups see edits from earlier ones.
func (o *Optimizer) Groups() (map[resource.Key][]resource.Key, error) {
	allKeys, err := o.pack.DiscoverModels()
	if err != nil {
		return nil, err
	}

	loaded := make(map[resource.Key]*resource.Model, len(allKeys))
	for _, key := range allKeys {
		m, err := o.pack.Model(key)
		if err != nil {
			logger.Sugar.Debugf("Skipping unreadable model %s: %v", key, err)
			continue
		}
		loaded[key] = m
	}

	children := make(map[resource.Key][]resource.Key)
	for _, key := range allKeys {
		m := loaded[key]
		if m != nil && m.Parent != nil {
			children[*m.Parent] = append(children[*m.Parent], key)
		}
	}

	groups := make(map[resource.Key]map[resource.Key]struct{})
	for _, key := range allKeys {
		m := loaded[key]
		if m == nil || m.Parent != nil {
			continue
		}
		if !hasFaces(m) {
			continue
		}

		// A parent is only safe to rewrite when no child independently
		// defines geometry or animation.
		if o.childBlocks(children[key], loaded) {
			continue
		}

		nonParticle := m.NonParticleTextures()
		if len(nonParticle) == 0 {
			continue
		}
		if o.anyAnimated(nonParticle) {
			continue
		}

		o.cache.put(key, m)

		for _, tex := range nonParticle {
			if !o.pack.HasTexture(tex) || o.pack.HasTextureMeta(tex) {
				continue
			}
			if groups[tex] == nil {
				groups[tex] = make(map[resource.Key]struct{})
			}
			groups[tex][key] = struct{}{}
		}
	}

	out := make(map[resource.Key][]resource.Key, len(groups))
	for tex, set := range groups {
		models := make([]resource.Key, 0, len(set))
		for k := range set {
			models = append(models, k)
		}
		sort.Slice(models, func(i, j int) bool { return models[i].String() < models[j].String() })
		out[tex] = models
	}
	return out, nil
}

func hasFaces(m *resource.Model) bool {
	for _, el := range m.Elements {
		if len(el.Faces) > 0 {
			return true
		}
	}
	return false
}

func (o *Optimizer) childBlocks(childKeys []resource.Key, loaded map[resource.Key]*resource.Model) bool {
	for _, childKey := range childKeys {
		child := loaded[childKey]
		if child == nil {
			continue
		}
		if child.HasElements() {
			return true
		}
		if o.anyAnimated(child.NonParticleTextures()) {
			return true
		}
	}
	return false
}

func (o *Optimizer) anyAnimated(textures []resource.Key) bool {
	for _, tex := range textures {
		if o.pack.HasTextureMeta(tex) {
			return true
		}
	}
	return false
}
