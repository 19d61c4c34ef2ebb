package optimizer

import (
	"image"

	"rp-optimizer/internal/imageutil"
	"rp-optimizer/internal/logger"
	"rp-optimizer/internal/packer"
	"rp-optimizer/internal/resource"
)

// Atlas is the repacked texture for one group: the composited image and
// the placed unique areas needed to rewrite the consuming faces.
type Atlas struct {
	Key   resource.Key
	Image *image.NRGBA
	W, H  int

	areas []*uniqueArea
}

// PackGroup runs extraction, deduplication and packing for one texture
// group without writing anything. The returned atlas is nil whenever the
// result is not marked optimized.
func (o *Optimizer) PackGroup(texture resource.Key, models []resource.Key) (*Atlas, GroupResult) {
	return o.packGroup(texture, models)
}

func (o *Optimizer) packGroup(texture resource.Key, models []resource.Key) (*Atlas, GroupResult) {
	res := GroupResult{Texture: texture, Models: len(models)}

	tex, err := o.pack.Texture(texture)
	if err != nil {
		res.Err = err
		return nil, res
	}
	b := tex.Image.Bounds()
	res.OldW, res.OldH = b.Dx(), b.Dy()

	areas := o.extractAreas(tex, models)
	res.Areas = len(areas)
	if len(areas) == 0 {
		logger.Sugar.Warnf("  ...no valid texture areas for %s, skipping", texture)
		return nil, res
	}

	uniques := deduplicate(areas)
	res.UniqueAreas = len(uniques)

	sizes := make([]packer.Size, len(uniques))
	for i, u := range uniques {
		sizes[i] = packer.Size{W: u.w, H: u.h}
	}
	placed, atlasW, atlasH, err := packer.Pack(sizes, packer.Options{
		MinSize: o.cfg.MinAtlasSize,
		MaxSize: o.cfg.MaxAtlasSize,
	})
	if err != nil {
		res.Err = err
		return nil, res
	}
	res.NewW, res.NewH = atlasW, atlasH

	// Only adopt the atlas if it shrank the texture in some dimension.
	if atlasW >= res.OldW && atlasH >= res.OldH {
		return nil, res
	}
	res.Optimized = true

	canvas := imageutil.NewTransparent(atlasW, atlasH)
	for i, u := range uniques {
		u.x, u.y = placed[i].X, placed[i].Y
		imageutil.DrawAt(canvas, u.canonical, u.x, u.y)
	}

	return &Atlas{Key: texture, Image: canvas, W: atlasW, H: atlasH, areas: uniques}, res
}
