// Command atlasdump dry-runs the optimizer on a pack and writes scaled
// WebP previews of the atlases it would produce, without touching any
// model or texture. Useful for checking packing quality before a real run.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"rp-optimizer/internal/config"
	"rp-optimizer/internal/logger"
	"rp-optimizer/internal/optimizer"
	"rp-optimizer/internal/resource"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	texture := flag.String("texture", "", "Only dump this texture (namespace:path)")
	scale := flag.Int("scale", 4, "Integer preview upscale factor")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <inputPack> <outDir>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	input, outDir := flag.Arg(0), flag.Arg(1)

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{DryRun: true})

	logger.Init(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	pack := resource.Open(input)

	textures, err := pack.DiscoverTextures()
	if err == nil {
		logger.Sugar.Infof("Pack has %d textures", len(textures))
	}

	opt := optimizer.New(pack, "", cfg)
	groups, err := opt.Groups()
	if err != nil {
		logger.Sugar.Errorf("Selection failed: %v", err)
		os.Exit(1)
	}

	keys := make([]resource.Key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	if *texture != "" {
		want, err := resource.ParseKey(*texture)
		if err != nil {
			logger.Sugar.Errorf("Bad -texture value: %v", err)
			os.Exit(1)
		}
		if _, ok := groups[want]; !ok {
			logger.Sugar.Errorf("Texture %s is not in any eligible group", want)
			os.Exit(1)
		}
		keys = []resource.Key{want}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		logger.Sugar.Errorf("Creating %s: %v", outDir, err)
		os.Exit(1)
	}

	dumped := 0
	for _, key := range keys {
		atlas, res := opt.PackGroup(key, groups[key])
		if res.Err != nil {
			logger.Sugar.Warnf("%s: %v", key, res.Err)
			continue
		}
		if atlas == nil {
			logger.Sugar.Infof("%s: %dx%d -> %dx%d, would not shrink",
				key, res.OldW, res.OldH, res.NewW, res.NewH)
			continue
		}

		name := strings.ReplaceAll(key.String(), ":", "_")
		name = strings.ReplaceAll(name, "/", "_") + ".webp"
		outPath := filepath.Join(outDir, name)

		if err := writePreview(outPath, atlas.Image, *scale); err != nil {
			logger.Sugar.Warnf("%s: %v", key, err)
			continue
		}
		logger.Sugar.Infof("%s: %dx%d -> %dx%d (%d areas, %d unique) -> %s",
			key, res.OldW, res.OldH, res.NewW, res.NewH, res.Areas, res.UniqueAreas, outPath)
		dumped++
	}

	logger.Sugar.Infof("Dumped %d of %d atlas previews", dumped, len(keys))
}

// writePreview upscales the atlas with nearest-neighbor (keeping pixel-art
// edges crisp) and encodes it as lossless WebP.
func writePreview(path string, atlas *image.NRGBA, scale int) error {
	img := atlas
	if scale > 1 {
		b := atlas.Bounds()
		scaled := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), atlas, b, draw.Src, nil)
		img = scaled
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return nativewebp.Encode(f, img, nil)
}
