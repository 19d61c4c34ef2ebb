// Package optimizer shrinks texture atlases of an asset pack by extracting
// the texture regions models actually use, deduplicating regions that are
// identical up to mirroring, repacking the survivors into a smaller image
// and rewriting the models' UV coordinates to match.
package optimizer

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"rp-optimizer/internal/config"
	"rp-optimizer/internal/logger"
	"rp-optimizer/internal/resource"

	"go.uber.org/zap"
)

// Optimizer drives one optimization run over a pack.
type Optimizer struct {
	pack       *resource.Pack
	outputRoot string
	cfg        config.Config
	cache      *modelCache
}

// New creates an Optimizer reading from pack and writing under outputRoot.
func New(pack *resource.Pack, outputRoot string, cfg config.Config) *Optimizer {
	return &Optimizer{
		pack:       pack,
		outputRoot: outputRoot,
		cfg:        cfg,
		cache:      newModelCache(),
	}
}

// GroupResult is the outcome of processing one texture group.
type GroupResult struct {
	Texture     resource.Key
	Models      int
	Areas       int
	UniqueAreas int
	OldW, OldH  int
	NewW, NewH  int
	Optimized   bool
	Err         error
}

// Summary aggregates a whole run.
type Summary struct {
	Groups    []GroupResult
	Optimized int
}

// Run selects all eligible texture groups and processes them on a worker
// pool. Group-level failures are recorded in the summary; only write
// failures abort the run.
func (o *Optimizer) Run() (*Summary, error) {
	groups, err := o.Groups()
	if err != nil {
		return nil, err
	}

	keys := make([]resource.Key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	logger.Sugar.Infof("Found %d texture groups to optimize", len(keys))

	results := make([]GroupResult, len(keys))
	var fatalMu sync.Mutex
	var fatal error
	var processed atomic.Int64

	start := time.Now()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logger.Sugar.Infof("[%d/%d] %.1f groups/sec", p, len(keys), rate)
				}
			}
		}
	}()

	workers := o.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	idxChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxChan {
				res, writeErr := o.processGroup(keys[i], groups[keys[i]])
				results[i] = res
				if writeErr != nil {
					fatalMu.Lock()
					if fatal == nil {
						fatal = writeErr
					}
					fatalMu.Unlock()
				}
				processed.Add(1)
			}
		}()
	}
	for i := range keys {
		idxChan <- i
	}
	close(idxChan)
	wg.Wait()
	close(done)

	if fatal != nil {
		return nil, fatal
	}

	summary := &Summary{Groups: results}
	for _, r := range results {
		if r.Optimized {
			summary.Optimized++
		}
	}
	return summary, nil
}

// processGroup handles one texture group end to end. The returned error is
// non-nil only for write failures, which are fatal for the run; everything
// else lands in the result.
func (o *Optimizer) processGroup(texture resource.Key, models []resource.Key) (GroupResult, error) {
	logger.Sugar.Infof("Processing texture %s (%d models)", texture, len(models))

	atlas, res := o.packGroup(texture, models)
	if res.Err != nil {
		logger.Log.Warn("Group failed",
			zap.Stringer("texture", texture), zap.Error(res.Err))
		return res, nil
	}
	if !res.Optimized {
		if res.NewW > 0 {
			logger.Sugar.Infof("  ...%s not smaller (%dx%d -> %dx%d), skipping",
				texture, res.OldW, res.OldH, res.NewW, res.NewH)
		}
		return res, nil
	}

	if o.cfg.DryRun {
		logger.Sugar.Infof("  ...%s would shrink %dx%d -> %dx%d (dry run)",
			texture, res.OldW, res.OldH, res.NewW, res.NewH)
		return res, nil
	}

	if err := o.pack.SaveTexture(texture, atlas.Image, o.outputRoot); err != nil {
		res.Err = err
		res.Optimized = false
		return res, err
	}
	if err := o.patchModels(models, atlas); err != nil {
		res.Err = err
		res.Optimized = false
		return res, err
	}

	logger.Sugar.Infof("  ...%s optimized %dx%d -> %dx%d (%d areas, %d unique)",
		texture, res.OldW, res.OldH, res.NewW, res.NewH, res.Areas, res.UniqueAreas)
	return res, nil
}
