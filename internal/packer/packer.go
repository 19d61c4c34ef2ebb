// Package packer places axis-aligned rectangles into a growing canvas
// using the MaxRects heuristic with best-short-side-fit placement.
package packer

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCanvasLimit is returned when packing would require a canvas larger
// than Options.MaxSize on either side.
var ErrCanvasLimit = errors.New("packer: canvas size limit exceeded")

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether o lies fully inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return o.X < r.X+r.W && o.X+o.W > r.X && o.Y < r.Y+r.H && o.Y+o.H > r.Y
}

// Size is the dimensions of one rectangle to place.
type Size struct {
	W, H int
}

// Options bounds the canvas. MinSize is the smallest side length tried,
// MaxSize the hard ceiling for either side. Both are power-of-two aligned
// by Pack.
type Options struct {
	MinSize int
	MaxSize int
}

// DefaultOptions matches the in-game texture limits.
func DefaultOptions() Options {
	return Options{MinSize: 16, MaxSize: 16384}
}

// Pack places all sizes without overlap into the smallest canvas it can
// find, starting from a power-of-two square no smaller than the largest
// single dimension and doubling the smaller side on failure. It returns
// the placement for each input size, in input order, and the final canvas
// dimensions.
func Pack(sizes []Size, opt Options) ([]Rect, int, int, error) {
	if opt.MinSize <= 0 {
		opt.MinSize = 16
	}
	if opt.MaxSize <= 0 {
		opt.MaxSize = 16384
	}

	maxSide := opt.MinSize
	for _, s := range sizes {
		if s.W > maxSide {
			maxSide = s.W
		}
		if s.H > maxSide {
			maxSide = s.H
		}
	}

	// Largest first; ties keep input order so results are deterministic.
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return maxDim(sizes[order[a]]) > maxDim(sizes[order[b]])
	})

	width := nextPowerOfTwo(maxSide)
	height := width

	for {
		if width > opt.MaxSize || height > opt.MaxSize {
			return nil, 0, 0, fmt.Errorf("%w (%dx%d needed)", ErrCanvasLimit, width, height)
		}
		if placed, ok := tryPack(width, height, sizes, order); ok {
			return placed, width, height, nil
		}
		if width <= height {
			width *= 2
		} else {
			height *= 2
		}
	}
}

func maxDim(s Size) int {
	if s.W > s.H {
		return s.W
	}
	return s.H
}

func nextPowerOfTwo(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// tryPack attempts a single packing pass at a fixed canvas size.
func tryPack(atlasW, atlasH int, sizes []Size, order []int) ([]Rect, bool) {
	free := []Rect{{0, 0, atlasW, atlasH}}
	placed := make([]Rect, len(sizes))

	for _, idx := range order {
		s := sizes[idx]

		node, ok := findBestNode(free, s)
		if !ok {
			return nil, false
		}
		placed[idx] = node
		free = splitFree(free, node)
	}

	return placed, true
}

// findBestNode selects the free rectangle minimizing short-side leftover,
// tie-broken by long-side leftover.
func findBestNode(free []Rect, s Size) (Rect, bool) {
	var best Rect
	found := false
	bestShort := int(^uint(0) >> 1)
	bestLong := bestShort

	for _, f := range free {
		if s.W > f.W || s.H > f.H {
			continue
		}
		leftoverW := f.W - s.W
		leftoverH := f.H - s.H
		short, long := leftoverW, leftoverH
		if short > long {
			short, long = long, short
		}
		if short < bestShort || (short == bestShort && long < bestLong) {
			best = Rect{f.X, f.Y, s.W, s.H}
			bestShort, bestLong = short, long
			found = true
		}
	}
	return best, found
}

// splitFree removes every free rectangle the placed node overlaps,
// replacing each with its up-to-four residual rectangles, then prunes
// rectangles contained in others.
func splitFree(free []Rect, node Rect) []Rect {
	next := free[:0:0]
	for _, f := range free {
		if !f.Intersects(node) {
			next = append(next, f)
			continue
		}
		// Left and right residuals span the full height of f,
		// top and bottom the full width.
		if node.X > f.X {
			next = appendRect(next, Rect{f.X, f.Y, node.X - f.X, f.H})
		}
		if node.X+node.W < f.X+f.W {
			next = appendRect(next, Rect{node.X + node.W, f.Y, f.X + f.W - (node.X + node.W), f.H})
		}
		if node.Y > f.Y {
			next = appendRect(next, Rect{f.X, f.Y, f.W, node.Y - f.Y})
		}
		if node.Y+node.H < f.Y+f.H {
			next = appendRect(next, Rect{f.X, node.Y + node.H, f.W, f.Y + f.H - (node.Y + node.H)})
		}
	}
	return prune(next)
}

func appendRect(list []Rect, r Rect) []Rect {
	if r.W <= 0 || r.H <= 0 {
		return list
	}
	return append(list, r)
}

// prune drops any free rectangle fully contained in another. Exact
// duplicates keep their first occurrence.
func prune(list []Rect) []Rect {
	out := make([]Rect, 0, len(list))
	for i, a := range list {
		redundant := false
		for j, b := range list {
			if i == j {
				continue
			}
			if a == b {
				if j < i {
					redundant = true
					break
				}
				continue
			}
			if b.Contains(a) {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, a)
		}
	}
	return out
}
