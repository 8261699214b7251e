package analyzer

import (
	"image"
	"image/color"
	"math"
)

// ContrastDetector groups strong luminance gradients into blocks: Sobel
// edges, dilation to merge neighbouring glyphs, then connected components.
type ContrastDetector struct {
	MinBlockArea  int     // pixels²
	EdgeThreshold float64 // gradient magnitude
	Radius        int     // dilation radius
	Passes        int     // dilation passes
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30,
		Radius:        2,
		Passes:        2,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	mask := luminance(img).edges(d.EdgeThreshold)
	for i := 0; i < d.Passes; i++ {
		mask = mask.dilate(d.Radius)
	}

	var blocks []Block
	for _, r := range mask.components() {
		if r.Dx()*r.Dy() < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, Block{Rect: r.Add(mask.origin), Confidence: 0.7})
	}
	return blocks, nil
}

// grid is a dense single-channel raster with its own origin.
type grid struct {
	w, h   int
	origin image.Point
	px     []float64
}

func newGrid(b image.Rectangle) *grid {
	return &grid{w: b.Dx(), h: b.Dy(), origin: b.Min, px: make([]float64, b.Dx()*b.Dy())}
}

func (g *grid) at(x, y int) float64 { return g.px[y*g.w+x] }

func luminance(img image.Image) *grid {
	b := img.Bounds()
	g := newGrid(b)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			g.px[y*g.w+x] = float64(color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y)
		}
	}
	return g
}

// edges marks pixels whose Sobel magnitude exceeds threshold with 1.
func (g *grid) edges(threshold float64) *grid {
	out := &grid{w: g.w, h: g.h, origin: g.origin, px: make([]float64, len(g.px))}
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			gx := g.at(x+1, y-1) + 2*g.at(x+1, y) + g.at(x+1, y+1) -
				g.at(x-1, y-1) - 2*g.at(x-1, y) - g.at(x-1, y+1)
			gy := g.at(x-1, y+1) + 2*g.at(x, y+1) + g.at(x+1, y+1) -
				g.at(x-1, y-1) - 2*g.at(x, y-1) - g.at(x+1, y-1)
			if math.Hypot(gx, gy) > threshold {
				out.px[y*g.w+x] = 1
			}
		}
	}
	return out
}

// dilate grows every set pixel into a (2r+1)² square.
func (g *grid) dilate(r int) *grid {
	out := &grid{w: g.w, h: g.h, origin: g.origin, px: make([]float64, len(g.px))}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if g.at(x, y) == 0 {
				continue
			}
			for yy := max(0, y-r); yy <= min(g.h-1, y+r); yy++ {
				for xx := max(0, x-r); xx <= min(g.w-1, x+r); xx++ {
					out.px[yy*g.w+xx] = 1
				}
			}
		}
	}
	return out
}

// components returns the bounding box of each 4-connected set region in
// scan order, in grid-local coordinates.
func (g *grid) components() []image.Rectangle {
	seen := make([]bool, len(g.px))
	var rects []image.Rectangle
	var stack []int
	for start := range g.px {
		if seen[start] || g.px[start] == 0 {
			continue
		}
		r := image.Rect(start%g.w, start/g.w, start%g.w+1, start/g.w+1)
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%g.w, i/g.w
			r = r.Union(image.Rect(x, y, x+1, y+1))
			for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
				if n[0] < 0 || n[0] >= g.w || n[1] < 0 || n[1] >= g.h {
					continue
				}
				j := n[1]*g.w + n[0]
				if !seen[j] && g.px[j] != 0 {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}
		rects = append(rects, r)
	}
	return rects
}
