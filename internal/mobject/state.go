package mobject

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/maquette/internal/geom"
)

var (
	White = colorful.Color{R: 1, G: 1, B: 1}
	Black = colorful.Color{}
)

// State is the animatable draw-state of a mobject. Animations read an
// initial State and write only the fields they own.
type State struct {
	Position     geom.Vec2
	Opacity      float64
	DrawFraction float64 // 0 = nothing drawn, 1 = full outline
	Scale        float64
	Rotation     float64 // radians, counter-clockwise
	Stroke       colorful.Color
	Fill         colorful.Color
	FillOpacity  float64
	StrokeWidth  float64
}

// DefaultState is fully visible and fully drawn: white 2px stroke, no fill.
func DefaultState() State {
	return State{
		Opacity:      1,
		DrawFraction: 1,
		Scale:        1,
		Stroke:       White,
		Fill:         Black,
		StrokeWidth:  2,
	}
}

// Path is a polyline in scene space ready for rasterization. Alpha values
// already include the mobject opacity.
type Path struct {
	Points      []geom.Vec2
	Closed      bool
	Stroke      bool
	StrokeColor colorful.Color
	StrokeAlpha float64
	Width       float64
	Fill        bool
	FillColor   colorful.Color
	FillAlpha   float64
}

// Bitmap places an image in scene space. Reveal < 1 wipes it in from the left.
type Bitmap struct {
	Image    image.Image
	Center   geom.Vec2
	Size     geom.Vec2
	Rotation float64
	Reveal   float64
	Alpha    float64
}

// Label is a short text anchored at its left baseline.
type Label struct {
	Text  string
	At    geom.Vec2
	Color colorful.Color
	Alpha float64
}

// Drawing is everything a mobject contributes to one frame.
type Drawing struct {
	Paths   []Path
	Bitmaps []Bitmap
	Labels  []Label
}

func (d *Drawing) append(o Drawing) {
	d.Paths = append(d.Paths, o.Paths...)
	d.Bitmaps = append(d.Bitmaps, o.Bitmaps...)
	d.Labels = append(d.Labels, o.Labels...)
}

// outlined strokes pts trimmed to the draw fraction and fills the revealed
// polygon when the state has a visible fill.
func (st State) outlined(pts []geom.Vec2, closed bool) []Path {
	trimmed := geom.Trim(pts, closed, st.DrawFraction)
	if len(trimmed) < 2 {
		return nil
	}
	var out []Path
	if closed && st.FillOpacity > 0 && len(trimmed) >= 3 {
		out = append(out, st.filled(trimmed, st.Fill, st.Opacity*st.FillOpacity))
	}
	out = append(out, st.stroked(trimmed, st.Stroke))
	return out
}

func (st State) stroked(pts []geom.Vec2, c colorful.Color) Path {
	return Path{
		Points:      pts,
		Stroke:      true,
		StrokeColor: c,
		StrokeAlpha: st.Opacity,
		Width:       st.StrokeWidth,
	}
}

func (st State) filled(pts []geom.Vec2, c colorful.Color, alpha float64) Path {
	return Path{
		Points:    pts,
		Closed:    true,
		Fill:      true,
		FillColor: c,
		FillAlpha: alpha,
	}
}
