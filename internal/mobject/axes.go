package mobject

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/maquette/internal/geom"
)

// Range is a closed data interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) span() float64 { return r.Max - r.Min }

// Axes2D draws x/y axes through the data origin. Data units are converted
// to scene units by Unit.
type Axes2D struct {
	X, Y        Range
	Unit        float64
	Ticks       bool
	TickSpacing float64
	TickSize    float64
	Labels      bool
}

// DefaultAxes2D matches x in [-5,5], y in [-3,3], 50 px per unit, ticks every unit.
func DefaultAxes2D() Axes2D {
	return Axes2D{
		X:           Range{-5, 5},
		Y:           Range{-3, 3},
		Unit:        50,
		Ticks:       true,
		TickSpacing: 1,
		TickSize:    5,
	}
}

func (Axes2D) Kind() Kind { return KindAxes2D }

// ToScreen maps a data point to scene space for axes whose origin sits at center.
func (a Axes2D) ToScreen(center, p geom.Vec2) geom.Vec2 {
	return center.Add(p.Scale(a.Unit))
}

// FromScreen is the inverse of ToScreen.
func (a Axes2D) FromScreen(center, s geom.Vec2) geom.Vec2 {
	if a.Unit == 0 {
		return geom.Vec2{}
	}
	return s.Sub(center).Scale(1 / a.Unit)
}

func (a Axes2D) draw(st State) Drawing {
	var d Drawing
	u := a.Unit
	d.Paths = append(d.Paths, st.outlined([]geom.Vec2{{X: a.X.Min * u}, {X: a.X.Max * u}}, false)...)
	d.Paths = append(d.Paths, st.outlined([]geom.Vec2{{Y: a.Y.Min * u}, {Y: a.Y.Max * u}}, false)...)
	if !a.Ticks || a.TickSpacing <= 0 {
		return d
	}

	half := a.TickSize / 2
	for _, x := range tickValues(a.X, a.TickSpacing) {
		if (x-a.X.Min)/a.X.span() > st.DrawFraction {
			continue
		}
		tick := []geom.Vec2{{X: x * u, Y: -half}, {X: x * u, Y: half}}
		d.Paths = append(d.Paths, st.stroked(tick, st.Stroke))
		if a.Labels {
			d.Labels = append(d.Labels, Label{Text: formatTick(x), At: geom.Vec2{X: x*u - 3, Y: -half - 14}, Color: st.Stroke, Alpha: st.Opacity})
		}
	}
	for _, y := range tickValues(a.Y, a.TickSpacing) {
		if (y-a.Y.Min)/a.Y.span() > st.DrawFraction {
			continue
		}
		tick := []geom.Vec2{{X: -half, Y: y * u}, {X: half, Y: y * u}}
		d.Paths = append(d.Paths, st.stroked(tick, st.Stroke))
		if a.Labels {
			d.Labels = append(d.Labels, Label{Text: formatTick(y), At: geom.Vec2{X: half + 4, Y: y*u - 4}, Color: st.Stroke, Alpha: st.Opacity})
		}
	}
	return d
}

// tickValues lists multiples of spacing inside r, skipping the origin.
func tickValues(r Range, spacing float64) []float64 {
	if r.span() <= 0 {
		return nil
	}
	var out []float64
	for k := math.Ceil(r.Min / spacing); k*spacing <= r.Max+1e-9; k++ {
		v := k * spacing
		if math.Abs(v) < 1e-9 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

var (
	axisRed   = colorful.Color{R: 0.9, G: 0.3, B: 0.3}
	axisGreen = colorful.Color{R: 0.3, G: 0.9, B: 0.3}
	axisBlue  = colorful.Color{R: 0.3, G: 0.5, B: 1.0}
)

// Axes3D draws three axes under a fixed isometric projection rotated by Yaw
// around the vertical axis.
type Axes3D struct {
	X, Y, Z Range
	Unit    float64
	Yaw     float64
}

// DefaultAxes3D matches x,y in [-3,3], z in [-2,2], 50 px per unit.
func DefaultAxes3D() Axes3D {
	return Axes3D{X: Range{-3, 3}, Y: Range{-3, 3}, Z: Range{-2, 2}, Unit: 50}
}

func (Axes3D) Kind() Kind { return KindAxes3D }

// Project maps a data point to local scene space.
func (a Axes3D) Project(p geom.Vec3) geom.Vec2 {
	s, c := math.Sincos(a.Yaw)
	xr := p.X*c - p.Z*s
	zr := p.X*s + p.Z*c
	v := geom.Vec2{
		X: xr*0.866 - p.Y*0.5,
		Y: zr*0.5 + p.Y*0.866,
	}
	return v.Scale(a.Unit)
}

// ToScreen projects p for axes whose origin sits at center.
func (a Axes3D) ToScreen(center geom.Vec2, p geom.Vec3) geom.Vec2 {
	return center.Add(a.Project(p))
}

func (a Axes3D) draw(st State) Drawing {
	axes := []struct {
		from, to geom.Vec3
		color    colorful.Color
	}{
		{geom.Vec3{X: a.X.Min}, geom.Vec3{X: a.X.Max}, axisRed},
		{geom.Vec3{Y: a.Y.Min}, geom.Vec3{Y: a.Y.Max}, axisGreen},
		{geom.Vec3{Z: a.Z.Min}, geom.Vec3{Z: a.Z.Max}, axisBlue},
	}
	var d Drawing
	for _, ax := range axes {
		pts := geom.Trim([]geom.Vec2{a.Project(ax.from), a.Project(ax.to)}, false, st.DrawFraction)
		if len(pts) < 2 {
			continue
		}
		d.Paths = append(d.Paths, st.stroked(pts, ax.color))
	}
	return d
}
