package mobject

import (
	"math"

	"github.com/ivlev/maquette/internal/geom"
)

// Kind names the closed set of shape variants.
type Kind int

const (
	KindCircle Kind = iota + 1
	KindLine
	KindRectangle
	KindArrow
	KindAxes2D
	KindAxes3D
	KindCurve
	KindScatter
	KindImage
	KindQRCode
)

var kindNames = map[Kind]string{
	KindCircle:    "circle",
	KindLine:      "line",
	KindRectangle: "rectangle",
	KindArrow:     "arrow",
	KindAxes2D:    "axes2d",
	KindAxes3D:    "axes3d",
	KindCurve:     "curve",
	KindScatter:   "scatter",
	KindImage:     "image",
	KindQRCode:    "qrcode",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Shape is the geometry of a mobject in local space: centered on the
// mobject position, unscaled and unrotated. The set of implementations is
// closed to this package.
type Shape interface {
	Kind() Kind
	draw(st State) Drawing
}

const circleSegments = 64

// Circle is outlined with 64 segments starting at angle 0, counter-clockwise.
type Circle struct {
	Radius float64
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) draw(st State) Drawing {
	return Drawing{Paths: st.outlined(regularPolygon(c.Radius, circleSegments, 0), true)}
}

// Line runs between two local endpoints.
type Line struct {
	From, To geom.Vec2
}

func (Line) Kind() Kind { return KindLine }

func (l Line) draw(st State) Drawing {
	return Drawing{Paths: st.outlined([]geom.Vec2{l.From, l.To}, false)}
}

// Rectangle is walked clockwise from its top-left corner.
type Rectangle struct {
	Width, Height float64
}

func (Rectangle) Kind() Kind { return KindRectangle }

func (r Rectangle) draw(st State) Drawing {
	w, h := r.Width/2, r.Height/2
	corners := []geom.Vec2{{X: -w, Y: h}, {X: w, Y: h}, {X: w, Y: -h}, {X: -w, Y: -h}}
	return Drawing{Paths: st.outlined(corners, true)}
}

// Arrow is a line with a filled head. The head appears once the shaft is
// more than 90% drawn.
type Arrow struct {
	From, To geom.Vec2
	TipSize  float64
}

func (Arrow) Kind() Kind { return KindArrow }

func (a Arrow) draw(st State) Drawing {
	d := Drawing{Paths: st.outlined([]geom.Vec2{a.From, a.To}, false)}
	if st.DrawFraction <= 0.9 {
		return d
	}
	shaft := a.To.Sub(a.From)
	length := shaft.Len()
	if length == 0 || a.TipSize <= 0 {
		return d
	}
	dir := shaft.Scale(1 / length)
	perp := geom.Vec2{X: -dir.Y, Y: dir.X}
	tip := geom.LerpVec(a.From, a.To, math.Min(st.DrawFraction, 1))
	back := tip.Sub(dir.Scale(a.TipSize))
	head := []geom.Vec2{
		tip,
		back.Add(perp.Scale(a.TipSize / 2)),
		back.Sub(perp.Scale(a.TipSize / 2)),
	}
	d.Paths = append(d.Paths, st.filled(head, st.Stroke, st.Opacity))
	return d
}

// Curve is an open polyline through local points.
type Curve struct {
	Points []geom.Vec2
}

func (Curve) Kind() Kind { return KindCurve }

func (c Curve) draw(st State) Drawing {
	return Drawing{Paths: st.outlined(c.Points, false)}
}

// SampleFunction evaluates f at samples evenly spaced x in [xmin, xmax] and
// scales the data points by unit. Non-finite values are skipped.
func SampleFunction(f func(float64) float64, xmin, xmax float64, samples int, unit float64) []geom.Vec2 {
	if samples < 2 {
		samples = 2
	}
	pts := make([]geom.Vec2, 0, samples)
	for i := 0; i < samples; i++ {
		x := geom.Lerp(xmin, xmax, float64(i)/float64(samples-1))
		y := f(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, geom.Vec2{X: x * unit, Y: y * unit})
	}
	return pts
}

func regularPolygon(radius float64, n int, phase float64) []geom.Vec2 {
	pts := make([]geom.Vec2, n)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		pts[i] = geom.Vec2{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}
