package mobject

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/maquette/internal/geom"
)

// Marker is the glyph drawn for each scatter point.
type Marker int

const (
	MarkerCircle Marker = iota
	MarkerSquare
	MarkerDiamond
	MarkerCross
)

// ParseMarker accepts circle, square, diamond and cross.
func ParseMarker(name string) (Marker, error) {
	switch strings.ToLower(name) {
	case "", "circle":
		return MarkerCircle, nil
	case "square":
		return MarkerSquare, nil
	case "diamond":
		return MarkerDiamond, nil
	case "cross":
		return MarkerCross, nil
	default:
		return MarkerCircle, fmt.Errorf("unknown marker %q", name)
	}
}

// Scatter draws one marker per point. Partial draw reveals the first
// ceil(n*fraction) points in order.
type Scatter struct {
	Points []geom.Vec2
	Radius float64
	Marker Marker
	Colors []colorful.Color // per point, falls back to the stroke color
}

func (Scatter) Kind() Kind { return KindScatter }

func (s Scatter) draw(st State) Drawing {
	var d Drawing
	n := int(math.Ceil(float64(len(s.Points)) * math.Min(st.DrawFraction, 1)))
	r := s.Radius
	if r <= 0 {
		r = 4
	}
	for i := 0; i < n; i++ {
		p := s.Points[i]
		c := st.Stroke
		if i < len(s.Colors) {
			c = s.Colors[i]
		}
		switch s.Marker {
		case MarkerCross:
			d.Paths = append(d.Paths,
				st.stroked([]geom.Vec2{p.Add(geom.V(-r, -r)), p.Add(geom.V(r, r))}, c),
				st.stroked([]geom.Vec2{p.Add(geom.V(-r, r)), p.Add(geom.V(r, -r))}, c),
			)
		default:
			d.Paths = append(d.Paths, st.filled(s.Marker.outline(p, r), c, st.Opacity))
		}
	}
	return d
}

func (m Marker) outline(p geom.Vec2, r float64) []geom.Vec2 {
	var pts []geom.Vec2
	switch m {
	case MarkerSquare:
		pts = regularPolygon(r*math.Sqrt2, 4, math.Pi/4)
	case MarkerDiamond:
		pts = regularPolygon(r*1.3, 4, 0)
	default:
		pts = regularPolygon(r, 16, 0)
	}
	for i := range pts {
		pts[i] = pts[i].Add(p)
	}
	return pts
}
