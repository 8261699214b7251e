package render

import (
	"image"
	"math"

	"github.com/ivlev/maquette/internal/geom"
)

const joinSegments = 8

// strokePolygons outlines a polyline of half-width hw as one quad per
// segment plus a round join at every vertex.
func strokePolygons(pts []geom.Vec2, hw float64) [][]geom.Vec2 {
	if hw < 0.5 {
		hw = 0.5
	}
	var polys [][]geom.Vec2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue
		}
		n := geom.V(-d.Y/l*hw, d.X/l*hw)
		polys = append(polys, []geom.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
	}
	if hw >= 1 {
		for _, p := range pts {
			polys = append(polys, disc(p, hw))
		}
	}
	return polys
}

func disc(c geom.Vec2, r float64) []geom.Vec2 {
	out := make([]geom.Vec2, joinSegments)
	for i := range out {
		a := 2 * math.Pi * float64(i) / joinSegments
		out[i] = geom.V(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return out
}

func signedArea(poly []geom.Vec2) float64 {
	s := 0.0
	for i := range poly {
		j := (i + 1) % len(poly)
		s += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return s / 2
}

func reversed(poly []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(poly))
	for i, p := range poly {
		out[len(poly)-1-i] = p
	}
	return out
}

// boundsOf returns the pixel rectangle covering every point.
func boundsOf(polys [][]geom.Vec2) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, p := range poly {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 0) {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}
