// Package geom holds the small 2D/3D vector types shared by shapes,
// animations and the rasterizer. Scene units are pixels, y points up.
package geom

import "math"

// Vec2 is a point or offset in scene space.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec3 is a data-space point used by Axes3D and the sample datasets.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rotate turns v counter-clockwise by angle radians around the origin.
func (v Vec2) Rotate(angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	s, c := math.Sincos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Lerp returns a when t == 0 and exactly b when t == 1.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// LerpVec interpolates component-wise, see Lerp.
func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// PathLength returns the polyline length, including the closing segment
// when closed is set.
func PathLength(pts []Vec2, closed bool) float64 {
	if len(pts) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Sub(pts[i-1]).Len()
	}
	if closed {
		total += pts[0].Sub(pts[len(pts)-1]).Len()
	}
	return total
}

// Trim returns the prefix of the polyline covering fraction of its arc
// length. A closed path is opened at its first point; at fraction >= 1 the
// closing segment is kept as an explicit last point.
func Trim(pts []Vec2, closed bool, fraction float64) []Vec2 {
	if len(pts) == 0 || fraction <= 0 {
		return nil
	}
	path := pts
	if closed {
		path = make([]Vec2, len(pts)+1)
		copy(path, pts)
		path[len(pts)] = pts[0]
	}
	if fraction >= 1 {
		out := make([]Vec2, len(path))
		copy(out, path)
		return out
	}

	budget := PathLength(path, false) * fraction
	out := []Vec2{path[0]}
	for i := 1; i < len(path); i++ {
		seg := path[i].Sub(path[i-1])
		l := seg.Len()
		if l >= budget {
			if l > 0 {
				out = append(out, path[i-1].Add(seg.Scale(budget/l)))
			}
			return out
		}
		budget -= l
		out = append(out, path[i])
	}
	return out
}
