// Package dataset generates the small synthetic point clouds used by
// scatter plots and demo scenes. Every generator takes a seed so renders
// are reproducible.
package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/ivlev/maquette/internal/geom"
)

// Dataset is a list of data-space points. For clusters Z holds the cluster id.
type Dataset struct {
	Points []geom.Vec3
}

func (d Dataset) Len() int { return len(d.Points) }

// As2D drops Z.
func (d Dataset) As2D() []geom.Vec2 {
	out := make([]geom.Vec2, len(d.Points))
	for i, p := range d.Points {
		out[i] = geom.V(p.X, p.Y)
	}
	return out
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// GAM samples 50 points of z = sin(x) + cos(y/1.2) + 0.5 with ±0.3 noise
// over x, y in [-2.5, 2.5].
func GAM(seed uint64) Dataset {
	r := newRand(seed)
	pts := make([]geom.Vec3, 50)
	for i := range pts {
		x := uniform(r, -2.5, 2.5)
		y := uniform(r, -2.5, 2.5)
		z := math.Sin(x) + math.Cos(y/1.2) + 0.5 + uniform(r, -0.3, 0.3)
		pts[i] = geom.Vec3{X: x, Y: y, Z: z}
	}
	return Dataset{Points: pts}
}

// Linear samples y = slope*x + intercept ± noise for x in [-3, 3].
func Linear(n int, slope, intercept, noise float64, seed uint64) Dataset {
	r := newRand(seed)
	pts := make([]geom.Vec3, max(n, 0))
	for i := range pts {
		x := uniform(r, -3, 3)
		pts[i] = geom.Vec3{X: x, Y: slope*x + intercept + uniform(r, -noise, noise)}
	}
	return Dataset{Points: pts}
}

// Clusters places k clusters on a circle of radius 2 with perCluster points
// each, jittered by ±spread.
func Clusters(k, perCluster int, spread float64, seed uint64) Dataset {
	r := newRand(seed)
	var pts []geom.Vec3
	for i := 0; i < k; i++ {
		angle := float64(i) / float64(k) * 2 * math.Pi
		cx, cy := 2*math.Cos(angle), 2*math.Sin(angle)
		for j := 0; j < perCluster; j++ {
			pts = append(pts, geom.Vec3{
				X: cx + uniform(r, -spread, spread),
				Y: cy + uniform(r, -spread, spread),
				Z: float64(i),
			})
		}
	}
	return Dataset{Points: pts}
}
