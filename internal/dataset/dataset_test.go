package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGAM(t *testing.T) {
	d := GAM(7)
	assert.Equal(t, 50, d.Len())
	for _, p := range d.Points {
		assert.True(t, p.X >= -2.5 && p.X <= 2.5)
		base := math.Sin(p.X) + math.Cos(p.Y/1.2) + 0.5
		assert.InDelta(t, base, p.Z, 0.3+1e-9)
	}
	assert.Equal(t, d, GAM(7), "same seed, same data")
	assert.NotEqual(t, d, GAM(8))
}

func TestLinear(t *testing.T) {
	d := Linear(20, 2, -1, 0.5, 1)
	assert.Equal(t, 20, d.Len())
	for _, p := range d.Points {
		assert.InDelta(t, 2*p.X-1, p.Y, 0.5+1e-9)
		assert.Zero(t, p.Z)
	}
	assert.Equal(t, 0, Linear(-3, 1, 0, 0, 1).Len())
}

func TestClusters(t *testing.T) {
	d := Clusters(3, 4, 0.2, 42)
	assert.Equal(t, 12, d.Len())
	for i, p := range d.Points {
		id := float64(i / 4)
		assert.Equal(t, id, p.Z)
		angle := id / 3 * 2 * math.Pi
		assert.InDelta(t, 2*math.Cos(angle), p.X, 0.2+1e-9)
		assert.InDelta(t, 2*math.Sin(angle), p.Y, 0.2+1e-9)
	}

	flat := d.As2D()
	assert.Len(t, flat, 12)
	assert.Equal(t, d.Points[5].X, flat[5].X)
}
