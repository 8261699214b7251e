package easing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointsAreExact(t *testing.T) {
	for _, e := range All() {
		t.Run(e.String(), func(t *testing.T) {
			assert.InDelta(t, 0, e.Apply(0), 1e-6)
			assert.InDelta(t, 1, e.Apply(1), 1e-6)
			assert.Equal(t, 0.0, e.Apply(-3))
			assert.Equal(t, 1.0, e.Apply(7))
			assert.Equal(t, 0.0, e.Apply(math.NaN()))
		})
	}
}

func TestCatalogFormulas(t *testing.T) {
	const c1 = 1.70158
	const c3 = c1 + 1

	bounce := func(x float64) float64 {
		const n1, d1 = 7.5625, 2.75
		switch {
		case x < 1/d1:
			return n1 * x * x
		case x < 2/d1:
			x -= 1.5 / d1
			return n1*x*x + 0.75
		case x < 2.5/d1:
			x -= 2.25 / d1
			return n1*x*x + 0.9375
		default:
			x -= 2.625 / d1
			return n1*x*x + 0.984375
		}
	}

	tests := []struct {
		easing Easing
		want   func(float64) float64
	}{
		{Linear, func(x float64) float64 { return x }},
		{Smooth, func(x float64) float64 { return 3*x*x - 2*x*x*x }},
		{EaseInQuad, func(x float64) float64 { return x * x }},
		{EaseOutQuad, func(x float64) float64 { return 1 - (1-x)*(1-x) }},
		{EaseInOutQuad, func(x float64) float64 {
			if x < 0.5 {
				return 2 * x * x
			}
			return 1 - math.Pow(-2*x+2, 2)/2
		}},
		{EaseInCubic, func(x float64) float64 { return x * x * x }},
		{EaseOutCubic, func(x float64) float64 { return 1 - math.Pow(1-x, 3) }},
		{EaseInOutCubic, func(x float64) float64 {
			if x < 0.5 {
				return 4 * x * x * x
			}
			return 1 - math.Pow(-2*x+2, 3)/2
		}},
		{EaseInOutSine, func(x float64) float64 { return -(math.Cos(math.Pi*x) - 1) / 2 }},
		{EaseInExpo, func(x float64) float64 { return math.Pow(2, 10*x-10) }},
		{EaseOutExpo, func(x float64) float64 { return 1 - math.Pow(2, -10*x) }},
		{EaseOutBack, func(x float64) float64 { return 1 + c3*math.Pow(x-1, 3) + c1*math.Pow(x-1, 2) }},
		{EaseOutBounce, bounce},
	}

	for _, tt := range tests {
		t.Run(tt.easing.String(), func(t *testing.T) {
			for _, x := range []float64{0.05, 0.2, 0.33, 0.5, 0.61, 0.8, 0.95} {
				assert.InDelta(t, tt.want(x), tt.easing.Apply(x), 1e-6, "t=%v", x)
			}
		})
	}
}

func TestSmoothMidpoint(t *testing.T) {
	assert.InDelta(t, 0.5, Smooth.Apply(0.5), 1e-12)
	assert.Equal(t, Smooth, Easing(0))
}

func TestEaseOutBackOvershoots(t *testing.T) {
	peak := 0.0
	for i := 1; i < 100; i++ {
		peak = math.Max(peak, EaseOutBack.Apply(float64(i)/100))
	}
	assert.Greater(t, peak, 1.0)
}

func TestParse(t *testing.T) {
	for _, e := range All() {
		got, err := Parse(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	got, err := Parse("Out-Back")
	require.NoError(t, err)
	assert.Equal(t, EaseOutBack, got)

	got, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Smooth, got)

	_, err = Parse("wobble")
	assert.Error(t, err)
}
