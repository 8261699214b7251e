package mobject

import (
	"image"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/maquette/internal/geom"
)

func TestCircleDrawing(t *testing.T) {
	m := NewCircle(30).At(geom.V(-200, 0)).WithFill(colorful.Color{B: 1}, 0.3)

	d := m.Drawing()
	require.Len(t, d.Paths, 2)
	fill, stroke := d.Paths[0], d.Paths[1]
	assert.True(t, fill.Fill)
	assert.InDelta(t, 0.3, fill.FillAlpha, 1e-12)
	assert.True(t, stroke.Stroke)
	assert.Len(t, stroke.Points, circleSegments+1)
	assert.InDelta(t, -170, stroke.Points[0].X, 1e-9)
	assert.InDelta(t, 0, stroke.Points[0].Y, 1e-9)
}

func TestDrawFractionTrimsOutline(t *testing.T) {
	m := NewRectangle(10, 10)
	m.State.DrawFraction = 0.5

	d := m.Drawing()
	require.Len(t, d.Paths, 1)
	pts := d.Paths[0].Points
	assert.Equal(t, geom.V(-5, 5), pts[0])
	assert.Equal(t, geom.V(5, -5), pts[len(pts)-1])

	m.State.DrawFraction = 0
	assert.Empty(t, m.Drawing().Paths)
}

func TestTransformAppliesScaleAndRotation(t *testing.T) {
	m := NewLine(geom.V(0, 0), geom.V(20, 0))
	assert.Equal(t, geom.V(10, 0), m.State.Position)

	m.State.Scale = 2
	m.State.Rotation = math.Pi / 2
	pts := m.Drawing().Paths[0].Points
	assert.InDelta(t, 10, pts[0].X, 1e-9)
	assert.InDelta(t, -20, pts[0].Y, 1e-9)
	assert.InDelta(t, 10, pts[1].X, 1e-9)
	assert.InDelta(t, 20, pts[1].Y, 1e-9)
}

func TestHiddenDrawsNothing(t *testing.T) {
	assert.Empty(t, NewCircle(5).Hidden().Drawing().Paths)
}

func TestArrowHeadAppearsLate(t *testing.T) {
	m := NewArrow(geom.V(0, 0), geom.V(100, 0))
	m.State.DrawFraction = 0.5
	assert.Len(t, m.Drawing().Paths, 1)

	m.State.DrawFraction = 1
	d := m.Drawing()
	require.Len(t, d.Paths, 2)
	assert.True(t, d.Paths[1].Fill)
	assert.Equal(t, geom.V(100, 0), d.Paths[1].Points[0])
}

func TestAxes2DScreenMapping(t *testing.T) {
	a := DefaultAxes2D()
	center := geom.V(10, -20)
	s := a.ToScreen(center, geom.V(1, 2))
	assert.Equal(t, geom.V(60, 80), s)
	assert.Equal(t, geom.V(1, 2), a.FromScreen(center, s))

	d := NewAxes2D(a).Drawing()
	// two axes plus 10 x ticks and 6 y ticks
	assert.Len(t, d.Paths, 2+10+6)
}

func TestAxes3DProjection(t *testing.T) {
	a := DefaultAxes3D()
	p := a.Project(geom.Vec3{X: 1})
	assert.InDelta(t, 0.866*50, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)

	p = a.Project(geom.Vec3{Y: 1})
	assert.InDelta(t, -0.5*50, p.X, 1e-9)
	assert.InDelta(t, 0.866*50, p.Y, 1e-9)

	d := NewAxes3D(a).Drawing()
	require.Len(t, d.Paths, 3)
	assert.Equal(t, axisRed, d.Paths[0].StrokeColor)
	assert.Equal(t, axisBlue, d.Paths[2].StrokeColor)
}

func TestScatterPartialReveal(t *testing.T) {
	s := Scatter{Points: []geom.Vec2{{}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}, Radius: 3, Marker: MarkerSquare}
	m := NewScatter(s)
	m.State.DrawFraction = 0.5
	assert.Len(t, m.Drawing().Paths, 3)

	s.Marker = MarkerCross
	m = NewScatter(s)
	assert.Len(t, m.Drawing().Paths, 10)

	_, err := ParseMarker("star")
	assert.Error(t, err)
}

func TestSampleFunction(t *testing.T) {
	pts := SampleFunction(math.Sin, 0, math.Pi, 3, 10)
	require.Len(t, pts, 3)
	assert.InDelta(t, 10, pts[1].Y, 1e-9)

	pts = SampleFunction(math.Log, -1, 1, 3, 1)
	assert.Len(t, pts, 1)
}

func TestImageAndQRCode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	m := NewImage(img, 50).At(geom.V(5, 5))
	d := m.Drawing()
	require.Len(t, d.Bitmaps, 1)
	assert.Equal(t, geom.V(50, 25), d.Bitmaps[0].Size)
	assert.Equal(t, geom.V(5, 5), d.Bitmaps[0].Center)

	q, err := NewQRCode("https://example.com", 3)
	require.NoError(t, err)
	assert.Equal(t, KindQRCode, q.Kind())
	full := len(q.Drawing().Paths)
	assert.Greater(t, full, 10)

	q.State.DrawFraction = 0.3
	assert.Less(t, len(q.Drawing().Paths), full)
}
