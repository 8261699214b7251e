package scene

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/maquette/internal/animation"
	"github.com/ivlev/maquette/internal/easing"
	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/mobject"
	"github.com/ivlev/maquette/internal/timeline"
)

func TestFluentChain(t *testing.T) {
	s := New()
	axes := s.Add(mobject.NewAxes2D(mobject.DefaultAxes2D()).Hidden())
	circle := s.Add(mobject.NewCircle(30).At(geom.V(-200, 0)).Hidden())

	s.Play(animation.FadeIn(axes)).
		Wait(0.2).
		Play(animation.FadeIn(circle).WithDuration(0.5)).
		Wait(0.3).
		Play(animation.MoveTo(circle, geom.V(200, 100)).WithDuration(1.5).WithEasing(easing.EaseInOutCubic))
	require.NoError(t, s.Err())
	assert.InDelta(t, 3.5, s.Duration(), 1e-12)

	frame, err := s.RenderFrame(s.Duration())
	require.NoError(t, err)
	require.Len(t, frame.Items, 2)
	assert.Equal(t, axes, frame.Items[0].ID)
	assert.Equal(t, circle, frame.Items[1].ID)
	assert.Equal(t, geom.V(200, 100), frame.Items[1].Mobject.State.Position)
	assert.Equal(t, 1.0, frame.Items[1].Mobject.State.Opacity)

	start, err := s.RenderFrame(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, start.Items[1].Mobject.State.Opacity)

	// stored state stays untouched
	m, err := s.Get(circle)
	require.NoError(t, err)
	assert.Equal(t, geom.V(-200, 0), m.State.Position)
}

func TestStickyError(t *testing.T) {
	s := New()
	id := s.Add(mobject.NewCircle(1))

	s.Play(animation.FadeIn(id).WithDuration(-1)).
		Wait(1).
		Play(animation.FadeOut(id))
	assert.ErrorIs(t, s.Err(), animation.ErrInvalidDuration)
	assert.Equal(t, 0, s.Timeline().Len())
	assert.Equal(t, 0.0, s.Timeline().Cursor())

	s2 := New()
	s2.Wait(-1)
	assert.ErrorIs(t, s2.Err(), timeline.ErrInvalidWait)
}

func TestRemovedTargetFailsAtRender(t *testing.T) {
	s := New()
	id := s.Add(mobject.NewCircle(1))
	require.NoError(t, s.Remove(id))

	s.Play(animation.FadeIn(id))
	require.NoError(t, s.Err())

	_, err := s.RenderFrame(0.5)
	assert.ErrorIs(t, err, timeline.ErrUnknownTarget)
	assert.ErrorIs(t, s.Remove(id), mobject.ErrNotFound)
}

func TestUnanimatedMobjectKeepsStoredState(t *testing.T) {
	s := New(WithBackground(colorful.Color{R: 0.1, G: 0.1, B: 0.1}))
	id := s.Add(mobject.NewRectangle(10, 10).At(geom.V(3, 3)))

	frame, err := s.RenderFrame(5)
	require.NoError(t, err)
	require.Len(t, frame.Items, 1)
	assert.Equal(t, id, frame.Items[0].ID)
	assert.Equal(t, geom.V(3, 3), frame.Items[0].Mobject.State.Position)
	assert.Equal(t, colorful.Color{R: 0.1, G: 0.1, B: 0.1}, frame.Background)
	assert.Equal(t, DefaultCamera(), frame.Camera)
}

func TestInterpolateCamera(t *testing.T) {
	keyframes := []CameraKeyframe{
		{Time: 0, Zoom: 1},
		{Time: 2, Position: geom.V(100, 100), Zoom: 1.5, Easing: easing.EaseInOutCubic},
		{Time: 4, Position: geom.V(200, 200), Zoom: 2, Easing: easing.Linear},
	}

	tests := []struct {
		time float64
		zoom float64
	}{
		{-1, 1},
		{0, 1},
		{1, 1.25},
		{2, 1.5},
		{3, 1.75},
		{4, 2},
		{5, 2},
	}
	for _, tt := range tests {
		cam := InterpolateCamera(keyframes, tt.time, DefaultCamera())
		assert.InDelta(t, tt.zoom, cam.Zoom, 1e-9, "t=%v", tt.time)
	}

	assert.Equal(t, Camera{Zoom: 3}, InterpolateCamera(nil, 1, Camera{Zoom: 3}))
}

func TestCameraPathExtendsDuration(t *testing.T) {
	s := New()
	id := s.Add(mobject.NewCircle(1))
	s.Play(animation.Create(id))
	s.AnimateCamera(
		CameraKeyframe{Time: 3, Zoom: 2},
		CameraKeyframe{Time: 0, Zoom: 1},
	)
	assert.Equal(t, 3.0, s.Duration())
	assert.InDelta(t, 1.5, s.CameraAt(1.5).Zoom, 1e-9)
}
