// Package scene is the user-facing facade: it owns the mobjects and the
// timeline and produces render-ready frames.
package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/maquette/internal/animation"
	"github.com/ivlev/maquette/internal/mobject"
	"github.com/ivlev/maquette/internal/timeline"
)

// Item is one mobject as it looks in a frame.
type Item struct {
	ID      mobject.ID
	Mobject mobject.Mobject
}

// Frame is everything the rasterizer needs for one moment. Items are in
// draw order: later items are drawn on top.
type Frame struct {
	Time       float64
	Duration   float64
	Background colorful.Color
	Camera     Camera
	Items      []Item
}

// Scene is not safe for concurrent mutation. RenderFrame and Duration only
// read and may be called from several goroutines once the scene is built.
type Scene struct {
	registry   *mobject.Registry
	timeline   *timeline.Timeline
	background colorful.Color
	camera     Camera
	cameraPath []CameraKeyframe
	err        error
}

type Option func(*Scene)

func WithBackground(c colorful.Color) Option {
	return func(s *Scene) { s.background = c }
}

func WithCamera(c Camera) Option {
	return func(s *Scene) { s.camera = c }
}

// New creates an empty scene with a black background and DefaultCamera.
func New(opts ...Option) *Scene {
	s := &Scene{
		registry: mobject.NewRegistry(),
		timeline: timeline.New(),
		camera:   DefaultCamera(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scene) Add(m mobject.Mobject) mobject.ID {
	return s.registry.Add(m)
}

func (s *Scene) Remove(id mobject.ID) error {
	return s.registry.Remove(id)
}

// Get returns the stored mobject; edits apply to every later frame.
func (s *Scene) Get(id mobject.ID) (*mobject.Mobject, error) {
	return s.registry.Get(id)
}

// Play schedules animations in parallel. After the first failed Play or
// Wait the scene ignores further scheduling; check Err when the chain ends.
func (s *Scene) Play(anims ...animation.Animation) *Scene {
	if s.err != nil {
		return s
	}
	if err := s.timeline.Play(anims...); err != nil {
		s.err = fmt.Errorf("play: %w", err)
	}
	return s
}

// Wait holds the current state; see Play for error handling.
func (s *Scene) Wait(seconds float64) *Scene {
	if s.err != nil {
		return s
	}
	if err := s.timeline.Wait(seconds); err != nil {
		s.err = fmt.Errorf("wait: %w", err)
	}
	return s
}

// Err returns the first scheduling error, if any.
func (s *Scene) Err() error { return s.err }

// Duration is the end of the last animation or camera keyframe.
func (s *Scene) Duration() float64 {
	d := s.timeline.Duration()
	if n := len(s.cameraPath); n > 0 && s.cameraPath[n-1].Time > d {
		d = s.cameraPath[n-1].Time
	}
	return d
}

func (s *Scene) Timeline() *timeline.Timeline { return s.timeline }

func (s *Scene) Len() int { return s.registry.Len() }

func (s *Scene) Background() colorful.Color { return s.background }

func (s *Scene) SetBackground(c colorful.Color) { s.background = c }

func (s *Scene) SetCamera(c Camera) { s.camera = c }

// AnimateCamera replaces the camera path.
func (s *Scene) AnimateCamera(keyframes ...CameraKeyframe) *Scene {
	path := make([]CameraKeyframe, len(keyframes))
	copy(path, keyframes)
	sortKeyframes(path)
	s.cameraPath = path
	return s
}

// CameraAt returns the camera at time t.
func (s *Scene) CameraAt(t float64) Camera {
	return InterpolateCamera(s.cameraPath, t, s.camera)
}

// RenderFrame resolves every mobject at time t. Mobjects never animated
// appear with their stored state.
func (s *Scene) RenderFrame(t float64) (Frame, error) {
	states, err := s.timeline.Evaluate(t, s.registry)
	if err != nil {
		return Frame{}, fmt.Errorf("frame at %.3fs: %w", t, err)
	}

	frame := Frame{
		Time:       t,
		Duration:   s.Duration(),
		Background: s.background,
		Camera:     s.CameraAt(t),
		Items:      make([]Item, 0, s.registry.Len()),
	}
	s.registry.Each(func(id mobject.ID, m *mobject.Mobject) bool {
		item := Item{ID: id, Mobject: *m}
		if st, ok := states[id]; ok {
			item.Mobject.State = st
		}
		frame.Items = append(frame.Items, item)
		return true
	})
	return frame, nil
}
