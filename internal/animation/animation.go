// Package animation describes how a single mobject attribute evolves over
// normalized progress.
package animation

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/maquette/internal/easing"
	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/mobject"
)

// ErrInvalidDuration is returned for durations that are not finite and positive.
var ErrInvalidDuration = errors.New("invalid animation duration")

// DefaultDuration is one second.
const DefaultDuration = 1.0

// Kind is the closed set of animation variants.
type Kind int

const (
	KindFadeIn Kind = iota + 1
	KindFadeOut
	KindCreate
	KindUncreate
	KindMoveTo
	KindShift
	KindScale
	KindRotate
	KindRecolor
)

var kindNames = map[Kind]string{
	KindFadeIn:   "fade_in",
	KindFadeOut:  "fade_out",
	KindCreate:   "create",
	KindUncreate: "uncreate",
	KindMoveTo:   "move_to",
	KindShift:    "shift",
	KindScale:    "scale",
	KindRotate:   "rotate",
	KindRecolor:  "recolor",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown animation %q", name)
}

// Animation is an immutable request to animate one mobject. Build it with
// the constructors and adjust it with the With methods.
type Animation struct {
	Target   mobject.ID
	Kind     Kind
	Duration float64
	Easing   easing.Easing

	Opacity float64        // FadeIn target opacity
	Point   geom.Vec2      // MoveTo destination, Shift offset
	Factor  float64        // Scale multiplier
	Angle   float64        // Rotate, radians
	Color   colorful.Color // Recolor stroke target
}

func newAnimation(target mobject.ID, kind Kind) Animation {
	return Animation{
		Target:   target,
		Kind:     kind,
		Duration: DefaultDuration,
		Easing:   easing.Smooth,
	}
}

// FadeIn raises opacity from 0 to 1.
func FadeIn(target mobject.ID) Animation {
	a := newAnimation(target, KindFadeIn)
	a.Opacity = 1
	return a
}

// FadeOut lowers opacity from its current value to 0.
func FadeOut(target mobject.ID) Animation {
	return newAnimation(target, KindFadeOut)
}

// Create draws the outline progressively.
func Create(target mobject.ID) Animation {
	return newAnimation(target, KindCreate)
}

// Uncreate erases the outline progressively.
func Uncreate(target mobject.ID) Animation {
	return newAnimation(target, KindUncreate)
}

// MoveTo moves the mobject center to dest.
func MoveTo(target mobject.ID, dest geom.Vec2) Animation {
	a := newAnimation(target, KindMoveTo)
	a.Point = dest
	return a
}

// Shift moves the mobject by delta relative to where it starts.
func Shift(target mobject.ID, delta geom.Vec2) Animation {
	a := newAnimation(target, KindShift)
	a.Point = delta
	return a
}

// Scale multiplies the current scale by factor.
func Scale(target mobject.ID, factor float64) Animation {
	a := newAnimation(target, KindScale)
	a.Factor = factor
	return a
}

// Rotate turns the mobject counter-clockwise by angle radians.
func Rotate(target mobject.ID, angle float64) Animation {
	a := newAnimation(target, KindRotate)
	a.Angle = angle
	return a
}

// RotateDegrees is Rotate with the angle in degrees.
func RotateDegrees(target mobject.ID, degrees float64) Animation {
	return Rotate(target, degrees*math.Pi/180)
}

// Recolor blends the stroke color toward c in Lab space.
func Recolor(target mobject.ID, c colorful.Color) Animation {
	a := newAnimation(target, KindRecolor)
	a.Color = c
	return a
}

func (a Animation) WithDuration(seconds float64) Animation {
	a.Duration = seconds
	return a
}

func (a Animation) WithEasing(e easing.Easing) Animation {
	a.Easing = e
	return a
}

// WithOpacity sets the opacity a FadeIn settles at.
func (a Animation) WithOpacity(o float64) Animation {
	a.Opacity = o
	return a
}

// Validate checks the duration.
func (a Animation) Validate() error {
	if !(a.Duration > 0) || math.IsInf(a.Duration, 0) {
		return fmt.Errorf("%s on %s: %v: %w", a.Kind, a.Target, a.Duration, ErrInvalidDuration)
	}
	return nil
}

// Apply writes the attributes owned by the animation kind into dst for
// progress p in [0,1], reading the starting values from initial. Attributes
// the kind does not own are left untouched.
func (a Animation) Apply(initial mobject.State, p float64, dst *mobject.State) {
	e := a.Easing.Apply(p)
	switch a.Kind {
	case KindFadeIn:
		dst.Opacity = e * a.Opacity
	case KindFadeOut:
		dst.Opacity = (1 - e) * initial.Opacity
	case KindCreate:
		dst.DrawFraction = e
	case KindUncreate:
		dst.DrawFraction = 1 - e
	case KindMoveTo:
		dst.Position = geom.LerpVec(initial.Position, a.Point, e)
	case KindShift:
		dst.Position = initial.Position.Add(a.Point.Scale(e))
	case KindScale:
		dst.Scale = geom.Lerp(initial.Scale, initial.Scale*a.Factor, e)
	case KindRotate:
		dst.Rotation = initial.Rotation + a.Angle*e
	case KindRecolor:
		switch e {
		case 0:
			dst.Stroke = initial.Stroke
		case 1:
			dst.Stroke = a.Color
		default:
			dst.Stroke = initial.Stroke.BlendLab(a.Color, e)
		}
	}
}

func (a Animation) String() string {
	return fmt.Sprintf("%s(%s, %.3gs, %s)", a.Kind, a.Target, a.Duration, a.Easing)
}
