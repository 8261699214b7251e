// Package mobject defines the drawable scene objects, their animatable
// state and the registry that owns them.
package mobject

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/maquette/internal/geom"
)

// Mobject is a shape plus its current draw-state.
type Mobject struct {
	Name  string
	Shape Shape
	State State
}

// New wraps a shape with DefaultState.
func New(shape Shape) Mobject {
	return Mobject{Shape: shape, State: DefaultState()}
}

func NewCircle(radius float64) Mobject {
	return New(Circle{Radius: radius})
}

// NewLine centers the line on the midpoint of start and end.
func NewLine(start, end geom.Vec2) Mobject {
	mid := geom.LerpVec(start, end, 0.5)
	m := New(Line{From: start.Sub(mid), To: end.Sub(mid)})
	m.State.Position = mid
	return m
}

func NewRectangle(width, height float64) Mobject {
	return New(Rectangle{Width: width, Height: height})
}

// NewArrow behaves like NewLine with a 10 unit head.
func NewArrow(start, end geom.Vec2) Mobject {
	mid := geom.LerpVec(start, end, 0.5)
	m := New(Arrow{From: start.Sub(mid), To: end.Sub(mid), TipSize: 10})
	m.State.Position = mid
	return m
}

func NewAxes2D(a Axes2D) Mobject {
	return New(a)
}

func NewAxes3D(a Axes3D) Mobject {
	return New(a)
}

// NewCurve uses the curve defaults: light red, 2.5 wide.
func NewCurve(points []geom.Vec2) Mobject {
	m := New(Curve{Points: points})
	m.State.Stroke = colorful.Color{R: 1, G: 0.4, B: 0.4}
	m.State.StrokeWidth = 2.5
	return m
}

func NewScatter(s Scatter) Mobject {
	return New(s)
}

// NewImage sizes the bitmap to width scene units keeping its aspect ratio.
func NewImage(img image.Image, width float64) Mobject {
	b := img.Bounds()
	height := width
	if b.Dx() > 0 {
		height = width * float64(b.Dy()) / float64(b.Dx())
	}
	return New(Image{Source: img, Width: width, Height: height})
}

func (m Mobject) Kind() Kind {
	if m.Shape == nil {
		return 0
	}
	return m.Shape.Kind()
}

func (m Mobject) Named(name string) Mobject {
	m.Name = name
	return m
}

func (m Mobject) At(p geom.Vec2) Mobject {
	m.State.Position = p
	return m
}

func (m Mobject) WithStroke(c colorful.Color) Mobject {
	m.State.Stroke = c
	return m
}

func (m Mobject) WithStrokeWidth(w float64) Mobject {
	m.State.StrokeWidth = w
	return m
}

func (m Mobject) WithFill(c colorful.Color, opacity float64) Mobject {
	m.State.Fill = c
	m.State.FillOpacity = opacity
	return m
}

func (m Mobject) WithOpacity(o float64) Mobject {
	m.State.Opacity = o
	return m
}

// Hidden starts the mobject fully transparent, ready for a FadeIn.
func (m Mobject) Hidden() Mobject {
	m.State.Opacity = 0
	return m
}

// Undrawn starts the mobject with nothing drawn, ready for a Create.
func (m Mobject) Undrawn() Mobject {
	m.State.DrawFraction = 0
	return m
}

// Drawing returns the scene-space geometry for the current state. Scale and
// Rotation are applied around Position.
func (m Mobject) Drawing() Drawing {
	if m.Shape == nil || m.State.Opacity <= 0 {
		return Drawing{}
	}
	st := m.State
	local := m.Shape.draw(st)

	toScene := func(p geom.Vec2) geom.Vec2 {
		return st.Position.Add(p.Scale(st.Scale).Rotate(st.Rotation))
	}

	var out Drawing
	for _, p := range local.Paths {
		pts := make([]geom.Vec2, len(p.Points))
		for i, v := range p.Points {
			pts[i] = toScene(v)
		}
		p.Points = pts
		out.Paths = append(out.Paths, p)
	}
	for _, b := range local.Bitmaps {
		b.Center = toScene(b.Center)
		b.Size = b.Size.Scale(st.Scale)
		b.Rotation += st.Rotation
		out.Bitmaps = append(out.Bitmaps, b)
	}
	for _, l := range local.Labels {
		l.At = toScene(l.At)
		out.Labels = append(out.Labels, l)
	}
	return out
}
