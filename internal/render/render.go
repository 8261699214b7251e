// Package render rasterizes scene frames into RGBA images.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/mobject"
	"github.com/ivlev/maquette/internal/scene"
	"github.com/ivlev/maquette/internal/system"
)

// Rasterizer turns frames into pixels. The scene origin is the frame center
// and y points up. It keeps no per-frame state, so one Rasterizer can serve
// several goroutines.
type Rasterizer struct {
	Width, Height int
	// HUD draws a progress bar and the current time at the bottom.
	HUD  bool
	Face font.Face
	Pool *system.ImagePool
}

func New(width, height int) *Rasterizer {
	return &Rasterizer{
		Width:  width,
		Height: height,
		Face:   basicfont.Face7x13,
		Pool:   system.NewImagePool(),
	}
}

func (r *Rasterizer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// Render draws frame into an image taken from the pool. Hand it back with
// Release when done.
func (r *Rasterizer) Render(frame scene.Frame) *image.RGBA {
	dst := r.Pool.Get(r.Bounds())
	r.RenderInto(dst, frame)
	return dst
}

func (r *Rasterizer) Release(img *image.RGBA) {
	r.Pool.Put(img)
}

// RenderInto draws frame over the whole of dst.
func (r *Rasterizer) RenderInto(dst *image.RGBA, frame scene.Frame) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(toNRGBA(frame.Background, 1)), image.Point{}, draw.Src)

	v := r.view(frame.Camera)
	for _, item := range frame.Items {
		d := item.Mobject.Drawing()
		for _, b := range d.Bitmaps {
			r.drawBitmap(dst, v, b)
		}
		for _, p := range d.Paths {
			r.drawPath(dst, v, p)
		}
		for _, l := range d.Labels {
			r.drawLabel(dst, v.toScreen(l.At), l.Text, toNRGBA(l.Color, l.Alpha))
		}
	}
	if r.HUD {
		r.drawHUD(dst, frame)
	}
}

// view maps scene space to pixel space for one camera.
type view struct {
	center geom.Vec2
	cam    geom.Vec2
	zoom   float64
}

func (r *Rasterizer) view(c scene.Camera) view {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return view{
		center: geom.V(float64(r.Width)/2, float64(r.Height)/2),
		cam:    c.Position,
		zoom:   zoom,
	}
}

func (v view) toScreen(p geom.Vec2) geom.Vec2 {
	d := p.Sub(v.cam).Scale(v.zoom)
	return geom.V(v.center.X+d.X, v.center.Y-d.Y)
}

func (r *Rasterizer) drawPath(dst *image.RGBA, v view, p mobject.Path) {
	if len(p.Points) < 2 {
		return
	}
	pts := make([]geom.Vec2, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = v.toScreen(pt)
	}
	if p.Fill && p.FillAlpha > 0 && len(pts) >= 3 {
		fillPolygons(dst, [][]geom.Vec2{pts}, toNRGBA(p.FillColor, p.FillAlpha))
	}
	if p.Stroke && p.StrokeAlpha > 0 {
		fillPolygons(dst, strokePolygons(pts, p.Width*v.zoom/2), toNRGBA(p.StrokeColor, p.StrokeAlpha))
	}
}

// fillPolygons paints the union of polys with c. The polygons are
// rasterized into one coverage mask clipped to their bounding box.
func fillPolygons(dst *image.RGBA, polys [][]geom.Vec2, c color.NRGBA) {
	if len(polys) == 0 || c.A == 0 {
		return
	}
	box := boundsOf(polys).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		if signedArea(poly) < 0 {
			poly = reversed(poly)
		}
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, box, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

func (r *Rasterizer) drawBitmap(dst *image.RGBA, v view, b mobject.Bitmap) {
	if b.Image == nil || b.Alpha <= 0 || b.Reveal <= 0 {
		return
	}
	sb := b.Image.Bounds()
	if sb.Empty() {
		return
	}
	w, h := b.Size.X*v.zoom, b.Size.Y*v.zoom
	kx, ky := w/float64(sb.Dx()), h/float64(sb.Dy())
	center := v.toScreen(b.Center)
	s, c := math.Sincos(b.Rotation)

	// src -> dst: scale, move the image center to the origin, rotate
	// (y is down on screen), then move to the target center.
	ox, oy := -float64(sb.Min.X), -float64(sb.Min.Y)
	aff := f64.Aff3{
		c * kx, s * ky, 0,
		-s * kx, c * ky, 0,
	}
	aff[2] = center.X - c*w/2 - s*h/2 + aff[0]*ox + aff[1]*oy
	aff[5] = center.Y + s*w/2 - c*h/2 + aff[3]*ox + aff[4]*oy

	sr := sb
	sr.Max.X = sb.Min.X + int(math.Ceil(float64(sb.Dx())*math.Min(b.Reveal, 1)))

	if b.Alpha >= 1 {
		draw.CatmullRom.Transform(dst, aff, b.Image, sr, draw.Over, nil)
		return
	}
	layer := image.NewRGBA(dst.Bounds())
	draw.CatmullRom.Transform(layer, aff, b.Image, sr, draw.Over, nil)
	alpha := image.NewUniform(color.Alpha{A: alpha8(b.Alpha)})
	draw.DrawMask(dst, dst.Bounds(), layer, image.Point{}, alpha, image.Point{}, draw.Over)
}

func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha8(alpha)}
}

func alpha8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
