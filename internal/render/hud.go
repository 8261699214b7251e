package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/scene"
)

var (
	hudTrack = color.NRGBA{R: 80, G: 80, B: 80, A: 200}
	hudBar   = color.NRGBA{R: 100, G: 180, B: 255, A: 255}
	hudText  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

func (r *Rasterizer) drawLabel(dst *image.RGBA, at geom.Vec2, text string, c color.NRGBA) {
	if text == "" || c.A == 0 || r.Face == nil {
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.Face,
		Dot:  fixed.P(int(at.X), int(at.Y)),
	}
	d.DrawString(text)
}

// drawHUD renders a progress bar along the bottom edge and the
// "elapsed / total" time above it.
func (r *Rasterizer) drawHUD(dst *image.RGBA, frame scene.Frame) {
	const margin, barHeight = 20, 8
	track := image.Rect(margin, r.Height-margin-barHeight, r.Width-margin, r.Height-margin)
	if track.Empty() {
		return
	}
	draw.Draw(dst, track, image.NewUniform(hudTrack), image.Point{}, draw.Over)

	progress := 1.0
	if frame.Duration > 0 {
		progress = frame.Time / frame.Duration
	}
	progress = max(0, min(1, progress))
	done := track
	done.Max.X = track.Min.X + int(float64(track.Dx())*progress)
	draw.Draw(dst, done, image.NewUniform(hudBar), image.Point{}, draw.Over)

	label := fmt.Sprintf("%.1fs / %.1fs", frame.Time, frame.Duration)
	r.drawLabel(dst, geom.V(margin, float64(track.Min.Y-6)), label, hudText)
}
