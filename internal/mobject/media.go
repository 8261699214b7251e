package mobject

import (
	"fmt"
	"image"
	"math"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/maquette/internal/geom"
)

// Image shows a bitmap with the given size in scene units. Partial draw
// wipes it in from the left.
type Image struct {
	Source image.Image
	Width  float64
	Height float64
}

func (Image) Kind() Kind { return KindImage }

func (im Image) draw(st State) Drawing {
	if im.Source == nil || st.DrawFraction <= 0 {
		return Drawing{}
	}
	return Drawing{Bitmaps: []Bitmap{{
		Image:  im.Source,
		Size:   geom.Vec2{X: im.Width, Y: im.Height},
		Reveal: math.Min(st.DrawFraction, 1),
		Alpha:  st.Opacity,
	}}}
}

// QRCode renders dark modules as filled squares in the stroke color. Rows
// appear top to bottom while the code is being drawn.
type QRCode struct {
	Content string
	Module  float64
	bits    [][]bool
}

func (QRCode) Kind() Kind { return KindQRCode }

// Size returns the side length in scene units.
func (q QRCode) Size() float64 {
	return float64(len(q.bits)) * q.Module
}

func (q QRCode) draw(st State) Drawing {
	rows := len(q.bits)
	if rows == 0 || st.DrawFraction <= 0 {
		return Drawing{}
	}
	var d Drawing
	half := q.Size() / 2
	if st.FillOpacity > 0 {
		pad := q.Module * 2
		quiet := []geom.Vec2{{X: -half - pad, Y: half + pad}, {X: half + pad, Y: half + pad}, {X: half + pad, Y: -half - pad}, {X: -half - pad, Y: -half - pad}}
		d.Paths = append(d.Paths, st.filled(quiet, st.Fill, st.Opacity*st.FillOpacity))
	}
	visible := int(math.Ceil(float64(rows) * math.Min(st.DrawFraction, 1)))
	for r := 0; r < visible; r++ {
		top := half - float64(r)*q.Module
		for c, dark := range q.bits[r] {
			if !dark {
				continue
			}
			left := -half + float64(c)*q.Module
			cell := []geom.Vec2{{X: left, Y: top}, {X: left + q.Module, Y: top}, {X: left + q.Module, Y: top - q.Module}, {X: left, Y: top - q.Module}}
			d.Paths = append(d.Paths, st.filled(cell, st.Stroke, st.Opacity))
		}
	}
	return d
}

// NewQRCode encodes content at medium recovery level. module is the side of
// one module in scene units.
func NewQRCode(content string, module float64) (Mobject, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return Mobject{}, fmt.Errorf("qr encode: %w", err)
	}
	code.DisableBorder = true
	if module <= 0 {
		module = 4
	}
	m := New(QRCode{Content: content, Module: module, bits: code.Bitmap()})
	m.State.Fill = White
	m.State.FillOpacity = 1
	m.State.Stroke = Black
	return m, nil
}
