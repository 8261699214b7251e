// Package effects produces the ffmpeg filter applied to each encoded segment.
package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/maquette/internal/config"
	"github.com/ivlev/maquette/internal/system"
)

// Effect returns a filter chain for one segment. "null" means pass-through.
type Effect interface {
	GenerateFilter(params config.SegmentParams) string
}

type NoEffect struct{}

func (NoEffect) GenerateFilter(config.SegmentParams) string { return "null" }

// FadeEffect fades from the fade color at the start of the video and back
// to it at the end. Only the first and last segments carry a fade; the
// engine sizes them so the whole fade fits.
type FadeEffect struct{}

func (FadeEffect) GenerateFilter(p config.SegmentParams) string {
	color := p.FadeColor
	if color == "" {
		color = "black"
	}
	var parts []string
	if p.FadeIn > 0 && p.Index == 0 {
		parts = append(parts, fmt.Sprintf("fade=t=in:st=0:d=%.3f:color=%s", p.FadeIn, color))
	}
	if p.FadeOut > 0 && p.Index == p.Count-1 {
		// local start of the fade-out within this segment
		st := p.TotalDuration - p.FadeOut - p.Start
		if st < 0 {
			st = 0
		}
		parts = append(parts, fmt.Sprintf("fade=t=out:st=%.3f:d=%.3f:color=%s", st, p.FadeOut, color))
	}
	if len(parts) == 0 {
		return "null"
	}
	return strings.Join(parts, ",")
}

// DebugEffect stamps the global frame number and timestamp in the corner.
// It degrades to pass-through when ffmpeg lacks drawtext.
type DebugEffect struct {
	HasDrawtext func(string) bool
}

func (e DebugEffect) GenerateFilter(p config.SegmentParams) string {
	check := e.HasDrawtext
	if check == nil {
		check = system.CheckFilterSupport
	}
	if !p.Debug || !check("drawtext") {
		return "null"
	}
	return fmt.Sprintf(
		"drawtext=text='Frame %%{eval\\:n+%d} | Seg %d/%d':x=10:y=10:fontsize=24:fontcolor=yellow:box=1:boxcolor=black@0.5",
		p.FirstFrame, p.Index+1, p.Count,
	)
}

// Chain applies effects in order, skipping pass-through ones.
type Chain []Effect

func (c Chain) GenerateFilter(p config.SegmentParams) string {
	var parts []string
	for _, e := range c {
		if f := e.GenerateFilter(p); f != "" && f != "null" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return "null"
	}
	return strings.Join(parts, ",")
}

// ForConfig assembles the effects enabled in cfg.
func ForConfig(cfg *config.Config) Effect {
	var chain Chain
	if cfg.FadeIn > 0 || cfg.FadeOut > 0 {
		chain = append(chain, FadeEffect{})
	}
	if cfg.Debug {
		chain = append(chain, DebugEffect{})
	}
	if len(chain) == 0 {
		return NoEffect{}
	}
	return chain
}
