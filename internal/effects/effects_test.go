package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivlev/maquette/internal/config"
)

func segment(index, count int, start, duration float64) config.SegmentParams {
	return config.SegmentParams{
		Index: index, Count: count,
		Start: start, Duration: duration, TotalDuration: 6,
		FadeIn: 1, FadeOut: 0.5, FadeColor: "0x101018",
		FPS: 30,
	}
}

func TestFadeEffect(t *testing.T) {
	var e FadeEffect

	assert.Equal(t, "fade=t=in:st=0:d=1.000:color=0x101018", e.GenerateFilter(segment(0, 3, 0, 2)))
	assert.Equal(t, "null", e.GenerateFilter(segment(1, 3, 2, 2)))
	assert.Equal(t, "fade=t=out:st=1.500:d=0.500:color=0x101018", e.GenerateFilter(segment(2, 3, 4, 2)))

	single := segment(0, 1, 0, 6)
	assert.Equal(t,
		"fade=t=in:st=0:d=1.000:color=0x101018,fade=t=out:st=5.500:d=0.500:color=0x101018",
		e.GenerateFilter(single))
}

func TestDebugEffect(t *testing.T) {
	p := segment(1, 3, 2, 2)
	p.Debug = true
	p.FirstFrame = 60

	with := DebugEffect{HasDrawtext: func(string) bool { return true }}
	assert.Contains(t, with.GenerateFilter(p), `%{eval\:n+60}`)
	assert.Contains(t, with.GenerateFilter(p), "Seg 2/3")

	without := DebugEffect{HasDrawtext: func(string) bool { return false }}
	assert.Equal(t, "null", without.GenerateFilter(p))
}

func TestChainAndForConfig(t *testing.T) {
	assert.Equal(t, "null", Chain{NoEffect{}, FadeEffect{}}.GenerateFilter(segment(1, 3, 2, 2)))
	assert.IsType(t, NoEffect{}, ForConfig(&config.Config{}))

	chain, ok := ForConfig(&config.Config{FadeIn: 1, Debug: true}).(Chain)
	assert.True(t, ok)
	assert.Len(t, chain, 2)
}
