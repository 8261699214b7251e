package engine

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/maquette/internal/animation"
	"github.com/ivlev/maquette/internal/config"
	"github.com/ivlev/maquette/internal/effects"
	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/logging"
	"github.com/ivlev/maquette/internal/mobject"
	"github.com/ivlev/maquette/internal/scene"
	"github.com/ivlev/maquette/internal/stats"
	"github.com/ivlev/maquette/internal/video"
)

func tinyScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc := scene.New()
	id := sc.Add(mobject.NewCircle(5).Hidden())
	sc.Play(animation.FadeIn(id).WithDuration(0.5)).
		Play(animation.MoveTo(id, geom.V(10, 0)).WithDuration(0.5))
	require.NoError(t, sc.Err())
	return sc
}

func TestTotalFrames(t *testing.T) {
	assert.Equal(t, 171, TotalFrames(5.7, 30))
	assert.Equal(t, 30, TotalFrames(1, 30))
	assert.Equal(t, 1, TotalFrames(0, 30))
}

func TestFrameTime(t *testing.T) {
	assert.Equal(t, 0.0, frameTime(0, 10, 10, 0.95))
	assert.Equal(t, 0.5, frameTime(5, 10, 10, 0.95))
	assert.Equal(t, 0.95, frameTime(9, 10, 10, 0.95))
	assert.Equal(t, 0.0, frameTime(0, 1, 10, 0))
}

func TestPlanSegments(t *testing.T) {
	segs := planSegments(100, 4, 10)
	require.Len(t, segs, 4)
	assert.Equal(t, segment{index: 3, first: 75, frames: 25}, segs[3])

	// remainder shorter than minFrames joins the previous segment
	segs = planSegments(95, 3, 30)
	require.Len(t, segs, 3)
	assert.Equal(t, 32, segs[0].frames)
	assert.Equal(t, 31, segs[2].frames)

	segs = planSegments(70, 8, 30)
	require.Len(t, segs, 2)
	assert.Equal(t, 40, segs[1].frames)

	segs = planSegments(5, 4, 30)
	require.Len(t, segs, 1)
	assert.Equal(t, 5, segs[0].frames)

	total := 0
	for _, s := range planSegments(1001, 7, 24) {
		total += s.frames
	}
	assert.Equal(t, 1001, total)
}

func TestRunFrames(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Format: config.FormatFrames, OutputDir: dir, Width: 32, Height: 24, FPS: 10, Workers: 3, ShowStats: true}

	store, err := stats.Open("")
	require.NoError(t, err)
	defer store.Close()

	p := NewProject(cfg, tinyScene(t), nil, nil, logging.Nop())
	p.Name = "tiny"
	p.Stats = store

	var mu sync.Mutex
	var infos []FrameInfo
	p.OnFrame = func(fi FrameInfo) {
		mu.Lock()
		infos = append(infos, fi)
		mu.Unlock()
	}

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.Frames)
	assert.Len(t, infos, 10)

	maxDone := 0
	for _, fi := range infos {
		maxDone = max(maxDone, fi.Done)
	}
	assert.Equal(t, 10, maxDone)

	f, err := os.Open(filepath.Join(dir, "frame_00009.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())

	runs, err := store.Recent(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "tiny", runs[0].Script)
	assert.Equal(t, 10, runs[0].Frames)
}

type fakeEncoder struct {
	mu       sync.Mutex
	frames   map[int]int
	params   map[int]config.SegmentParams
	joined   []string
	quality  []int
	muxCfg   *config.Config
	failWith error
}

func (f *fakeEncoder) EncodeSegment(ctx context.Context, path string, p config.SegmentParams, enc string, q int, produce video.Producer) error {
	n := 0
	err := produce(func(frame *image.RGBA) error {
		n++
		return f.failWith
	})
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames[p.Index] = n
	f.params[p.Index] = p
	f.quality = append(f.quality, q)
	return err
}

func (f *fakeEncoder) Concatenate(ctx context.Context, paths []string, final, tmp string, cfg *config.Config) error {
	f.joined = paths
	f.muxCfg = cfg
	return nil
}

func TestRunVideoSegments(t *testing.T) {
	cfg := &config.Config{
		Format: config.FormatMP4, OutputDir: t.TempDir(), Width: 32, Height: 24,
		FPS: 10, Workers: 4, FadeIn: 0.2, FadeOut: 0.3, VideoEncoder: "libx264",
	}
	enc := &fakeEncoder{frames: map[int]int{}, params: map[int]config.SegmentParams{}}
	sc := tinyScene(t)
	sc.Wait(1).Play(animation.FadeOut(sc.Timeline().Entries()[0].Animation.Target).WithDuration(1))

	p := NewProject(cfg, sc, enc, effects.ForConfig(cfg), logging.Nop())
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, report.Frames)
	assert.Equal(t, 3, report.Segments, "each segment holds at least one second")
	total := 0
	for _, n := range enc.frames {
		total += n
	}
	assert.Equal(t, 30, total)
	require.Len(t, enc.joined, 3)
	assert.Contains(t, enc.joined[0], "s000.mp4")
	assert.Contains(t, enc.params[0].Filter, "fade=t=in")
	assert.Contains(t, enc.params[2].Filter, "fade=t=out")
	assert.Equal(t, "null", enc.params[1].Filter)
	assert.Equal(t, "0x000000", enc.params[0].FadeColor)
	assert.Contains(t, report.Output, "maquette_")

	// segments and the final pass share the resolved quality
	require.NotNil(t, enc.muxCfg)
	assert.Equal(t, 23, enc.muxCfg.Quality)
	for _, q := range enc.quality {
		assert.Equal(t, 23, q)
	}
	assert.Equal(t, report.Output, enc.muxCfg.OutputVideo)
	assert.Zero(t, cfg.Quality, "caller config untouched")
	assert.Empty(t, cfg.OutputVideo)
}

func TestRunVideoEncoderFailure(t *testing.T) {
	cfg := &config.Config{Format: config.FormatMP4, OutputVideo: "x.mp4", Width: 8, Height: 8, FPS: 10, Workers: 2}
	boom := errors.New("pipe closed")
	enc := &fakeEncoder{frames: map[int]int{}, params: map[int]config.SegmentParams{}, failWith: boom}

	_, err := NewProject(cfg, tinyScene(t), enc, nil, logging.Nop()).Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, enc.joined)
}

func TestRunStopsOnSceneError(t *testing.T) {
	sc := scene.New()
	sc.Wait(-1)
	_, err := NewProject(&config.Config{FPS: 10, Width: 8, Height: 8}, sc, nil, nil, logging.Nop()).Run(context.Background())
	assert.Error(t, err)
}
