// Package engine renders a built scene to a PNG sequence or an mp4 file.
package engine

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/maquette/internal/config"
	"github.com/ivlev/maquette/internal/effects"
	"github.com/ivlev/maquette/internal/render"
	"github.com/ivlev/maquette/internal/scene"
	"github.com/ivlev/maquette/internal/stats"
	"github.com/ivlev/maquette/internal/video"
)

// FrameInfo reports one finished frame. Done counts frames finished so far
// across all workers, so callbacks may arrive out of frame order.
type FrameInfo struct {
	Frame    int
	Done     int
	Total    int
	Time     float64
	Duration float64
}

func (f FrameInfo) Progress() float64 {
	if f.Total == 0 {
		return 1
	}
	return float64(f.Done) / float64(f.Total)
}

// Report summarizes a finished run.
type Report struct {
	Output       string
	Frames       int
	Segments     int
	Workers      int
	VideoSeconds float64
	Render       time.Duration // rasterizing and streaming to the encoders
	Concat       time.Duration
	Total        time.Duration
}

func (r Report) EffectiveFPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

type Project struct {
	Config  *config.Config
	Scene   *scene.Scene
	Name    string // script path or demo name, recorded in stats
	Encoder video.Encoder
	Effect  effects.Effect
	Stats   *stats.Store
	Log     zerolog.Logger
	OnFrame func(FrameInfo)

	raster *render.Rasterizer
	done   atomic.Int64
}

func NewProject(cfg *config.Config, sc *scene.Scene, enc video.Encoder, eff effects.Effect, log zerolog.Logger) *Project {
	return &Project{
		Config:  cfg,
		Scene:   sc,
		Encoder: enc,
		Effect:  eff,
		Log:     log,
	}
}

// TotalFrames is ceil(duration*fps), at least one.
func TotalFrames(duration float64, fps int) int {
	n := int(math.Ceil(duration*float64(fps) - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

// frameTime returns the scene time of frame i. The last frame shows the
// end of the scene so the video settles on the final state.
func frameTime(i, total, fps int, duration float64) float64 {
	if i == total-1 && total > 1 {
		return duration
	}
	return float64(i) / float64(fps)
}

func (p *Project) workers() int {
	if p.Config.Workers > 0 {
		return p.Config.Workers
	}
	return runtime.NumCPU()
}

func (p *Project) Run(ctx context.Context) (*Report, error) {
	if err := p.Scene.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	cfg := p.Config

	if p.Encoder == nil {
		p.Encoder = &video.FFmpegEncoder{}
	}
	if p.Effect == nil {
		p.Effect = effects.NoEffect{}
	}
	p.raster = render.New(cfg.Width, cfg.Height)
	p.raster.HUD = cfg.ShowHUD
	p.done.Store(0)

	duration := p.Scene.Duration()
	report := &Report{
		Frames:       TotalFrames(duration, cfg.FPS),
		Workers:      p.workers(),
		VideoSeconds: duration,
	}

	p.Log.Info().
		Str("scene", p.Name).
		Int("objects", p.Scene.Len()).
		Float64("duration", duration).
		Int("frames", report.Frames).
		Str("size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)).
		Int("fps", cfg.FPS).
		Int("workers", report.Workers).
		Msg("Начало рендера")

	var err error
	switch cfg.Format {
	case config.FormatFrames:
		err = p.renderFrames(ctx, report)
	default:
		err = p.renderVideo(ctx, report)
	}
	if err != nil {
		return nil, err
	}

	report.Total = time.Since(startTime)
	p.finish(report)
	return report, nil
}

// renderFrame resolves and rasterizes frame i. Release the image when done.
func (p *Project) renderFrame(i, total int) (*image.RGBA, FrameInfo, error) {
	duration := p.Scene.Duration()
	t := frameTime(i, total, p.Config.FPS, duration)
	frame, err := p.Scene.RenderFrame(t)
	if err != nil {
		return nil, FrameInfo{}, err
	}
	return p.raster.Render(frame), FrameInfo{Frame: i, Total: total, Time: t, Duration: duration}, nil
}

func (p *Project) frameDone(info FrameInfo) {
	info.Done = int(p.done.Add(1))
	if p.OnFrame != nil {
		p.OnFrame(info)
	}
}

func (p *Project) renderFrames(ctx context.Context, report *Report) error {
	dir := p.Config.OutputDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	report.Output = dir
	renderStart := time.Now()

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(report.Workers)
	for i := 0; i < report.Frames; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, info, err := p.renderFrame(i, report.Frames)
			if err != nil {
				return err
			}
			defer p.raster.Release(img)

			path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", i))
			if err := writePNG(&enc, path, img); err != nil {
				return fmt.Errorf("кадр %d: %w", i, err)
			}
			p.frameDone(info)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	report.Render = time.Since(renderStart)
	return nil
}

func writePNG(enc *png.Encoder, path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := enc.Encode(w, img); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *Project) renderVideo(ctx context.Context, report *Report) error {
	// resolved defaults stay local to this run
	local := *p.Config
	cfg := &local
	tempDir, err := os.MkdirTemp("", "maquette_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	minFrames := max(cfg.FPS, secondsToFrames(cfg.FadeIn, cfg.FPS), secondsToFrames(cfg.FadeOut, cfg.FPS))
	segments := planSegments(report.Frames, report.Workers, minFrames)
	report.Segments = len(segments)
	if cfg.OutputVideo == "" {
		cfg.OutputVideo = filepath.Join(cfg.OutputDir, fmt.Sprintf("maquette_%s.mp4", time.Now().Format("2006-01-02_15-04-05")))
	}
	report.Output = cfg.OutputVideo

	if cfg.Quality == 0 {
		cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
	}
	fadeColor := "0x" + p.Scene.Background().Hex()[1:]

	paths := make([]string, len(segments))
	renderStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(report.Workers)
	for _, seg := range segments {
		params := config.SegmentParams{
			Index:         seg.index,
			Count:         len(segments),
			FirstFrame:    seg.first,
			Frames:        seg.frames,
			Width:         cfg.Width,
			Height:        cfg.Height,
			FPS:           cfg.FPS,
			Start:         float64(seg.first) / float64(cfg.FPS),
			Duration:      float64(seg.frames) / float64(cfg.FPS),
			TotalDuration: float64(report.Frames) / float64(cfg.FPS),
			FadeIn:        cfg.FadeIn,
			FadeOut:       cfg.FadeOut,
			FadeColor:     fadeColor,
			Debug:         cfg.Debug,
		}
		params.Filter = p.Effect.GenerateFilter(params)
		path := filepath.Join(tempDir, fmt.Sprintf("s%03d.mp4", seg.index))

		g.Go(func() error {
			segStart := time.Now()
			err := p.Encoder.EncodeSegment(gctx, path, params, cfg.VideoEncoder, cfg.Quality, func(emit video.Emit) error {
				for i := seg.first; i < seg.first+seg.frames; i++ {
					if err := gctx.Err(); err != nil {
						return err
					}
					img, info, err := p.renderFrame(i, report.Frames)
					if err != nil {
						return err
					}
					err = emit(img)
					p.raster.Release(img)
					if err != nil {
						return err
					}
					p.frameDone(info)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("сегмент %d: %w", seg.index, err)
			}
			paths[seg.index] = path
			p.Log.Debug().
				Int("segment", seg.index+1).
				Int("of", len(segments)).
				Int("frames", seg.frames).
				Dur("took", time.Since(segStart)).
				Msg("Сегмент готов")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	report.Render = time.Since(renderStart)

	p.Log.Info().Int("segments", len(paths)).Msg("Сборка финального видео...")
	concatStart := time.Now()
	if err := p.Encoder.Concatenate(ctx, paths, cfg.OutputVideo, tempDir, cfg); err != nil {
		return fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	report.Concat = time.Since(concatStart)
	return nil
}

func secondsToFrames(s float64, fps int) int {
	return int(math.Ceil(s * float64(fps)))
}

type segment struct {
	index, first, frames int
}

// planSegments splits total frames into at most count contiguous runs of at
// least minFrames each. A short remainder is folded into the previous run.
func planSegments(total, count, minFrames int) []segment {
	if count < 1 {
		count = 1
	}
	size := (total + count - 1) / count
	size = max(size, minFrames, 1)

	var segs []segment
	for first := 0; first < total; first += size {
		segs = append(segs, segment{index: len(segs), first: first, frames: min(size, total-first)})
	}
	if n := len(segs); n > 1 && segs[n-1].frames < minFrames {
		segs[n-2].frames += segs[n-1].frames
		segs = segs[:n-1]
	}
	return segs
}

func (p *Project) finish(r *Report) {
	p.Log.Info().
		Str("output", r.Output).
		Int("frames", r.Frames).
		Dur("total", r.Total).
		Msg("[+++] Успех!")

	if !p.Config.ShowStats {
		return
	}
	p.Log.Info().
		Str("build", p.Config.BuildVersion).
		Float64("total_s", r.Total.Seconds()).
		Float64("render_s", r.Render.Seconds()).
		Float64("concat_s", r.Concat.Seconds()).
		Float64("effective_fps", r.EffectiveFPS()).
		Int("segments", r.Segments).
		Msg("--- [PERFORMANCE REPORT] ---")

	if p.Stats == nil {
		return
	}
	run := &stats.Run{
		Build:         p.Config.BuildVersion,
		Script:        p.Name,
		Format:        p.Config.Format,
		Width:         p.Config.Width,
		Height:        p.Config.Height,
		FPS:           p.Config.FPS,
		Frames:        r.Frames,
		Segments:      r.Segments,
		Workers:       r.Workers,
		Encoder:       p.Config.VideoEncoder,
		VideoSeconds:  r.VideoSeconds,
		RenderSeconds: r.Render.Seconds(),
		ConcatSeconds: r.Concat.Seconds(),
		TotalSeconds:  r.Total.Seconds(),
		EffectiveFPS:  r.EffectiveFPS(),
	}
	if err := p.Stats.Record(run); err != nil {
		p.Log.Warn().Err(err).Msg("Не удалось записать статистику")
	}
}
