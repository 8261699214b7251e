package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/ivlev/maquette/internal/config"
	"github.com/ivlev/maquette/internal/effects"
	"github.com/ivlev/maquette/internal/engine"
	"github.com/ivlev/maquette/internal/logging"
	"github.com/ivlev/maquette/internal/scene"
	"github.com/ivlev/maquette/internal/script"
	"github.com/ivlev/maquette/internal/source"
	"github.com/ivlev/maquette/internal/stats"
	"github.com/ivlev/maquette/internal/system"
	"github.com/ivlev/maquette/internal/video"
)

// задается через -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain returns the process exit code so that deferred cleanup runs
// before the process exits.
func realMain(args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("maquette", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	showInfo := fs.Bool("info", false, "Показать возможности системы и выйти")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	configPath, _ := fs.GetString("config")
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		fmt.Fprintf(stderr, "[-] %v\n", err)
		return 1
	}
	cfg.BuildVersion = version

	var logFile io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "[-] Не удалось открыть лог: %v\n", err)
			return 1
		}
		defer f.Close()
		logFile = f
	}
	log := logging.New(stderr, logFile, cfg.LogLevel)

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *showInfo {
		printInfo(ctx, log)
		return 0
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("[-] Ошибка проекта")
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	sc, name, err := loadScene(cfg, log)
	if err != nil {
		return err
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
		if capacity, err := system.ProbeCapacity(); err == nil {
			cfg.Workers = capacity.Workers(cfg.Width, cfg.Height)
		} else {
			log.Warn().Err(err).Msg("Не удалось определить ресурсы системы")
		}
	}

	if cfg.Format == config.FormatMP4 {
		if err := prepareVideo(ctx, cfg, sc, log); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	project := engine.NewProject(cfg, sc, &video.FFmpegEncoder{}, effects.ForConfig(cfg), log)
	project.Name = name
	project.OnFrame = progressLogger(log)

	if cfg.ShowStats {
		store, err := stats.Open(cfg.StatsDB)
		if err != nil {
			log.Warn().Err(err).Msg("База статистики недоступна")
		} else {
			defer store.Close()
			project.Stats = store
		}
	}

	_, err = project.Run(ctx)
	if err == nil && project.Stats != nil {
		if avg, err := project.Stats.AverageFPS(name); err == nil {
			log.Info().Float64("avg_fps", avg).Str("scene", name).Msg("Средняя скорость по истории")
		}
	}
	return err
}

// loadScene resolves the scene from --demo, --script or the newest script
// in the scenes directory, in that order.
func loadScene(cfg *config.Config, log zerolog.Logger) (*scene.Scene, string, error) {
	var s *script.Script
	var name string
	var err error

	switch {
	case cfg.Demo != "":
		name = "demo:" + cfg.Demo
		s, err = script.Demo(cfg.Demo)
	default:
		path := cfg.ScriptPath
		if path == "" {
			path, err = script.FindLatestScript(cfg.ScenesDir)
			if err != nil {
				return nil, "", fmt.Errorf("%w. Положите сценарий в %s/ или используйте --demo basic", err, cfg.ScenesDir)
			}
			log.Info().Str("script", path).Msg("[*] Выбран сценарий")
		}
		name = path
		s, err = script.ReadScript(path)
	}
	if err != nil {
		return nil, "", err
	}

	sc, _, err := script.Build(s, source.NewLoader(cfg.DPI))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return sc, name, nil
}

func prepareVideo(ctx context.Context, cfg *config.Config, sc *scene.Scene, log zerolog.Logger) error {
	if !system.FFmpegAvailable(ctx) {
		return fmt.Errorf("ffmpeg не найден в PATH; используйте --format frames")
	}
	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder = system.GetBestH264Encoder(ctx)
		if cfg.VideoEncoder != "libx264" {
			log.Info().Str("encoder", cfg.VideoEncoder).Msg("[*] Обнаружено аппаратное ускорение")
		}
	}
	if cfg.Quality == 0 {
		cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
	}

	if cfg.AudioPath != "" {
		audioDur, err := system.GetAudioDuration(ctx, cfg.AudioPath)
		if err != nil {
			return fmt.Errorf("аудио %s: %w", cfg.AudioPath, err)
		}
		if d := sc.Duration(); audioDur > d {
			log.Warn().
				Float64("audio", audioDur).
				Float64("scene", d).
				Msg("Аудио длиннее сцены и будет обрезано")
		}
	}
	return nil
}

// progressLogger logs every tenth of the render once.
func progressLogger(log zerolog.Logger) func(engine.FrameInfo) {
	var lastDecile atomic.Int64
	return func(fi engine.FrameInfo) {
		d := int64(fi.Progress() * 10)
		for {
			last := lastDecile.Load()
			if d <= last {
				return
			}
			if lastDecile.CompareAndSwap(last, d) {
				log.Info().
					Int("done", fi.Done).
					Int("total", fi.Total).
					Msgf("[>] %d%%", d*10)
				return
			}
		}
	}
}

func printInfo(ctx context.Context, log zerolog.Logger) {
	capacity, err := system.ProbeCapacity()
	if err != nil {
		log.Warn().Err(err).Msg("Не удалось определить ресурсы системы")
	}
	ffmpeg := system.FFmpegAvailable(ctx)
	ev := log.Info().
		Str("version", version).
		Int("cpus", capacity.LogicalCPUs).
		Uint64("mem_total_mb", capacity.TotalMemory>>20).
		Uint64("mem_available_mb", capacity.AvailableMemory>>20).
		Int("workers_1080p", capacity.Workers(1920, 1080)).
		Bool("ffmpeg", ffmpeg).
		Strs("demos", script.DemoNames())
	if ffmpeg {
		ev = ev.Str("encoder", system.GetBestH264Encoder(ctx)).
			Bool("drawtext", system.CheckFilterSupport("drawtext"))
	}
	ev.Msg("Maquette")
}
