// Package config loads render settings from defaults, an optional config
// file and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FormatMP4    = "mp4"
	FormatFrames = "frames"
)

type Config struct {
	ScriptPath   string
	ScenesDir    string
	Demo         string
	OutputVideo  string
	OutputDir    string
	Format       string
	Width        int
	Height       int
	Preset       string
	FPS          int
	Workers      int
	VideoEncoder string
	Quality      int
	AudioPath    string
	ShowHUD      bool
	FadeIn       float64
	FadeOut      float64
	Debug        bool
	DPI          int
	ShowStats    bool
	StatsDB      string
	LogLevel     string
	LogFile      string
	BuildVersion string
}

// SegmentParams describes one contiguous run of frames encoded by a single
// ffmpeg process.
type SegmentParams struct {
	Index         int
	Count         int
	FirstFrame    int
	Frames        int
	Width, Height int
	FPS           int
	Start         float64 // seconds since video start
	Duration      float64
	TotalDuration float64
	FadeIn        float64
	FadeOut       float64
	FadeColor     string // ffmpeg color, e.g. 0x000000
	Debug         bool
	Filter        string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("script", "")
	v.SetDefault("scenes-dir", "scenes")
	v.SetDefault("demo", "")
	v.SetDefault("output", "")
	v.SetDefault("output-dir", "output")
	v.SetDefault("format", FormatMP4)
	v.SetDefault("width", 1920)
	v.SetDefault("height", 1080)
	v.SetDefault("preset", "")
	v.SetDefault("fps", 30)
	v.SetDefault("workers", 0)
	v.SetDefault("encoder", "")
	v.SetDefault("quality", 0)
	v.SetDefault("audio", "")
	v.SetDefault("hud", false)
	v.SetDefault("fade-in", 0.0)
	v.SetDefault("fade-out", 0.0)
	v.SetDefault("debug", false)
	v.SetDefault("dpi", 150)
	v.SetDefault("stats", false)
	v.SetDefault("stats-db", "output/renders.db")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", "")
}

// RegisterFlags declares every setting on fs with the same defaults Load uses.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Файл настроек (yaml/json/toml)")
	fs.String("script", "", "Сценарий сцены YAML (по умолчанию: самый свежий в scenes/)")
	fs.String("scenes-dir", "scenes", "Папка сценариев для автопоиска")
	fs.String("demo", "", "Встроенная демо-сцена: basic, plot")
	fs.String("output", "", "Путь к видео (если пусто, генерируется в output/)")
	fs.String("output-dir", "output", "Папка для результатов и кадров")
	fs.String("format", FormatMP4, "Формат: mp4 или frames (PNG-последовательность)")
	fs.Int("width", 1920, "Ширина")
	fs.Int("height", 1080, "Высота")
	fs.String("preset", "", "Пресет формата: 16:9, 9:16, 4:5")
	fs.Int("fps", 30, "FPS")
	fs.Int("workers", 0, "Потоки рендера (0 - по числу ядер и памяти)")
	fs.String("encoder", "", "H.264 энкодер (пусто - автоопределение)")
	fs.Int("quality", 0, "Качество (0 - авто, x264: CRF, VideoToolbox: битрейт = Q*100кбит/с)")
	fs.String("audio", "", "Аудиодорожка для наложения")
	fs.Bool("hud", false, "Показывать полосу прогресса и время")
	fs.Float64("fade-in", 0, "Появление из фона в начале видео (сек)")
	fs.Float64("fade-out", 0, "Уход в фон в конце видео (сек)")
	fs.Bool("debug", false, "Номер кадра поверх видео")
	fs.Int("dpi", 150, "DPI для страниц PDF")
	fs.Bool("stats", false, "Отчет о производительности")
	fs.String("stats-db", "output/renders.db", "SQLite база истории рендеров")
	fs.String("log-level", "info", "Уровень логов: trace, debug, info, warn, error")
	fs.String("log-file", "", "Дублировать лог в файл")
}

// Load merges defaults, the config file and flags. An empty path looks for
// maquette.{yaml,json,toml} in the working directory and skips it when absent.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	} else {
		v.SetConfigName("maquette")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %v", err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := &Config{
		ScriptPath:   v.GetString("script"),
		ScenesDir:    v.GetString("scenes-dir"),
		Demo:         v.GetString("demo"),
		OutputVideo:  v.GetString("output"),
		OutputDir:    v.GetString("output-dir"),
		Format:       strings.ToLower(v.GetString("format")),
		Width:        v.GetInt("width"),
		Height:       v.GetInt("height"),
		Preset:       v.GetString("preset"),
		FPS:          v.GetInt("fps"),
		Workers:      v.GetInt("workers"),
		VideoEncoder: v.GetString("encoder"),
		Quality:      v.GetInt("quality"),
		AudioPath:    v.GetString("audio"),
		ShowHUD:      v.GetBool("hud"),
		FadeIn:       v.GetFloat64("fade-in"),
		FadeOut:      v.GetFloat64("fade-out"),
		Debug:        v.GetBool("debug"),
		DPI:          v.GetInt("dpi"),
		ShowStats:    v.GetBool("stats"),
		StatsDB:      v.GetString("stats-db"),
		LogLevel:     v.GetString("log-level"),
		LogFile:      v.GetString("log-file"),
	}
	cfg.ApplyPreset()
	return cfg, nil
}

// ApplyPreset overrides the frame size for the named aspect presets.
func (c *Config) ApplyPreset() {
	switch c.Preset {
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	}
}

// Validate rejects settings ffmpeg or the rasterizer cannot handle.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("размер кадра должен быть положительным: %dx%d", c.Width, c.Height)
	}
	// yuv420p требует четных сторон
	if c.Format == FormatMP4 && (c.Width%2 != 0 || c.Height%2 != 0) {
		return fmt.Errorf("для mp4 ширина и высота должны быть четными: %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps должен быть положительным: %d", c.FPS)
	}
	if c.Format != FormatMP4 && c.Format != FormatFrames {
		return fmt.Errorf("неизвестный формат %q (mp4, frames)", c.Format)
	}
	if c.Workers < 0 || c.Quality < 0 {
		return fmt.Errorf("workers и quality не могут быть отрицательными")
	}
	if c.FadeIn < 0 || c.FadeOut < 0 {
		return fmt.Errorf("длительность затемнения не может быть отрицательной")
	}
	return nil
}

// DefaultQuality picks a sane quality value for the encoder when none is set.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // Хорошее качество для VideoToolbox
	case "h264_nvenc":
		return 28 // Эквивалент CRF для NVENC
	default:
		return 23 // Стандартный CRF для x264
	}
}
