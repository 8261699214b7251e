// Package video drives ffmpeg: frames are streamed as raw RGBA into one
// encoder process per segment, then the segments are joined.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ivlev/maquette/internal/config"
)

// Emit hands one frame to the encoder. The frame may be reused once Emit returns.
type Emit func(frame *image.RGBA) error

// Producer renders the frames of a segment in order, passing each to emit.
type Producer func(emit Emit) error

type Encoder interface {
	EncodeSegment(ctx context.Context, path string, params config.SegmentParams, encoderName string, quality int, produce Producer) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, cfg *config.Config) error
}

type FFmpegEncoder struct {
	// Binary defaults to "ffmpeg" from PATH.
	Binary string
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

func (e *FFmpegEncoder) EncodeSegment(
	ctx context.Context,
	path string,
	params config.SegmentParams,
	encoderName string,
	quality int,
	produce Producer,
) error {
	cmd := exec.CommandContext(ctx, e.binary(), segmentArgs(path, params, encoderName, quality)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	// Запись raw RGBA данных
	var scratch *image.RGBA
	produceErr := produce(func(frame *image.RGBA) error {
		var err error
		scratch, err = writeRawRGBA(stdin, frame, scratch)
		return err
	})
	stdin.Close()

	waitErr := cmd.Wait()
	if produceErr != nil {
		return fmt.Errorf("segment %d: %w", params.Index, produceErr)
	}
	if waitErr != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", waitErr, tail(out.String(), 2000))
	}
	return nil
}

func segmentArgs(path string, p config.SegmentParams, encoderName string, quality int) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
	}
	if p.Filter != "" && p.Filter != "null" {
		args = append(args, "-vf", p.Filter)
	}
	args = append(args,
		"-frames:v", fmt.Sprintf("%d", p.Frames),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	)
	args = append(args, qualityArgs(encoderName, quality)...)
	return append(args, "-an", path)
}

// qualityArgs maps the single quality knob onto each encoder's own scale.
func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox не всегда поддерживает -q:v, используем битрейт
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// writeRawRGBA writes tightly packed RGBA rows. Frames with padding or a
// non-zero origin are copied into scratch first; the (possibly new)
// scratch buffer is returned for reuse.
func writeRawRGBA(w io.Writer, img *image.RGBA, scratch *image.RGBA) (*image.RGBA, error) {
	b := img.Bounds()
	if img.Stride == b.Dx()*4 && b.Min == (image.Point{}) {
		_, err := w.Write(img.Pix[:b.Dx()*b.Dy()*4])
		return scratch, err
	}
	if scratch == nil || scratch.Bounds().Size() != b.Size() {
		scratch = image.NewRGBA(image.Rectangle{Max: b.Size()})
	}
	draw.Draw(scratch, scratch.Bounds(), img, b.Min, draw.Src)
	_, err := w.Write(scratch.Pix)
	return scratch, err
}

func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, cfg *config.Config) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("нет сегментов для сборки")
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return err
	}

	var args []string
	if cfg.AudioPath == "" {
		listPath := filepath.Join(tmpDir, "inputs.txt")
		if err := writeConcatList(listPath, segmentPaths); err != nil {
			return err
		}
		args = concatArgs(listPath, finalPath)
	} else {
		args = muxArgs(segmentPaths, finalPath, cfg)
	}

	cmd := exec.CommandContext(ctx, e.binary(), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, tail(string(out), 2000))
	}
	return nil
}

func writeConcatList(path string, segmentPaths []string) error {
	var sb strings.Builder
	for _, p := range segmentPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// concatArgs joins segments without re-encoding.
func concatArgs(listPath, finalPath string) []string {
	return []string{"-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy", "-movflags", "+faststart", finalPath,
	}
}

// muxArgs joins segments through a concat filter and lays the audio track
// under them. The audio is padded with silence and cut to the video length.
func muxArgs(segmentPaths []string, finalPath string, cfg *config.Config) []string {
	args := []string{"-y"}
	for _, p := range segmentPaths {
		args = append(args, "-i", p)
	}
	audioIndex := len(segmentPaths)
	args = append(args, "-i", cfg.AudioPath)

	var graph strings.Builder
	for i := range segmentPaths {
		fmt.Fprintf(&graph, "[%d:v]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0[vout];[%d:a]apad[aout]", len(segmentPaths), audioIndex)

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[vout]", "-map", "[aout]", "-shortest",
		"-c:v", cfg.VideoEncoder, "-pix_fmt", "yuv420p",
	)
	args = append(args, qualityArgs(cfg.VideoEncoder, cfg.Quality)...)
	return append(args, "-c:a", "aac", "-b:a", "192k", "-movflags", "+faststart", finalPath)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
