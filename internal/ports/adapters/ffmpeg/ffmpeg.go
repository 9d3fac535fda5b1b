package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/xdream/vthumb/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) Probe(ctx context.Context, path string) (types.VideoMeta, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return types.VideoMeta{}, fmt.Errorf("ffprobe %s: %w\n%s", path, err, exitErr.Stderr)
		}
		return types.VideoMeta{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	meta, err := parseProbeOutput(out)
	if err != nil {
		return types.VideoMeta{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		meta.SizeBytes = info.Size()
	}
	return meta, nil
}

func (a *Adapter) RenderFrame(ctx context.Context, path string, atSec float64, outJPEG string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(atSec),
		"-i", path,
		"-frames:v", "1",
		"-q:v", "2",
		outJPEG,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg frame at %ss: %w\n%s", fmtSeconds(atSec), err, string(b))
	}
	return nil
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	BitRate      string `json:"bit_rate"`
	Tags         struct {
		BPS string `json:"BPS"`
	} `json:"tags"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

func parseProbeOutput(b []byte) (types.VideoMeta, error) {
	var po probeOutput
	if err := json.Unmarshal(b, &po); err != nil {
		return types.VideoMeta{}, fmt.Errorf("decode probe output: %w", err)
	}
	if po.Format.Duration == "" {
		return types.VideoMeta{}, errors.New("no duration in probe output")
	}
	dur, err := strconv.ParseFloat(po.Format.Duration, 64)
	if err != nil {
		return types.VideoMeta{}, fmt.Errorf("parse duration %q: %w", po.Format.Duration, err)
	}

	meta := types.VideoMeta{DurationSec: dur}
	for i := range po.Streams {
		s := &po.Streams[i]
		switch s.CodecType {
		case "video":
			if meta.VideoCodec != "" {
				continue
			}
			meta.VideoCodec = s.CodecName
			meta.Width = s.Width
			meta.Height = s.Height
			meta.FPS = parseFrameRate(s.AvgFrameRate)
			meta.BitrateKbps = parseBitrateKbps(s.BitRate, s.Tags.BPS)
		case "audio":
			if meta.AudioCodec == "" {
				meta.AudioCodec = s.CodecName
			}
		}
	}
	if meta.BitrateKbps == 0 {
		meta.BitrateKbps = parseBitrateKbps(po.Format.BitRate, "")
	}
	if meta.Width == 0 || meta.Height == 0 {
		return types.VideoMeta{}, errors.New("no video stream in probe output")
	}
	return meta, nil
}

// parseFrameRate handles ffprobe's rational form, e.g. "30000/1001".
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil || d == 0 {
		return 0
	}
	return n / d
}

// parseBitrateKbps prefers the stream bit_rate and falls back to the BPS tag
// some containers (notably mkv) use instead.
func parseBitrateKbps(bitRate, bpsTag string) int {
	if bitRate == "" {
		bitRate = bpsTag
	}
	n, err := strconv.Atoi(bitRate)
	if err != nil {
		return 0
	}
	return n / 1000
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
