package report

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xdream/vthumb/internal/types"
)

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for x := 0; x < 16; x++ {
		for y := 0; y < 9; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 28), B: 120, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
}

func TestWrite(t *testing.T) {
	tmp := t.TempDir()
	thumbs := make([]string, 6)
	for i := range thumbs {
		thumbs[i] = filepath.Join(tmp, "t", fmt.Sprintf("ok_thumb_%02d.jpg", i+1))
		if err := os.MkdirAll(filepath.Dir(thumbs[i]), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeJPEG(t, thumbs[i])
	}

	records := []types.VideoRecord{
		{
			Path: "/videos/good.mp4",
			Meta: &types.VideoMeta{
				DurationSec: 3725, Width: 1920, Height: 1080,
				FPS: 23.976, VideoCodec: "h264", AudioCodec: "aac",
				BitrateKbps: 4500, SizeBytes: 700 << 20,
			},
			Thumbnails: thumbs,
			Status:     types.StatusOK,
		},
		{
			Path:   "/videos/broken.mkv",
			Status: types.StatusProbeFailed,
			Err:    "moov atom not found\nlots of ffmpeg noise",
		},
		{
			Path:       "/videos/slow.avi",
			Meta:       &types.VideoMeta{DurationSec: 90, Width: 640, Height: 480},
			Thumbnails: thumbs[:2],
			Status:     types.StatusTimedOut,
			Err:        "extraction deadline exceeded",
		},
	}

	out := filepath.Join(tmp, "catalog.pdf")
	if err := Write(records, "vthumb report", out); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(string(b), "%PDF") {
		t.Fatalf("output is not a PDF (starts with %q)", b[:8])
	}
	if len(b) < 2000 {
		t.Fatalf("pdf suspiciously small: %d bytes", len(b))
	}
}

func TestWrite_MissingThumbnailFileTolerated(t *testing.T) {
	tmp := t.TempDir()
	records := []types.VideoRecord{{
		Path:       "/videos/gone.mp4",
		Meta:       &types.VideoMeta{DurationSec: 10, Width: 10, Height: 10},
		Thumbnails: []string{filepath.Join(tmp, "never-written.jpg")},
		Status:     types.StatusOK,
	}}

	out := filepath.Join(tmp, "catalog.pdf")
	if err := Write(records, "vthumb report", out); err != nil {
		t.Fatalf("write with missing thumbnail: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("pdf not written: %v", err)
	}
}

func TestMetadataLine(t *testing.T) {
	rec := types.VideoRecord{Meta: &types.VideoMeta{
		DurationSec: 32, Width: 1280, Height: 720,
		FPS: 25, VideoCodec: "h264", AudioCodec: "aac",
		BitrateKbps: 2000, SizeBytes: 1536,
	}}
	got := metadataLine(rec)
	for _, want := range []string{"0:00:32", "1280x720", "25.00 fps", "h264/aac", "2000kbps", "1.50 KB"} {
		if !strings.Contains(got, want) {
			t.Fatalf("metadata line %q missing %q", got, want)
		}
	}

	if got := metadataLine(types.VideoRecord{}); got != "metadata unavailable" {
		t.Fatalf("nil meta line = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:      "0:00:00",
		59.9:   "0:00:59",
		61:     "0:01:01",
		3725:   "1:02:05",
		7261.3: "2:01:01",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		512:     "512 bytes",
		1536:    "1.50 KB",
		5 << 20: "5.00 MB",
		3 << 30: "3.00 GB",
	}
	for in, want := range cases {
		if got := humanSize(in); got != want {
			t.Fatalf("humanSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorLabel(t *testing.T) {
	long := strings.Repeat("x", 200)
	rec := types.VideoRecord{Status: types.StatusFailed, Err: long}
	if got := errorLabel(rec); len(got) > 150 {
		t.Fatalf("error label not truncated: %d chars", len(got))
	}

	rec = types.VideoRecord{Status: types.StatusProbeFailed, Err: "first\nsecond"}
	if got := errorLabel(rec); strings.Contains(got, "second") {
		t.Fatalf("error label kept extra lines: %q", got)
	}

	rec = types.VideoRecord{Status: types.StatusTimedOut, Thumbnails: []string{"a", "b"}}
	if got := errorLabel(rec); !strings.Contains(got, "2 frames") {
		t.Fatalf("timeout label should mention partial frames: %q", got)
	}
}
