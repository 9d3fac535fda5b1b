package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xdream/vthumb/internal/extract"
	"github.com/xdream/vthumb/internal/ports"
	"github.com/xdream/vthumb/internal/ports/adapters/ffmpeg"
	"github.com/xdream/vthumb/internal/report"
	"github.com/xdream/vthumb/internal/scan"
	"github.com/xdream/vthumb/internal/types"
	"github.com/xdream/vthumb/internal/usecase"
)

type Config struct {
	BaseDir string
	// Extensions extends scan.DefaultExtensions.
	Extensions []string
	MaxThumbs  int
	// Deadline bounds each video's frame extraction.
	Deadline time.Duration
	// OutputPDF overrides the default <base>/<name>.report.<date>.pdf path.
	OutputPDF string
	// Keep retains the thumbnail directory after the PDF is written.
	Keep bool

	FFmpegPath  string
	FFprobePath string

	Logger *zap.Logger
}

// Validate fails fast on setup errors: a missing base directory or missing
// external tools abort the run before any file is touched. Per-file decode
// problems are not setup errors and surface in the report instead.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return errors.New("base directory is empty")
	}
	info, err := os.Stat(c.BaseDir)
	if err != nil {
		return fmt.Errorf("stat base dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base path %s is not a directory", c.BaseDir)
	}
	if c.MaxThumbs <= 0 {
		return errors.New("max thumbnails must be > 0")
	}
	if c.Deadline <= 0 {
		return errors.New("deadline must be > 0")
	}
	if _, err := exec.LookPath(orDefault(c.FFmpegPath, "ffmpeg")); err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}
	if _, err := exec.LookPath(orDefault(c.FFprobePath, "ffprobe")); err != nil {
		return fmt.Errorf("ffprobe not available: %w", err)
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	files, err := scan.Videos(cfg.BaseDir, scan.NewExtSet(cfg.Extensions...))
	if err != nil {
		return fmt.Errorf("scan %s: %w", cfg.BaseDir, err)
	}
	log.Info("videos discovered", zap.Int("count", len(files)), zap.String("base", cfg.BaseDir))

	thumbDir := filepath.Join(cfg.BaseDir, "thumbnails")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}

	adapter := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	uc := usecase.New(usecase.Deps{
		Prober:    adapter,
		Extractor: extract.New(adapter, cfg.Deadline, log),
		Logger:    log,
	})

	res, err := uc.Run(ctx, usecase.Input{
		Files:     files,
		MaxThumbs: cfg.MaxThumbs,
		ThumbDir:  thumbDir,
	})
	if err != nil {
		return err
	}

	outPDF := cfg.OutputPDF
	if outPDF == "" {
		outPDF = defaultOutputPDF(cfg.BaseDir, time.Now())
	}
	title := fmt.Sprintf("vthumb report: %s", filepath.Base(filepath.Clean(cfg.BaseDir)))
	if err := report.Write(res.Records, title, outPDF); err != nil {
		return err
	}
	log.Info("report written", zap.String("pdf", outPDF), zap.Int("videos", len(res.Records)))

	if err := writeManifest(cfg.BaseDir, res.Records, manifestPath(outPDF)); err != nil {
		return err
	}

	if !cfg.Keep {
		if err := os.RemoveAll(thumbDir); err != nil {
			log.Warn("thumbnail cleanup failed", zap.Error(err))
		}
	}
	return nil
}

func writeManifest(baseDir string, records []types.VideoRecord, path string) error {
	b, err := json.MarshalIndent(types.Catalog{BaseDir: baseDir, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write catalog manifest: %w", err)
	}
	return nil
}

func defaultOutputPDF(baseDir string, now time.Time) string {
	name := filepath.Base(filepath.Clean(baseDir))
	return filepath.Join(baseDir, fmt.Sprintf("%s.report.%s.pdf", name, now.Format("2006-01-02")))
}

func manifestPath(outPDF string) string {
	return strings.TrimSuffix(outPDF, filepath.Ext(outPDF)) + ".json"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ensure the adapter satisfies both ports
var _ ports.MediaProber = (*ffmpeg.Adapter)(nil)
var _ ports.FrameRenderer = (*ffmpeg.Adapter)(nil)
var _ ports.ThumbnailExtractor = (*extract.Extractor)(nil)
