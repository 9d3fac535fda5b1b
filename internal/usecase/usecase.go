package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xdream/vthumb/internal/domain/sampler"
	"github.com/xdream/vthumb/internal/extract"
	"github.com/xdream/vthumb/internal/ports"
	"github.com/xdream/vthumb/internal/types"
)

type Deps struct {
	Prober    ports.MediaProber
	Extractor ports.ThumbnailExtractor
	Logger    *zap.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return Usecase{d: d}
}

type Input struct {
	Files     []string
	MaxThumbs int
	ThumbDir  string
}

type Result struct {
	Records []types.VideoRecord
}

// Run builds one VideoRecord per file, in the given order. Each file is an
// independent attempt: a probe or extraction failure is recorded on that
// file's record and the batch moves on. Only cancellation of the run context
// stops the loop.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	records := make([]types.VideoRecord, 0, len(in.Files))
	for _, path := range in.Files {
		if err := ctx.Err(); err != nil {
			return Result{Records: records}, err
		}
		records = append(records, u.processOne(ctx, path, in))
	}
	return Result{Records: records}, nil
}

func (u Usecase) processOne(ctx context.Context, path string, in Input) types.VideoRecord {
	log := u.d.Logger.With(zap.String("video", path))
	rec := types.VideoRecord{Path: path, Status: types.StatusOK}

	meta, err := u.d.Prober.Probe(ctx, path)
	if err != nil {
		log.Warn("probe failed", zap.Error(err))
		rec.Status = types.StatusProbeFailed
		rec.Err = err.Error()
		return rec
	}
	rec.Meta = &meta

	plan := sampler.Plan(meta.DurationSec, in.MaxThumbs, in.ThumbDir, sampler.Prefix(path))
	thumbs, err := u.d.Extractor.Extract(ctx, path, plan)
	rec.Thumbnails = thumbs

	switch {
	case errors.Is(err, extract.ErrDeadline):
		log.Warn("extraction timed out", zap.Int("frames_written", len(thumbs)))
		rec.Status = types.StatusTimedOut
		rec.Err = err.Error()
	case err != nil:
		log.Warn("extraction failed", zap.Error(err))
		rec.Status = types.StatusFailed
		rec.Err = err.Error()
	default:
		log.Info("video cataloged",
			zap.Int("thumbnails", len(thumbs)),
			zap.Float64("duration_sec", meta.DurationSec),
		)
	}
	return rec
}
