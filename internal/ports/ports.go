package ports

import (
	"context"

	"github.com/xdream/vthumb/internal/types"
)

type MediaProber interface {
	Probe(ctx context.Context, path string) (types.VideoMeta, error)
}

type FrameRenderer interface {
	RenderFrame(ctx context.Context, path string, atSec float64, outJPEG string) error
}

type ThumbnailExtractor interface {
	Extract(ctx context.Context, path string, plan []types.ThumbnailSpec) ([]string, error)
}
