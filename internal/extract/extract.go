// Package extract renders planned thumbnail frames under a per-video
// deadline. ffmpeg can hang indefinitely on malformed input, so the render
// loop runs on its own goroutine and the caller stops waiting when the
// deadline elapses.
package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xdream/vthumb/internal/ports"
	"github.com/xdream/vthumb/internal/types"
)

// ErrDeadline reports that a video's extraction exceeded its deadline and
// the worker was abandoned.
var ErrDeadline = errors.New("extraction deadline exceeded")

type Extractor struct {
	renderer ports.FrameRenderer
	deadline time.Duration
	logger   *zap.Logger
}

func New(renderer ports.FrameRenderer, deadline time.Duration, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{renderer: renderer, deadline: deadline, logger: logger}
}

// Extract renders every frame in the plan sequentially on a worker goroutine
// and collects the written paths, waiting at most the configured deadline
// for the whole video. On expiry the worker is abandoned, not killed: it
// holds the run context, so a wedged render dies with the process rather
// than being interrupted mid-call. Whatever frames it had already written
// are returned alongside ErrDeadline.
//
// A single frame failing is skipped and logged; Extract only fails outright
// when every planned frame errored.
func (e *Extractor) Extract(ctx context.Context, path string, plan []types.ThumbnailSpec) ([]string, error) {
	if len(plan) == 0 {
		return nil, nil
	}

	frames := make(chan string, len(plan))
	done := make(chan error, 1)

	go func() {
		var lastErr error
		failed := 0
		for _, spec := range plan {
			if err := e.renderer.RenderFrame(ctx, path, spec.TimestampSec, spec.OutputPath); err != nil {
				failed++
				lastErr = err
				e.logger.Warn("frame render failed",
					zap.String("video", path),
					zap.Float64("at_sec", spec.TimestampSec),
					zap.Error(err),
				)
				continue
			}
			frames <- spec.OutputPath
		}
		if failed == len(plan) {
			done <- fmt.Errorf("all %d planned frames failed: %w", failed, lastErr)
			return
		}
		done <- nil
	}()

	timer := time.NewTimer(e.deadline)
	defer timer.Stop()

	var paths []string
	for {
		select {
		case p := <-frames:
			paths = append(paths, p)
		case err := <-done:
			return append(paths, drain(frames)...), err
		case <-timer.C:
			return paths, ErrDeadline
		case <-ctx.Done():
			return paths, ctx.Err()
		}
	}
}

// drain collects frames the worker produced between its last send we saw and
// its completion signal. The channel is buffered for the full plan, so the
// worker can never block here.
func drain(frames <-chan string) []string {
	var out []string
	for {
		select {
		case p := <-frames:
			out = append(out, p)
		default:
			return out
		}
	}
}
