package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xdream/vthumb/internal/extract"
	"github.com/xdream/vthumb/internal/types"
)

type fakeProber struct {
	metas map[string]types.VideoMeta
	errs  map[string]error
}

func (f fakeProber) Probe(_ context.Context, path string) (types.VideoMeta, error) {
	if err := f.errs[path]; err != nil {
		return types.VideoMeta{}, err
	}
	return f.metas[path], nil
}

type fakeExtractor struct {
	errs  map[string]error
	short map[string]int // paths returned despite the error, e.g. partial timeout output
}

func (f fakeExtractor) Extract(_ context.Context, path string, plan []types.ThumbnailSpec) ([]string, error) {
	n := len(plan)
	if err := f.errs[path]; err != nil {
		return thumbPaths(plan[:f.short[path]]), err
	}
	return thumbPaths(plan[:n]), nil
}

func thumbPaths(specs []types.ThumbnailSpec) []string {
	var out []string
	for _, s := range specs {
		out = append(out, s.OutputPath)
	}
	return out
}

func TestRun_FailureIsolation(t *testing.T) {
	t.Parallel()

	files := []string{"v/a.mp4", "v/b.mkv", "v/c.avi"}
	uc := New(Deps{
		Prober: fakeProber{
			metas: map[string]types.VideoMeta{
				"v/a.mp4": {DurationSec: 32, Width: 1280, Height: 720},
				"v/c.avi": {DurationSec: 600, Width: 640, Height: 480},
			},
			errs: map[string]error{
				"v/b.mkv": errors.New("moov atom not found"),
			},
		},
		Extractor: fakeExtractor{
			errs:  map[string]error{"v/c.avi": extract.ErrDeadline},
			short: map[string]int{"v/c.avi": 1},
		},
	})

	res, err := uc.Run(context.Background(), Input{Files: files, MaxThumbs: 4, ThumbDir: "thumbs"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(res.Records))
	}
	for i, rec := range res.Records {
		if rec.Path != files[i] {
			t.Fatalf("record order broken: got %s at %d, want %s", rec.Path, i, files[i])
		}
	}

	a, b, c := res.Records[0], res.Records[1], res.Records[2]
	if a.Status != types.StatusOK || len(a.Thumbnails) != 4 {
		t.Fatalf("a.mp4: status=%s thumbnails=%d, want ok/4", a.Status, len(a.Thumbnails))
	}
	if a.Meta == nil || a.Meta.Width != 1280 {
		t.Fatalf("a.mp4: metadata not carried onto record: %+v", a.Meta)
	}
	if b.Status != types.StatusProbeFailed || len(b.Thumbnails) != 0 || b.Meta != nil {
		t.Fatalf("b.mkv: status=%s thumbnails=%d meta=%v, want probe_failed/0/nil", b.Status, len(b.Thumbnails), b.Meta)
	}
	if b.Err == "" {
		t.Fatalf("b.mkv: expected error text on record")
	}
	if c.Status != types.StatusTimedOut || len(c.Thumbnails) != 1 {
		t.Fatalf("c.avi: status=%s thumbnails=%d, want extraction_timed_out with partial output", c.Status, len(c.Thumbnails))
	}
}

func TestRun_ExtractionFailedStatus(t *testing.T) {
	t.Parallel()

	uc := New(Deps{
		Prober: fakeProber{metas: map[string]types.VideoMeta{
			"x.mp4": {DurationSec: 20, Width: 100, Height: 100},
		}},
		Extractor: fakeExtractor{errs: map[string]error{
			"x.mp4": errors.New("all 4 planned frames failed: boom"),
		}},
	})

	res, err := uc.Run(context.Background(), Input{Files: []string{"x.mp4"}, MaxThumbs: 4})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := res.Records[0].Status; got != types.StatusFailed {
		t.Fatalf("status = %s, want %s", got, types.StatusFailed)
	}
}

func TestRun_OrderPreservedAcrossManyFailures(t *testing.T) {
	t.Parallel()

	var files []string
	probeErrs := map[string]error{}
	metas := map[string]types.VideoMeta{}
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("v/%02d.mp4", i)
		files = append(files, path)
		if i%3 == 0 {
			probeErrs[path] = errors.New("corrupt")
		} else {
			metas[path] = types.VideoMeta{DurationSec: 10, Width: 10, Height: 10}
		}
	}

	uc := New(Deps{
		Prober:    fakeProber{metas: metas, errs: probeErrs},
		Extractor: fakeExtractor{},
	})
	res, err := uc.Run(context.Background(), Input{Files: files, MaxThumbs: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Records) != len(files) {
		t.Fatalf("expected %d records, got %d", len(files), len(res.Records))
	}
	for i, rec := range res.Records {
		if rec.Path != files[i] {
			t.Fatalf("order broken at %d: %s", i, rec.Path)
		}
	}
}

func TestRun_ContextCancelStopsBatch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := New(Deps{Prober: fakeProber{}, Extractor: fakeExtractor{}})
	res, err := uc.Run(ctx, Input{Files: []string{"a.mp4", "b.mp4"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(res.Records) != 0 {
		t.Fatalf("expected no records after immediate cancel, got %d", len(res.Records))
	}
}
