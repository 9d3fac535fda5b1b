// Package sampler plans which frames of a video to capture.
package sampler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xdream/vthumb/internal/types"
)

// Plan computes up to maxCount capture points for a video of the given
// duration. Timestamps are evenly spaced interior points i*D/(n+1), which
// skips the very start and end of the file where black frames and credits
// are common. A video shorter than one second yields no plan.
func Plan(durationSec float64, maxCount int, dir, prefix string) []types.ThumbnailSpec {
	if durationSec <= 0 || maxCount <= 0 {
		return nil
	}
	n := int(durationSec)
	if n > maxCount {
		n = maxCount
	}
	if n <= 0 {
		return nil
	}

	step := durationSec / float64(n+1)
	specs := make([]types.ThumbnailSpec, 0, n)
	for i := 1; i <= n; i++ {
		specs = append(specs, types.ThumbnailSpec{
			TimestampSec: float64(i) * step,
			OutputPath:   filepath.Join(dir, fmt.Sprintf("%s_thumb_%02d.jpg", prefix, i)),
		})
	}
	return specs
}

// Prefix derives a deterministic, per-video filename prefix so thumbnails
// from different files never collide in the shared output directory.
func Prefix(videoPath string) string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	stem = normalizeSegment(stem)
	if stem == "" {
		stem = "video"
	}
	return hash(videoPath) + "_" + stem
}

func normalizeSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
