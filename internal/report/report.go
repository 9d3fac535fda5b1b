// Package report lays the catalog out as a single PDF document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/xdream/vthumb/internal/types"
)

const (
	thumbsPerRow = 4
	cellGap      = 2.0
)

// Write renders one section per record, in order: a bookmarked filename
// heading, a metadata line, and a grid of the record's thumbnails. Records
// that failed keep their section with a red error label so the PDF doubles
// as the failure report.
func Write(records []types.VideoRecord, title, outPath string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, rec := range records {
		writeSection(pdf, tr, rec)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf %s: %w", outPath, err)
	}
	return nil
}

func writeSection(pdf *fpdf.Fpdf, tr func(string) string, rec types.VideoRecord) {
	name := filepath.Base(rec.Path)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Bookmark(tr(name), 0, -1)
	pdf.CellFormat(0, 8, tr(name), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, tr(rec.Path), "", "L", false)
	pdf.MultiCell(0, 5, tr(metadataLine(rec)), "", "L", false)

	if rec.Status != types.StatusOK {
		pdf.SetTextColor(178, 34, 34)
		pdf.CellFormat(0, 6, tr(errorLabel(rec)), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	writeGrid(pdf, rec.Thumbnails)
	pdf.Ln(4)
}

func metadataLine(rec types.VideoRecord) string {
	m := rec.Meta
	if m == nil {
		return "metadata unavailable"
	}
	parts := []string{
		FormatDuration(m.DurationSec),
		fmt.Sprintf("%dx%d", m.Width, m.Height),
	}
	if m.FPS > 0 {
		parts = append(parts, fmt.Sprintf("%.2f fps", m.FPS))
	}
	if m.VideoCodec != "" {
		codec := m.VideoCodec
		if m.AudioCodec != "" {
			codec += "/" + m.AudioCodec
		}
		parts = append(parts, codec)
	}
	if m.BitrateKbps > 0 {
		parts = append(parts, fmt.Sprintf("%dkbps", m.BitrateKbps))
	}
	if m.SizeBytes > 0 {
		parts = append(parts, humanSize(m.SizeBytes))
	}
	return strings.Join(parts, " | ")
}

func errorLabel(rec types.VideoRecord) string {
	switch rec.Status {
	case types.StatusProbeFailed:
		return "unreadable: " + firstLine(rec.Err)
	case types.StatusTimedOut:
		if len(rec.Thumbnails) > 0 {
			return fmt.Sprintf("extraction timed out after %d frames", len(rec.Thumbnails))
		}
		return "extraction timed out"
	case types.StatusFailed:
		return "extraction failed: " + firstLine(rec.Err)
	default:
		return string(rec.Status)
	}
}

// firstLine trims ffmpeg's multi-line stderr dumps down to something that
// fits a PDF cell.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}

func writeGrid(pdf *fpdf.Fpdf, thumbs []string) {
	if len(thumbs) == 0 {
		return
	}

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colW := (pageW - left - right) / thumbsPerRow
	imgW := colW - cellGap
	opts := fpdf.ImageOptions{ImageType: "JPG"}

	for start := 0; start < len(thumbs); start += thumbsPerRow {
		row := thumbs[start:min(start+thumbsPerRow, len(thumbs))]

		rowH := 0.0
		infos := make([]*fpdf.ImageInfoType, len(row))
		for i, p := range row {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			info := pdf.RegisterImageOptions(p, opts)
			if pdf.Err() {
				pdf.ClearError()
				continue
			}
			infos[i] = info
			if h := imgW * info.Height() / info.Width(); h > rowH {
				rowH = h
			}
		}
		if rowH == 0 {
			continue
		}

		if pdf.GetY()+rowH > pageH-bottom {
			pdf.AddPage()
		}
		y := pdf.GetY()
		for i, p := range row {
			if infos[i] == nil {
				continue
			}
			pdf.ImageOptions(p, left+float64(i)*colW, y, imgW, 0, false, opts, 0, "")
		}
		pdf.SetY(y + rowH + cellGap)
	}
}

// FormatDuration renders seconds as H:MM:SS.
func FormatDuration(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func humanSize(b int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case b < kb:
		return fmt.Sprintf("%d bytes", b)
	case b < mb:
		return fmt.Sprintf("%.2f KB", float64(b)/kb)
	case b < gb:
		return fmt.Sprintf("%.2f MB", float64(b)/mb)
	default:
		return fmt.Sprintf("%.2f GB", float64(b)/gb)
	}
}
