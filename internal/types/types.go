package types

// Status tags the outcome of processing one video file.
type Status string

const (
	StatusOK          Status = "ok"
	StatusProbeFailed Status = "probe_failed"
	StatusTimedOut    Status = "extraction_timed_out"
	StatusFailed      Status = "extraction_failed"
)

// VideoMeta holds the metadata probed from a video file.
type VideoMeta struct {
	DurationSec float64 `json:"duration_sec"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FPS         float64 `json:"fps,omitempty"`
	VideoCodec  string  `json:"video_codec,omitempty"`
	AudioCodec  string  `json:"audio_codec,omitempty"`
	BitrateKbps int     `json:"bitrate_kbps,omitempty"`
	SizeBytes   int64   `json:"size_bytes,omitempty"`
}

// ThumbnailSpec is one planned capture: a timestamp inside the video and the
// image path the frame will be written to.
type ThumbnailSpec struct {
	TimestampSec float64
	OutputPath   string
}

// VideoRecord is the per-file result collected by the catalog builder.
// Non-ok records carry through to the report with Err set, so failures stay
// visible in the final PDF instead of being silently dropped.
type VideoRecord struct {
	Path       string     `json:"path"`
	Meta       *VideoMeta `json:"meta,omitempty"`
	Thumbnails []string   `json:"thumbnails,omitempty"`
	Status     Status     `json:"status"`
	Err        string     `json:"error,omitempty"`
}

// Catalog is the manifest written alongside the PDF.
type Catalog struct {
	BaseDir string        `json:"base_dir"`
	Records []VideoRecord `json:"records"`
}
