package progress

import "io"

// Stage identifies a high-level step of a single media download.
type Stage string

const (
	StageDownloading Stage = "downloading"
	StageRenaming    Stage = "renaming"
	StageCompleted   Stage = "completed"
	StageSkipped     Stage = "skipped"
	StageError       Stage = "error"
)

// Func receives byte counts while a stream is being copied to disk.
// total is <= 0 when the size is unknown.
type Func func(total, downloaded int64)

// Update conveys progress or stage changes for the media being downloaded.
type Update struct {
	Title      string
	Stage      Stage
	Total      int64 // <=0 if unknown
	Downloaded int64
	Message    string // short human-friendly status line
}

// Percent returns completion in 0..100, or -1 when the total is unknown.
func (u Update) Percent() float64 {
	return Percent(u.Total, u.Downloaded)
}

// Reporter is implemented by the console or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
}

// Percent computes downloaded/total as a percentage, clamped to 100.
func Percent(total, downloaded int64) float64 {
	if total <= 0 {
		return -1
	}
	if downloaded >= total {
		return 100
	}
	if downloaded <= 0 {
		return 0
	}
	return float64(downloaded) / float64(total) * 100
}

// Writer counts bytes flowing through it and reports them to fn.
type Writer struct {
	Total   int64
	written int64
	fn      Func
}

var _ io.Writer = (*Writer)(nil)

// NewWriter returns a Writer reporting against total.
func NewWriter(total int64, fn Func) *Writer {
	return &Writer{Total: total, fn: fn}
}

func (w *Writer) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.fn != nil {
		w.fn(w.Total, w.written)
	}
	return len(p), nil
}
