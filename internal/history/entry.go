package history

import (
	"time"

	"github.com/google/uuid"

	"tubefetch/internal/model"
)

// Status is the final state of a recorded download attempt.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Entry is one download attempt as stored in the history database.
type Entry struct {
	ID           string            `json:"id" yaml:"id" gorm:"primaryKey"`
	URL          string            `json:"url" yaml:"url" gorm:"not null;index"`
	Title        string            `json:"title" yaml:"title"`
	ContentType  model.ContentType `json:"content_type" yaml:"content_type" gorm:"not null"`
	Resolution   string            `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	PlaylistID   string            `json:"playlist_id,omitempty" yaml:"playlist_id,omitempty" gorm:"index"`
	Status       Status            `json:"status" yaml:"status" gorm:"not null;index"`
	FilePath     string            `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Bytes        int64             `json:"bytes" yaml:"bytes"`
	ErrorMessage string            `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at" yaml:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the table name stable across struct renames.
func (Entry) TableName() string {
	return "downloads"
}

// NewEntry starts a record for url. The status defaults to failed until
// one of the Mark methods says otherwise.
func NewEntry(url, title string, ct model.ContentType) *Entry {
	return &Entry{
		ID:          uuid.New().String(),
		URL:         url,
		Title:       title,
		ContentType: ct,
		Status:      StatusFailed,
		CreatedAt:   time.Now(),
	}
}

// MarkDownloaded records a file written to disk.
func (e *Entry) MarkDownloaded(path, resolution string, bytes int64) {
	e.Status = StatusDownloaded
	e.FilePath = path
	e.Resolution = resolution
	e.Bytes = bytes
	e.ErrorMessage = ""
}

// MarkSkipped records a video with no usable stream.
func (e *Entry) MarkSkipped(reason string) {
	e.Status = StatusSkipped
	e.ErrorMessage = reason
}

// MarkFailed records a resolution or download error.
func (e *Entry) MarkFailed(err error) {
	e.Status = StatusFailed
	if err != nil {
		e.ErrorMessage = err.Error()
	}
}
