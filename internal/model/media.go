package model

import (
	"context"
	"time"

	"tubefetch/internal/progress"
)

// ContentType selects what ends up on disk for a download.
type ContentType string

const (
	ContentVideo ContentType = "video" // progressive MP4, audio and video muxed
	ContentAudio ContentType = "audio" // audio-only stream relabelled to .mp3
)

// Fetcher writes a stream into dir and returns the resulting file path.
// Implementations call report synchronously while copying.
type Fetcher interface {
	Fetch(ctx context.Context, dir string, report progress.Func) (string, error)
}

// Stream describes one downloadable rendition of a video.
type Stream struct {
	Itag        int
	Resolution  string // e.g. "720p"; empty for audio-only streams
	Extension   string // container extension without the dot, e.g. "mp4"
	MimeType    string
	Progressive bool // carries both audio and video
	AudioOnly   bool
	Filesize    int64 // 0 if unknown
	Bitrate     int

	Fetcher Fetcher
}

// Media is a resolved single video and its available streams.
type Media struct {
	ID       string
	URL      string
	Title    string
	Author   string
	Duration time.Duration
	Streams  []Stream
}

// Playlist is a resolved playlist: its title and ordered member URLs.
type Playlist struct {
	ID        string
	URL       string
	Title     string
	Author    string
	VideoURLs []string
}

// Options holds user-configurable runtime options as resolved from flags, env and config.
type Options struct {
	OutDir         string
	NoColor        bool
	HTTPTimeout    time.Duration // 0 disables the timeout
	HistoryEnabled bool
	HistoryPath    string
	LogLevel       string
	LogFormat      string
	LogPath        string
}
