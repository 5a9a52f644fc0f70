// Package downloader picks a stream from resolved media and writes it to disk.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tubefetch/internal/model"
	"tubefetch/internal/progress"
	"tubefetch/internal/util"
	"tubefetch/internal/util/format"
)

// ErrNoStream marks a video skipped because no suitable stream exists.
var ErrNoStream = errors.New("no suitable stream")

// Status is the result kind of a single Download call.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
)

// Console receives the user-facing notices printed while downloading.
type Console interface {
	Printf(format string, a ...any)
	Warnf(format string, a ...any)
}

// Outcome describes what Download did.
type Outcome struct {
	Status Status
	Stream *model.Stream // nil when skipped
	Path   string
	Bytes  int64
	Reason error // set when skipped
}

// Executor selects and downloads one stream per call.
type Executor struct {
	console  Console
	reporter progress.Reporter
	logger   *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithReporter attaches a progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(e *Executor) {
		e.reporter = r
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor builds an Executor printing notices to console.
func NewExecutor(console Console, opts ...Option) *Executor {
	e := &Executor{console: console, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Download picks a stream for ct (and quality, for video), fetches it into
// dir and relabels audio to .mp3. A missing stream is not an error: the
// outcome is StatusSkipped.
func (e *Executor) Download(ctx context.Context, media *model.Media, ct model.ContentType, quality, dir string) (Outcome, error) {
	log := e.logger.With(zap.String("url", media.URL), zap.String("title", media.Title))

	var stream *model.Stream
	if ct == model.ContentAudio {
		stream = SelectAudio(media.Streams)
	} else {
		var fellBack bool
		stream, fellBack = SelectVideo(media.Streams, quality)
		if fellBack && stream != nil {
			e.console.Warnf("Quality %s not available for '%s'. Falling back to highest available.\n", quality, media.Title)
			log.Info("quality fallback", zap.String("wanted", quality), zap.String("using", stream.Resolution))
		}
	}

	if stream == nil || stream.Fetcher == nil {
		e.console.Warnf("Could not find a suitable stream for '%s'. Skipping.\n", media.Title)
		log.Warn("no suitable stream", zap.String("type", string(ct)))
		e.report(progress.Update{Title: media.Title, Stage: progress.StageSkipped})
		return Outcome{Status: StatusSkipped, Reason: ErrNoStream}, nil
	}

	label := stream.Resolution
	if label == "" {
		label = "Audio"
	}
	if stream.Filesize > 0 {
		e.console.Printf("\nDownloading: '%s' (%s, %s)\n", media.Title, label, format.HumanizeBytes(stream.Filesize))
	} else {
		e.console.Printf("\nDownloading: '%s' (%s)\n", media.Title, label)
	}
	log.Info("download started", zap.Int("itag", stream.Itag), zap.String("resolution", stream.Resolution))

	path, err := stream.Fetcher.Fetch(ctx, dir, func(total, downloaded int64) {
		e.report(progress.Update{
			Title:      media.Title,
			Stage:      progress.StageDownloading,
			Total:      total,
			Downloaded: downloaded,
		})
	})
	if err != nil {
		e.report(progress.Update{Title: media.Title, Stage: progress.StageError, Message: err.Error()})
		return Outcome{Stream: stream}, err
	}

	if ct == model.ContentAudio {
		e.report(progress.Update{Title: media.Title, Stage: progress.StageRenaming})
		renamed, err := util.ReplaceExt(path, ".mp3")
		if err != nil {
			e.report(progress.Update{Title: media.Title, Stage: progress.StageError, Message: err.Error()})
			return Outcome{Stream: stream, Path: path}, fmt.Errorf("rename to mp3: %w", err)
		}
		path = renamed
		e.console.Printf("\nRenamed to: %s\n", path)
	}

	var size int64
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}
	e.report(progress.Update{Title: media.Title, Stage: progress.StageCompleted, Total: size, Downloaded: size})
	e.console.Printf("\nFinished!\n")
	log.Info("download finished", zap.String("path", path), zap.Int64("bytes", size))

	return Outcome{Status: StatusDownloaded, Stream: stream, Path: path, Bytes: size}, nil
}

func (e *Executor) report(u progress.Update) {
	if e.reporter != nil {
		e.reporter.Update(u)
	}
}
