// Package pipeline drives the interactive download workflow: menu, URL
// resolution, quality choice and per-video download.
package pipeline

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"tubefetch/internal/downloader"
	"tubefetch/internal/history"
	"tubefetch/internal/model"
	"tubefetch/internal/progress"
)

// DefaultOutDir is where downloads land when no directory is configured.
const DefaultOutDir = "downloads"

var (
	// ErrNoQualities means the media has no progressive MP4 stream to choose from.
	ErrNoQualities = errors.New("no progressive (video+audio) streams available")

	// ErrEmptyPlaylist means the playlist resolved without any videos.
	ErrEmptyPlaylist = errors.New("playlist has no videos")

	errAborted = errors.New("aborted by user")
)

// Resolver turns URLs into media and playlist metadata.
type Resolver interface {
	Resolve(ctx context.Context, url string) (*model.Media, error)
	ResolvePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Console is the interactive surface the workflow talks to.
type Console interface {
	Prompt(ctx context.Context, label string) (string, error)
	Printf(format string, a ...any)
	Println(a ...any)
	Warnf(format string, a ...any)
	Errorf(format string, a ...any)
	Successf(format string, a ...any)
	Heading(title string)
}

// Recorder stores download attempts.
type Recorder interface {
	Record(e *history.Entry) error
}

// Service holds the state of one interactive session.
type Service struct {
	console  Console
	resolver Resolver
	recorder Recorder
	reporter progress.Reporter
	logger   *zap.Logger
	outDir   string

	executor *downloader.Executor
}

// Option configures a Service.
type Option func(*Service)

// WithResolver sets the URL resolver.
func WithResolver(r Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithRecorder attaches a download history recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithReporter overrides the progress reporter. By default the console is
// used when it implements progress.Reporter.
func WithReporter(r progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = r
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOutDir sets the output directory.
func WithOutDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outDir = dir
		}
	}
}

// NewService constructs a Service printing to console.
func NewService(console Console, opts ...Option) *Service {
	s := &Service{
		console: console,
		logger:  zap.NewNop(),
		outDir:  DefaultOutDir,
	}
	for _, o := range opts {
		o(s)
	}
	if s.reporter == nil {
		if r, ok := console.(progress.Reporter); ok {
			s.reporter = r
		}
	}
	execOpts := []downloader.Option{downloader.WithLogger(s.logger)}
	if s.reporter != nil {
		execOpts = append(execOpts, downloader.WithReporter(s.reporter))
	}
	s.executor = downloader.NewExecutor(console, execOpts...)
	return s
}

// execute downloads one resolved media and records the attempt.
func (s *Service) execute(ctx context.Context, media *model.Media, ct model.ContentType, quality, playlistID string) (downloader.Outcome, error) {
	out, err := s.executor.Download(ctx, media, ct, quality, s.outDir)

	entry := history.NewEntry(media.URL, media.Title, ct)
	entry.PlaylistID = playlistID
	switch {
	case err != nil:
		entry.MarkFailed(err)
	case out.Status == downloader.StatusSkipped:
		entry.MarkSkipped(out.Reason.Error())
	default:
		entry.MarkDownloaded(out.Path, out.Stream.Resolution, out.Bytes)
	}
	s.record(entry)
	return out, err
}

// recordFailure stores an attempt that failed before any stream was chosen.
func (s *Service) recordFailure(url string, ct model.ContentType, playlistID string, err error) {
	entry := history.NewEntry(url, "", ct)
	entry.PlaylistID = playlistID
	entry.MarkFailed(err)
	s.record(entry)
}

func (s *Service) record(e *history.Entry) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(e); err != nil {
		s.logger.Warn("failed to record history", zap.String("url", e.URL), zap.Error(err))
	}
}

// quiet reports whether err has already been shown to the user or needs no message.
func quiet(err error) bool {
	return errors.Is(err, errAborted) ||
		errors.Is(err, ErrNoQualities) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled)
}
