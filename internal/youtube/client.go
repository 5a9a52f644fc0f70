// Package youtube resolves YouTube links into media and playlist metadata
// using github.com/kkdai/youtube and exposes each format as a downloadable stream.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	ytlib "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"tubefetch/internal/model"
)

const defaultPlaylistTitle = "Playlist"

// streamClient is the subset of *ytlib.Client used to download a format.
type streamClient interface {
	GetStreamContext(ctx context.Context, video *ytlib.Video, format *ytlib.Format) (io.ReadCloser, int64, error)
}

// metadataClient is the subset of *ytlib.Client used to resolve links.
type metadataClient interface {
	GetVideoContext(ctx context.Context, url string) (*ytlib.Video, error)
	GetPlaylistContext(ctx context.Context, url string) (*ytlib.Playlist, error)
}

// Client wraps the extraction library.
type Client struct {
	meta    metadataClient
	stream  streamClient
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a Client.
func New(opts ...Option) *Client {
	c := &Client{logger: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	yt := &ytlib.Client{
		HTTPClient: &http.Client{Timeout: c.timeout},
	}
	c.meta, c.stream = yt, yt
	return c
}

// Resolve fetches video metadata and its stream list.
func (c *Client) Resolve(ctx context.Context, url string) (*model.Media, error) {
	c.logger.Debug("resolving video", zap.String("url", url))
	video, err := c.meta.GetVideoContext(ctx, url)
	if err != nil {
		return nil, wrapAccessError(fmt.Errorf("fetching video: %w", err))
	}
	m := &model.Media{
		ID:       video.ID,
		URL:      url,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
		Streams:  toStreams(c.stream, video),
	}
	c.logger.Debug("resolved video",
		zap.String("id", m.ID),
		zap.String("title", m.Title),
		zap.Int("streams", len(m.Streams)),
	)
	return m, nil
}

// ResolvePlaylist fetches the playlist title and member video URLs. An
// empty playlist is not an error here.
func (c *Client) ResolvePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	c.logger.Debug("resolving playlist", zap.String("url", url))
	pl, err := c.meta.GetPlaylistContext(ctx, url)
	if err != nil {
		return nil, wrapAccessError(fmt.Errorf("fetching playlist: %w", err))
	}
	out := toPlaylist(pl, url)
	c.logger.Debug("resolved playlist",
		zap.String("id", out.ID),
		zap.String("title", out.Title),
		zap.Int("videos", len(out.VideoURLs)),
	)
	return out, nil
}

func toPlaylist(pl *ytlib.Playlist, url string) *model.Playlist {
	out := &model.Playlist{
		ID:     pl.ID,
		URL:    url,
		Title:  pl.Title,
		Author: pl.Author,
	}
	if out.Title == "" {
		out.Title = defaultPlaylistTitle
	}
	for _, entry := range pl.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		out.VideoURLs = append(out.VideoURLs, watchURLForID(entry.ID))
	}
	return out
}

func watchURLForID(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func wrapAccessError(err error) error {
	switch {
	case errors.Is(err, ytlib.ErrLoginRequired),
		errors.Is(err, ytlib.ErrVideoPrivate):
		return fmt.Errorf("restricted access: %w", err)
	}
	return err
}
