package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tubefetch/internal/downloader"
	"tubefetch/internal/model"
	"tubefetch/internal/util"
)

// Summary counts what happened to each playlist entry.
type Summary struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
}

// DownloadPlaylist downloads every video of the playlist at url with one
// content type and, for video, one quality chosen from the first entry.
// Per-video failures are reported and skipped. Playlist-level failures are
// reported on the console and returned.
func (s *Service) DownloadPlaylist(ctx context.Context, url string) (Summary, error) {
	sum, err := s.downloadPlaylist(ctx, url)
	if err != nil && !quiet(err) {
		s.console.Errorf("\nAn error occurred with the playlist: %v\n", err)
		s.logger.Error("playlist download failed", zap.String("url", url), zap.Error(err))
	}
	return sum, err
}

func (s *Service) downloadPlaylist(ctx context.Context, url string) (Summary, error) {
	var sum Summary
	if err := util.ValidatePlaylistURL(url); err != nil {
		return sum, err
	}
	pl, err := s.resolver.ResolvePlaylist(ctx, url)
	if err != nil {
		return sum, err
	}
	sum.Total = len(pl.VideoURLs)
	s.console.Printf("\nPlaylist: %s\n", pl.Title)
	s.console.Printf("Total videos: %d\n", sum.Total)
	if sum.Total == 0 {
		return sum, ErrEmptyPlaylist
	}
	s.logger.Info("playlist resolved",
		zap.String("id", pl.ID),
		zap.String("title", pl.Title),
		zap.Int("videos", sum.Total),
	)

	ct, err := s.chooseContentType(ctx)
	if err != nil {
		return sum, err
	}

	var quality string
	if ct == model.ContentVideo {
		sample, err := s.resolver.Resolve(ctx, pl.VideoURLs[0])
		if err != nil {
			return sum, fmt.Errorf("resolving first video: %w", err)
		}
		quality, err = s.chooseQuality(ctx, progressiveStreams(sample))
		if err != nil {
			return sum, err
		}
	}

	for i, videoURL := range pl.VideoURLs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		log := s.logger.With(zap.String("url", videoURL), zap.Int("index", i+1))

		out, err := s.playlistEntry(ctx, videoURL, ct, quality, pl.ID)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return sum, err
			}
			sum.Failed++
			s.console.Errorf("\nError downloading %s: %v. Skipping.\n", videoURL, err)
			log.Error("playlist entry failed", zap.Error(err))
			continue
		}
		if out.Status == downloader.StatusSkipped {
			sum.Skipped++
			continue
		}
		sum.Downloaded++
	}

	s.console.Successf("\nAll playlist videos processed!\n")
	s.console.Printf("Downloaded: %d, skipped: %d, failed: %d\n\n", sum.Downloaded, sum.Skipped, sum.Failed)
	return sum, nil
}

func (s *Service) playlistEntry(ctx context.Context, videoURL string, ct model.ContentType, quality, playlistID string) (downloader.Outcome, error) {
	media, err := s.resolver.Resolve(ctx, videoURL)
	if err != nil {
		s.recordFailure(videoURL, ct, playlistID, err)
		return downloader.Outcome{}, err
	}
	return s.execute(ctx, media, ct, quality, playlistID)
}
