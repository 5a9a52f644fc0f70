package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"tubefetch/internal/model"
	"tubefetch/internal/util"
)

// Run shows the main menu until the user exits or input ends. Cancelling
// ctx interrupts a waiting prompt or an in-flight download. Run returns
// ctx.Err() only after the interrupted step has cleaned up.
func (s *Service) Run(ctx context.Context) error {
	if err := util.EnsureDir(s.outDir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return s.loop(ctx)
}

func (s *Service) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.console.Heading("--- YouTube Downloader ---")
		s.console.Println("1 - Download a single video")
		s.console.Println("2 - Download a playlist")
		s.console.Println("3 - Exit")
		choice, err := s.console.Prompt(ctx, "Choose an option: ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case "3":
			return nil
		case "1", "2":
		default:
			s.console.Errorf("Invalid choice, please try again.\n")
			continue
		}

		url, err := s.console.Prompt(ctx, "Enter YouTube URL: ")
		if err != nil {
			return endOfInput(err)
		}
		if url == "" {
			s.console.Errorf("URL cannot be empty.\n")
			continue
		}

		if choice == "1" {
			err = s.DownloadSingle(ctx, url)
		} else {
			_, err = s.DownloadPlaylist(ctx, url)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// DownloadSingle resolves url, asks for the file type and quality, then
// downloads it. Failures are reported on the console and returned.
func (s *Service) DownloadSingle(ctx context.Context, url string) error {
	err := s.downloadSingle(ctx, url)
	if err != nil && !quiet(err) {
		s.console.Errorf("\nAn error occurred: %v\n\n", err)
		s.logger.Error("video download failed", zap.String("url", url), zap.Error(err))
	}
	return err
}

func (s *Service) downloadSingle(ctx context.Context, url string) error {
	if err := util.ValidateVideoURL(url); err != nil {
		return err
	}
	media, err := s.resolver.Resolve(ctx, url)
	if err != nil {
		return err
	}
	s.console.Printf("\nTitle: %s\n", media.Title)

	ct, err := s.chooseContentType(ctx)
	if err != nil {
		return err
	}

	var quality string
	if ct == model.ContentVideo {
		quality, err = s.chooseQuality(ctx, progressiveStreams(media))
		if err != nil {
			return err
		}
	}

	_, err = s.execute(ctx, media, ct, quality, "")
	return err
}

// chooseContentType asks for video or audio. Anything else aborts.
func (s *Service) chooseContentType(ctx context.Context) (model.ContentType, error) {
	s.console.Printf("\n")
	s.console.Println("1 - Video (MP4, with audio)")
	s.console.Println("2 - Audio only (MP3)")
	choice, err := s.console.Prompt(ctx, "Choose file type: ")
	if err != nil {
		return "", err
	}
	switch choice {
	case "1":
		return model.ContentVideo, nil
	case "2":
		return model.ContentAudio, nil
	default:
		s.console.Errorf("Invalid choice. Aborting.\n")
		return "", errAborted
	}
}
