package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"tubefetch/internal/downloader"
	"tubefetch/internal/model"
)

func progressiveStreams(media *model.Media) []model.Stream {
	return downloader.ProgressiveMP4(media.Streams)
}

// chooseQuality lists the distinct resolutions of streams, highest first,
// and keeps asking until a number in range is entered.
func (s *Service) chooseQuality(ctx context.Context, streams []model.Stream) (string, error) {
	qualities := downloader.Resolutions(streams)
	if len(qualities) == 0 {
		s.console.Warnf("No progressive (video+audio) streams available.\n")
		return "", ErrNoQualities
	}

	s.console.Printf("\nAvailable qualities:\n")
	for i, q := range qualities {
		s.console.Printf("%d. %s\n", i+1, q)
	}

	label := fmt.Sprintf("Choose quality (1-%d): ", len(qualities))
	for {
		answer, err := s.console.Prompt(ctx, label)
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			s.console.Errorf("Invalid input. Please enter a number.\n")
			continue
		}
		if n < 1 || n > len(qualities) {
			s.console.Errorf("Invalid choice. Please try again.\n")
			continue
		}
		return qualities[n-1], nil
	}
}
