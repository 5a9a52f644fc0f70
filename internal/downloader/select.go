package downloader

import (
	"sort"
	"strconv"
	"strings"

	"tubefetch/internal/model"
)

// Resolutions returns the distinct non-empty resolutions of streams,
// highest first. Labels that do not parse as "<n><unit>" sort as 0.
func Resolutions(streams []model.Stream) []string {
	seen := make(map[string]struct{}, len(streams))
	out := make([]string, 0, len(streams))
	for _, s := range streams {
		if s.Resolution == "" {
			continue
		}
		if _, ok := seen[s.Resolution]; ok {
			continue
		}
		seen[s.Resolution] = struct{}{}
		out = append(out, s.Resolution)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return resolutionValue(out[i]) > resolutionValue(out[j])
	})
	return out
}

// resolutionValue strips the trailing unit character: "1080p" -> 1080.
func resolutionValue(r string) int {
	r = strings.TrimSpace(r)
	if len(r) < 2 {
		return 0
	}
	n, err := strconv.Atoi(r[:len(r)-1])
	if err != nil {
		return 0
	}
	return n
}

// ProgressiveMP4 filters streams down to progressive MP4 renditions, keeping order.
func ProgressiveMP4(streams []model.Stream) []model.Stream {
	var out []model.Stream
	for _, s := range streams {
		if s.Progressive && strings.EqualFold(s.Extension, "mp4") {
			out = append(out, s)
		}
	}
	return out
}

// SelectVideo picks the first progressive MP4 stream at quality. When none
// matches it falls back to the highest-resolution progressive MP4 and
// reports fellBack=true. Returns nil when no progressive MP4 exists.
func SelectVideo(streams []model.Stream, quality string) (stream *model.Stream, fellBack bool) {
	candidates := ProgressiveMP4(streams)
	for i := range candidates {
		if candidates[i].Resolution == quality {
			return &candidates[i], false
		}
	}
	if len(candidates) == 0 {
		return nil, true
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return resolutionValue(candidates[i].Resolution) > resolutionValue(candidates[j].Resolution)
	})
	return &candidates[0], true
}

// SelectAudio picks the first audio-only stream, or nil.
func SelectAudio(streams []model.Stream) *model.Stream {
	for i := range streams {
		if streams[i].AudioOnly {
			s := streams[i]
			return &s
		}
	}
	return nil
}
