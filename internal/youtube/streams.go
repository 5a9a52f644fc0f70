package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ytlib "github.com/kkdai/youtube/v2"

	"tubefetch/internal/model"
	"tubefetch/internal/progress"
	"tubefetch/internal/util"
)

func toStreams(client streamClient, video *ytlib.Video) []model.Stream {
	streams := make([]model.Stream, 0, len(video.Formats))
	for i := range video.Formats {
		f := video.Formats[i]
		audioOnly := f.AudioChannels > 0 && f.Width == 0 && f.Height == 0
		progressive := f.AudioChannels > 0 && f.Width > 0 && f.Height > 0
		ext := mimeToExt(f.MimeType, audioOnly)

		s := model.Stream{
			Itag:        f.ItagNo,
			MimeType:    f.MimeType,
			Extension:   ext,
			Progressive: progressive,
			AudioOnly:   audioOnly,
			Filesize:    f.ContentLength,
			Bitrate:     f.Bitrate,
		}
		if !audioOnly {
			s.Resolution = resolutionLabel(f.QualityLabel, f.Height)
		}
		s.Fetcher = &formatFetcher{
			client:   client,
			video:    video,
			format:   f,
			filename: util.SanitizeFilename(video.Title) + "." + ext,
		}
		streams = append(streams, s)
	}
	return streams
}

// resolutionLabel normalises "720p60" or "1080p HDR" to "720p"/"1080p".
// Falls back to the pixel height when the label has no leading digits.
func resolutionLabel(qualityLabel string, height int) string {
	end := 0
	for end < len(qualityLabel) && qualityLabel[end] >= '0' && qualityLabel[end] <= '9' {
		end++
	}
	if end > 0 {
		return qualityLabel[:end] + "p"
	}
	if height > 0 {
		return strconv.Itoa(height) + "p"
	}
	return ""
}

func mimeToExt(mime string, audioOnly bool) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(strings.TrimSpace(mime), "/")
	if len(parts) != 2 {
		return "bin"
	}
	switch parts[1] {
	case "3gpp":
		return "3gp"
	case "mp4":
		if audioOnly {
			return "m4a"
		}
		return "mp4"
	default:
		return parts[1]
	}
}

type formatFetcher struct {
	client   streamClient
	video    *ytlib.Video
	format   ytlib.Format
	filename string
}

// Fetch streams the format into dir/<title>.<ext>. A partial file is
// removed when the copy fails.
func (f *formatFetcher) Fetch(ctx context.Context, dir string, report progress.Func) (string, error) {
	path := filepath.Join(dir, f.filename)

	stream, size, err := f.client.GetStreamContext(ctx, f.video, &f.format)
	if err != nil {
		return "", fmt.Errorf("starting stream: %w", err)
	}
	defer stream.Close()

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("opening output file: %w", err)
	}

	pw := progress.NewWriter(size, report)
	_, copyErr := io.Copy(io.MultiWriter(file, pw), &ctxReader{ctx: ctx, r: stream})
	closeErr := file.Close()
	if copyErr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("download failed: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing output file: %w", closeErr)
	}
	return path, nil
}

// ctxReader stops a copy once ctx is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
