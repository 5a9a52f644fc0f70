package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubefetch/internal/model"
	"tubefetch/internal/progress"
)

type recordingConsole struct {
	lines []string
	warns []string
}

func (c *recordingConsole) Printf(format string, a ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) Warnf(format string, a ...any) {
	c.warns = append(c.warns, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) output() string {
	return strings.Join(c.lines, "")
}

type recordingReporter struct {
	updates []progress.Update
}

func (r *recordingReporter) Update(u progress.Update) {
	r.updates = append(r.updates, u)
}

// fileFetcher writes name into dir with fixed content.
type fileFetcher struct {
	name  string
	body  string
	err   error
	calls int
}

func (f *fileFetcher) Fetch(ctx context.Context, dir string, report progress.Func) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(dir, f.name)
	if err := os.WriteFile(path, []byte(f.body), 0o644); err != nil {
		return "", err
	}
	if report != nil {
		report(int64(len(f.body)), int64(len(f.body)))
	}
	return path, nil
}

func TestDownloadVideoExactQuality(t *testing.T) {
	dir := t.TempDir()
	hi := &fileFetcher{name: "clip.mp4", body: "720"}
	lo := &fileFetcher{name: "clip.mp4", body: "360"}
	media := &model.Media{
		Title: "clip",
		Streams: []model.Stream{
			{Itag: 22, Resolution: "720p", Extension: "mp4", Progressive: true, Fetcher: hi},
			{Itag: 18, Resolution: "360p", Extension: "mp4", Progressive: true, Fetcher: lo},
		},
	}
	console := &recordingConsole{}
	rep := &recordingReporter{}
	ex := NewExecutor(console, WithReporter(rep))

	out, err := ex.Download(context.Background(), media, model.ContentVideo, "360p", dir)
	require.NoError(t, err)
	assert.Equal(t, StatusDownloaded, out.Status)
	assert.Equal(t, 18, out.Stream.Itag)
	assert.Equal(t, filepath.Join(dir, "clip.mp4"), out.Path)
	assert.EqualValues(t, 3, out.Bytes)
	assert.Equal(t, 0, hi.calls)
	assert.Equal(t, 1, lo.calls)
	assert.Empty(t, console.warns)
	assert.Contains(t, console.output(), "Downloading: 'clip' (360p)")
	assert.Contains(t, console.output(), "Finished!")

	require.NotEmpty(t, rep.updates)
	assert.Equal(t, progress.StageCompleted, rep.updates[len(rep.updates)-1].Stage)
}

func TestDownloadVideoFallsBackToHighest(t *testing.T) {
	dir := t.TempDir()
	hi := &fileFetcher{name: "clip.mp4", body: "720"}
	lo := &fileFetcher{name: "clip.mp4", body: "360"}
	media := &model.Media{
		Title: "clip",
		Streams: []model.Stream{
			{Itag: 18, Resolution: "360p", Extension: "mp4", Progressive: true, Fetcher: lo},
			{Itag: 22, Resolution: "720p", Extension: "mp4", Progressive: true, Fetcher: hi},
		},
	}
	console := &recordingConsole{}
	ex := NewExecutor(console)

	out, err := ex.Download(context.Background(), media, model.ContentVideo, "1080p", dir)
	require.NoError(t, err)
	assert.Equal(t, 22, out.Stream.Itag)
	assert.Equal(t, 1, hi.calls)
	assert.Equal(t, 0, lo.calls)
	require.Len(t, console.warns, 1)
	assert.Equal(t, "Quality 1080p not available for 'clip'. Falling back to highest available.\n", console.warns[0])
}

func TestDownloadSkipsWithoutStream(t *testing.T) {
	tests := []struct {
		name string
		ct   model.ContentType
	}{
		{name: "video", ct: model.ContentVideo},
		{name: "audio", ct: model.ContentAudio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videoOnly := &fileFetcher{name: "x.webm"}
			media := &model.Media{
				Title:   "nothing",
				Streams: []model.Stream{{Itag: 248, Resolution: "1080p", Extension: "webm", Fetcher: videoOnly}},
			}
			console := &recordingConsole{}
			out, err := NewExecutor(console).Download(context.Background(), media, tt.ct, "1080p", t.TempDir())
			require.NoError(t, err)
			assert.Equal(t, StatusSkipped, out.Status)
			assert.ErrorIs(t, out.Reason, ErrNoStream)
			assert.Equal(t, 0, videoOnly.calls)
			require.Len(t, console.warns, 1)
			assert.Equal(t, "Could not find a suitable stream for 'nothing'. Skipping.\n", console.warns[0])
		})
	}
}

func TestDownloadAudioRenamesToMP3(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(stale, []byte("old run"), 0o644))

	audio := &fileFetcher{name: "song.m4a", body: "fresh"}
	media := &model.Media{
		Title: "song",
		Streams: []model.Stream{
			{Itag: 18, Resolution: "360p", Extension: "mp4", Progressive: true, Fetcher: &fileFetcher{name: "song.mp4"}},
			{Itag: 140, Extension: "m4a", AudioOnly: true, Fetcher: audio},
		},
	}
	console := &recordingConsole{}
	out, err := NewExecutor(console).Download(context.Background(), media, model.ContentAudio, "", dir)
	require.NoError(t, err)

	assert.Equal(t, stale, out.Path)
	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))

	_, err = os.Stat(filepath.Join(dir, "song.m4a"))
	assert.True(t, os.IsNotExist(err), "container file should be renamed away")
	assert.Contains(t, console.output(), "Downloading: 'song' (Audio)")
	assert.Contains(t, console.output(), "Renamed to: "+stale)
}

func TestDownloadPropagatesFetchError(t *testing.T) {
	boom := errors.New("network down")
	media := &model.Media{
		Title:   "clip",
		Streams: []model.Stream{{Itag: 18, Resolution: "360p", Extension: "mp4", Progressive: true, Fetcher: &fileFetcher{err: boom}}},
	}
	rep := &recordingReporter{}
	_, err := NewExecutor(&recordingConsole{}, WithReporter(rep)).Download(context.Background(), media, model.ContentVideo, "360p", t.TempDir())
	require.ErrorIs(t, err, boom)
	require.NotEmpty(t, rep.updates)
	assert.Equal(t, progress.StageError, rep.updates[len(rep.updates)-1].Stage)
}
