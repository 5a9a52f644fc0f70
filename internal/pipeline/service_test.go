package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubefetch/internal/history"
	"tubefetch/internal/model"
	"tubefetch/internal/progress"
	"tubefetch/internal/ui"
)

type fakeFetcher struct {
	name  string
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, dir string, report progress.Func) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(dir, f.name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		return "", err
	}
	if report != nil {
		report(5, 5)
	}
	return path, nil
}

// blockingFetcher writes a partial file, waits for cancellation, then
// cleans up after a delay like a network read unwinding.
type blockingFetcher struct {
	name    string
	started chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context, dir string, report progress.Func) (string, error) {
	path := filepath.Join(dir, f.name)
	if err := os.WriteFile(path, []byte("partial"), 0o644); err != nil {
		return "", err
	}
	close(f.started)
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	_ = os.Remove(path)
	return "", fmt.Errorf("download failed: %w", ctx.Err())
}

type fakeResolver struct {
	media     map[string]*model.Media
	errs      map[string]error
	playlists map[string]*model.Playlist
	calls     []string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		media:     map[string]*model.Media{},
		errs:      map[string]error{},
		playlists: map[string]*model.Playlist{},
	}
}

func (r *fakeResolver) Resolve(ctx context.Context, url string) (*model.Media, error) {
	r.calls = append(r.calls, url)
	if err, ok := r.errs[url]; ok {
		return nil, err
	}
	m, ok := r.media[url]
	if !ok {
		return nil, errors.New("video unavailable")
	}
	return m, nil
}

func (r *fakeResolver) ResolvePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	r.calls = append(r.calls, url)
	if err, ok := r.errs[url]; ok {
		return nil, err
	}
	pl, ok := r.playlists[url]
	if !ok {
		return nil, errors.New("playlist unavailable")
	}
	return pl, nil
}

type fakeRecorder struct {
	entries []*history.Entry
}

func (r *fakeRecorder) Record(e *history.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

// mediaFixture returns a video with 360p/720p progressive MP4, a 1080p
// video-only stream and an audio-only stream.
func mediaFixture(url, title string) (*model.Media, map[string]*fakeFetcher) {
	f := map[string]*fakeFetcher{
		"360p":  {name: title + ".mp4"},
		"720p":  {name: title + ".mp4"},
		"1080p": {name: title + ".mp4"},
		"audio": {name: title + ".m4a"},
	}
	return &model.Media{
		URL:   url,
		Title: title,
		Streams: []model.Stream{
			{Itag: 18, Resolution: "360p", Extension: "mp4", Progressive: true, Fetcher: f["360p"]},
			{Itag: 22, Resolution: "720p", Extension: "mp4", Progressive: true, Fetcher: f["720p"]},
			{Itag: 137, Resolution: "1080p", Extension: "mp4", Fetcher: f["1080p"]},
			{Itag: 140, Extension: "m4a", AudioOnly: true, Fetcher: f["audio"]},
		},
	}, f
}

type harness struct {
	svc      *Service
	resolver *fakeResolver
	recorder *fakeRecorder
	out      *bytes.Buffer
	outDir   string
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	h := &harness{
		resolver: newFakeResolver(),
		recorder: &fakeRecorder{},
		out:      &bytes.Buffer{},
		outDir:   filepath.Join(t.TempDir(), "downloads"),
	}
	console := ui.NewConsole(strings.NewReader(input), h.out, ui.WithColor(false))
	h.svc = NewService(console,
		WithResolver(h.resolver),
		WithRecorder(h.recorder),
		WithOutDir(h.outDir),
	)
	return h
}

func TestRunRejectsInvalidMenuChoices(t *testing.T) {
	h := newHarness(t, "0\nfoo\n4\n\n3\n")

	require.NoError(t, h.svc.Run(context.Background()))
	assert.Equal(t, 4, strings.Count(h.out.String(), "Invalid choice, please try again."))
	assert.Empty(t, h.resolver.calls)
	assert.NotContains(t, h.out.String(), "Enter YouTube URL")
}

func TestRunEmptyURLDoesNotResolve(t *testing.T) {
	h := newHarness(t, "1\n\n2\n   \n3\n")

	require.NoError(t, h.svc.Run(context.Background()))
	assert.Equal(t, 2, strings.Count(h.out.String(), "URL cannot be empty."))
	assert.Empty(t, h.resolver.calls)
}

func TestRunCreatesOutputDirAndExitsOnEOF(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.svc.Run(context.Background()))
	fi, err := os.Stat(h.outDir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	assert.Contains(t, h.out.String(), "--- YouTube Downloader ---")
}

func TestRunReturnsWhenContextCancelled(t *testing.T) {
	h := newHarness(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCancelWaitsForDownloadCleanup(t *testing.T) {
	const url = "https://youtu.be/X"
	h := newHarness(t, "1\n"+url+"\n2\n")
	fetcher := &blockingFetcher{name: "Clip.m4a", started: make(chan struct{})}
	h.resolver.media[url] = &model.Media{
		URL:     url,
		Title:   "Clip",
		Streams: []model.Stream{{Itag: 140, Extension: "m4a", AudioOnly: true, Fetcher: fetcher}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.svc.Run(ctx) }()

	select {
	case <-fetcher.started:
	case <-time.After(5 * time.Second):
		t.Fatal("download never started")
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.NoFileExists(t, filepath.Join(h.outDir, "Clip.m4a"))
	assert.NoFileExists(t, filepath.Join(h.outDir, "Clip.mp3"))
	assert.NotContains(t, h.out.String(), "An error occurred")
}

func TestRunCancelDuringPrompt(t *testing.T) {
	stdin, _ := io.Pipe()
	out := &bytes.Buffer{}
	svc := NewService(ui.NewConsole(stdin, out, ui.WithColor(false)),
		WithResolver(newFakeResolver()),
		WithOutDir(filepath.Join(t.TempDir(), "downloads")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return while waiting on input")
	}
}

func TestEndToEndSingleVideoHighestQuality(t *testing.T) {
	const url = "https://youtu.be/X"
	h := newHarness(t, "1\n"+url+"\n1\n1\n3\n")
	media, fetchers := mediaFixture(url, "Clip")
	h.resolver.media[url] = media

	require.NoError(t, h.svc.Run(context.Background()))

	assert.Equal(t, 1, fetchers["720p"].calls, "highest progressive MP4 must be fetched once")
	assert.Equal(t, 0, fetchers["360p"].calls)
	assert.Equal(t, 0, fetchers["1080p"].calls)
	assert.Equal(t, 0, fetchers["audio"].calls)

	_, err := os.Stat(filepath.Join(h.outDir, "Clip.mp4"))
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "Title: Clip")
	assert.Contains(t, out, "Available qualities:\n1. 720p\n2. 360p\n")
	assert.Contains(t, out, "Downloading: 'Clip' (720p)")
	assert.Contains(t, out, "Finished!")

	require.Len(t, h.recorder.entries, 1)
	assert.Equal(t, history.StatusDownloaded, h.recorder.entries[0].Status)
	assert.Equal(t, "720p", h.recorder.entries[0].Resolution)
}

func TestSingleAudioDownloadRenamesToMP3(t *testing.T) {
	const url = "https://www.youtube.com/watch?v=abc"
	h := newHarness(t, "1\n"+url+"\n2\n3\n")
	media, fetchers := mediaFixture(url, "Song")
	h.resolver.media[url] = media

	require.NoError(t, h.svc.Run(context.Background()))

	assert.Equal(t, 1, fetchers["audio"].calls)
	_, err := os.Stat(filepath.Join(h.outDir, "Song.mp3"))
	require.NoError(t, err)
	assert.NotContains(t, h.out.String(), "Available qualities")
}

func TestSingleInvalidFileTypeAborts(t *testing.T) {
	const url = "https://youtu.be/X"
	h := newHarness(t, "1\n"+url+"\n9\n3\n")
	media, fetchers := mediaFixture(url, "Clip")
	h.resolver.media[url] = media

	require.NoError(t, h.svc.Run(context.Background()))
	assert.Contains(t, h.out.String(), "Invalid choice. Aborting.")
	for _, f := range fetchers {
		assert.Equal(t, 0, f.calls)
	}
	assert.NotContains(t, h.out.String(), "An error occurred")
}

func TestSingleResolveErrorReturnsToMenu(t *testing.T) {
	const url = "https://youtu.be/missing"
	h := newHarness(t, "1\n"+url+"\n3\n")

	require.NoError(t, h.svc.Run(context.Background()))
	assert.Contains(t, h.out.String(), "An error occurred: video unavailable")
	assert.Equal(t, 2, strings.Count(h.out.String(), "--- YouTube Downloader ---"))
}

func TestSingleRejectsNonYouTubeURL(t *testing.T) {
	h := newHarness(t, "1\nhttps://vimeo.com/1\n3\n")

	require.NoError(t, h.svc.Run(context.Background()))
	assert.Contains(t, h.out.String(), "An error occurred: unsupported URL")
	assert.Empty(t, h.resolver.calls)
}

func TestSingleWithoutProgressiveStreams(t *testing.T) {
	const url = "https://youtu.be/X"
	h := newHarness(t, "1\n"+url+"\n1\n3\n")
	audioOnly := &fakeFetcher{name: "a.m4a"}
	h.resolver.media[url] = &model.Media{
		URL:     url,
		Title:   "Audio only",
		Streams: []model.Stream{{Itag: 140, Extension: "m4a", AudioOnly: true, Fetcher: audioOnly}},
	}

	require.NoError(t, h.svc.Run(context.Background()))
	assert.Contains(t, h.out.String(), "No progressive (video+audio) streams available.")
	assert.Equal(t, 0, audioOnly.calls)
	assert.Empty(t, h.recorder.entries)
}
