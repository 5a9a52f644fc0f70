package util

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseYouTubeURL checks that raw points at a YouTube host and returns the
// parsed URL. A missing scheme is tolerated and defaults to https.
func ParseYouTubeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("invalid URL %q: unsupported scheme %q", raw, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
		return u, nil
	default:
		return nil, fmt.Errorf("unsupported URL %q: only YouTube links are supported (youtube.com, youtu.be)", raw)
	}
}

// ValidateVideoURL accepts any YouTube link.
func ValidateVideoURL(raw string) error {
	_, err := ParseYouTubeURL(raw)
	return err
}

// ValidatePlaylistURL accepts YouTube links carrying a list= parameter.
func ValidatePlaylistURL(raw string) error {
	u, err := ParseYouTubeURL(raw)
	if err != nil {
		return err
	}
	if u.Query().Get("list") == "" {
		return fmt.Errorf("invalid playlist URL %q: missing list parameter", raw)
	}
	return nil
}
