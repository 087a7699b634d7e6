package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

var (
	// ErrInvalidInput reports input that is neither a video id nor a recognised URL.
	ErrInvalidInput = errors.New("invalid video reference")
	// ErrNotYouTube reports a URL on a host other than YouTube.
	ErrNotYouTube = errors.New("not a YouTube domain")

	videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// IsValidID reports whether id has the canonical 11-character shape.
func IsValidID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// CanonicalURL returns the watch URL for a canonical id.
func CanonicalURL(id string) string {
	return watchURLPrefix + id
}

// ExtractVideoID returns the canonical id named by input.
func ExtractVideoID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidInput)
	}
	if IsValidID(trimmed) {
		return trimmed, nil
	}

	raw := trimmed
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, trimmed)
	}

	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case host == "youtu.be" || strings.HasSuffix(host, ".youtu.be"):
		id = firstPathSegment(u.Path)
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		id = u.Query().Get("v")
		if id == "" {
			id = idFromPath(u.Path)
		}
		if id == "" {
			return "", fmt.Errorf("%w: no video id in %q", ErrInvalidInput, trimmed)
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrNotYouTube, host)
	}

	if !IsValidID(id) {
		return "", fmt.Errorf("%w: extracted id %q", ErrInvalidInput, id)
	}
	return id, nil
}

// Normalize returns the canonical id and watch URL for input.
func Normalize(input string) (string, string, error) {
	id, err := ExtractVideoID(input)
	if err != nil {
		return "", "", err
	}
	return id, CanonicalURL(id), nil
}

func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		path = path[:idx]
	}
	return path
}

func idFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	switch parts[0] {
	case "shorts", "embed", "live", "v":
		return parts[1]
	}
	return ""
}
