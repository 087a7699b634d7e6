package youtube

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare id", input: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "bare id with whitespace", input: "  dQw4w9WgXcQ\n", want: "dQw4w9WgXcQ"},
		{name: "watch url", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url extra params", input: "https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{name: "mobile host", input: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "scheme-less watch url", input: "youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link", input: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link with timestamp", input: "youtu.be/dQw4w9WgXcQ?t=10", want: "dQw4w9WgXcQ"},
		{name: "shorts path", input: "https://www.youtube.com/shorts/abc12345678", want: "abc12345678"},
		{name: "embed path", input: "https://www.youtube.com/embed/abc-_123456", want: "abc-_123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractVideoIDRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "   ", wantErr: ErrInvalidInput},
		{name: "short id", input: "abc", wantErr: ErrNotYouTube},
		{name: "bad characters", input: "abc!2345678"},
		{name: "missing v", input: "https://www.youtube.com/watch?list=PL1", wantErr: ErrInvalidInput},
		{name: "bad v", input: "https://www.youtube.com/watch?v=short", wantErr: ErrInvalidInput},
		{name: "empty short link", input: "https://youtu.be/", wantErr: ErrInvalidInput},
		{name: "other host", input: "https://vimeo.com/12345678901", wantErr: ErrNotYouTube},
		{name: "lookalike host", input: "https://notyoutube.com/watch?v=dQw4w9WgXcQ", wantErr: ErrNotYouTube},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractVideoID(tt.input)
			if err == nil {
				t.Fatalf("ExtractVideoID(%q) expected error", tt.input)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExtractVideoID(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeReturnsCanonicalURL(t *testing.T) {
	id, url, err := Normalize("youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if id != "dQw4w9WgXcQ" {
		t.Fatalf("id = %q", id)
	}
	if url != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("url = %q", url)
	}
}

func TestIsValidID(t *testing.T) {
	if !IsValidID("abc12345678") {
		t.Fatal("expected 11-char id to be valid")
	}
	for _, id := range []string{"", "abc1234567", "abc123456789", "abc 2345678"} {
		if IsValidID(id) {
			t.Fatalf("IsValidID(%q) = true", id)
		}
	}
}
