package utils

import "testing"

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"notes.txt", "text/plain; charset=utf-8"},
		{"README.md", "text/plain; charset=utf-8"},
		{"app.log", "text/plain; charset=utf-8"},
		{"config.yaml", "text/plain; charset=utf-8"},
		{"report.pdf", "application/pdf"},
		{"payload.json", "application/json"},
		{"page.html", "text/html; charset=utf-8"},
		{"blob.unknown-ext", "application/octet-stream"},
		{"no-extension", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := DetectContentType(tt.name); got != tt.want {
			t.Errorf("DetectContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
