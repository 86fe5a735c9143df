package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out", "results.json")
	if err := WriteFile(path, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("file contents got %q want %q", string(data), `{"ok":true}`)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short string untouched", in: "hello", max: 10, want: "hello"},
		{name: "exact length untouched", in: "hello", max: 5, want: "hello"},
		{name: "truncates with ellipsis", in: "hello world", max: 8, want: "hello..."},
		{name: "tiny max has no ellipsis", in: "hello", max: 2, want: "he"},
		{name: "zero max", in: "hello", max: 0, want: ""},
		{name: "multibyte runes", in: "héllö wörld", max: 8, want: "héllö..."},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tc.in, tc.max); got != tc.want {
				t.Fatalf("TruncateRunes(%q, %d) got %q want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	if got := FormatPercent(0.756); got != "75.6%" {
		t.Fatalf("FormatPercent(0.756) got %q want %q", got, "75.6%")
	}
	if got := FormatPercent(1); got != "100.0%" {
		t.Fatalf("FormatPercent(1) got %q want %q", got, "100.0%")
	}
}

func TestFormatScore(t *testing.T) {
	t.Parallel()

	if got := FormatScore(0.8); got != "0.800" {
		t.Fatalf("FormatScore(0.8) got %q want %q", got, "0.800")
	}
}
