package naming

import (
	"strings"
	"testing"

	"github.com/local/pdfmeta/internal/metadata"
)

func TestSanitize(t *testing.T) {
	b := NewBuilder(100)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty becomes Unknown", input: "", expected: "Unknown"},
		{name: "sentinel becomes Unknown", input: metadata.NotFound, expected: "Unknown"},
		{name: "reserved characters removed", input: `A<B>C:D"E/F\G|H?I*J`, expected: "ABCDEFGHIJ"},
		{name: "newlines collapse to spaces", input: "A Long\nTitle  With\n\nBreaks", expected: "A Long Title With Breaks"},
		{name: "symbol denylist removed", input: "Title† with‡ symbols§ #1 @100%", expected: "Title with symbols 1 100"},
		{name: "surrounding whitespace trimmed", input: "  padded  ", expected: "padded"},
		{name: "plain text unchanged", input: "Deep Learning", expected: "Deep Learning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeNeverEmitsForbiddenCharacters(t *testing.T) {
	b := NewBuilder(100)
	inputs := []string{
		`<>:"/\|?*`,
		"†‡§¶#@$%^&*+={}[]~`",
		"mixed: <title> #42 {draft}\nwith\twhitespace",
		strings.Repeat("x<>y", 200),
	}

	for _, input := range inputs {
		got := b.Sanitize(input)
		if strings.ContainsAny(got, `<>:"/\|?*`+"†‡§¶#@$%^&+={}[]~`") {
			t.Errorf("Sanitize(%q) = %q contains forbidden characters", input, got)
		}
		if len([]rune(got)) > 100 {
			t.Errorf("Sanitize(%q) exceeds max length: %d runes", input, len([]rune(got)))
		}
	}
}

func TestSanitizeTruncation(t *testing.T) {
	b := NewBuilder(10)
	if got := b.Sanitize(strings.Repeat("a", 50)); got != strings.Repeat("a", 10) {
		t.Errorf("expected 10 runes, got %q", got)
	}
}

func TestReduceAuthor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "and separator wins over comma", input: "Smith, J. and Jones, K.", expected: "Smith, J."},
		{name: "case-insensitive and", input: "Smith AND Jones", expected: "Smith"},
		{name: "ampersand separator", input: "Smith, J. & Jones, K.", expected: "Smith, J."},
		{name: "semicolon separator", input: "Smith, J.; Jones, K.", expected: "Smith, J."},
		{name: "single surname-initial pair preserved", input: "Smith, J.", expected: "Smith, J."},
		{name: "generational suffix preserved", input: "Smith, Jr.", expected: "Smith, Jr."},
		{name: "suffix with second comma preserved", input: "Smith, Jr., John", expected: "Smith, Jr., John"},
		{name: "comma-separated author list reduced", input: "Smith, Jones, Lee", expected: "Smith"},
		{name: "single name unchanged", input: "Smith", expected: "Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reduceAuthor(tt.input); got != tt.expected {
				t.Errorf("reduceAuthor(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	b := NewBuilder(100)

	tests := []struct {
		name     string
		rec      metadata.Record
		expected string
	}{
		{
			name:     "all fields present",
			rec:      metadata.Record{Title: "T", Author: "A", Year: "2021"},
			expected: "2021 - A - T.pdf",
		},
		{
			name:     "sentinel fields become Unknown",
			rec:      metadata.Record{Title: metadata.NotFound, Author: metadata.NotFound, Year: metadata.NotFound},
			expected: "Unknown - Unknown - Unknown.pdf",
		},
		{
			name:     "multi-author reduced to first",
			rec:      metadata.Record{Title: "Paper", Author: "Smith, J. and Jones, K.", Year: "2020"},
			expected: "2020 - Smith, J. - Paper.pdf",
		},
		{
			name:     "reserved characters stripped from title",
			rec:      metadata.Record{Title: "What is Life?", Author: "Schrödinger", Year: "1944"},
			expected: "1944 - Schrödinger - What is Life.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Filename(tt.rec); got != tt.expected {
				t.Errorf("Filename() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFilenameDeterministic(t *testing.T) {
	b := NewBuilder(100)
	rec := metadata.Record{Title: "Stable Title", Author: "Smith, J. and Jones, K.", Year: "2019"}

	first := b.Filename(rec)
	for i := 0; i < 10; i++ {
		if got := b.Filename(rec); got != first {
			t.Fatalf("Filename not deterministic: %q vs %q", got, first)
		}
	}
}
