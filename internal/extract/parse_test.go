package extract

import (
	"strings"
	"testing"

	"github.com/local/pdfmeta/internal/metadata"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		title  string
		author string
		year   string
	}{
		{
			name:   "plain json",
			raw:    `{"title":"T","author":"A","year":"2021","source_filename":"model-guess.pdf"}`,
			title:  "T",
			author: "A",
			year:   "2021",
		},
		{
			name:   "fenced json with tag",
			raw:    "```json\n{\"title\":\"T\",\"author\":\"A\",\"year\":\"2021\"}\n```",
			title:  "T",
			author: "A",
			year:   "2021",
		},
		{
			name:   "fenced json without tag",
			raw:    "```\n{\"title\":\"T\",\"author\":\"A\",\"year\":\"2021\"}\n```",
			title:  "T",
			author: "A",
			year:   "2021",
		},
		{
			name:   "json wrapped in prose",
			raw:    "Here is the extracted metadata:\n{\"title\":\"T\",\"author\":\"A\",\"year\":\"2021\"}\nLet me know if you need more.",
			title:  "T",
			author: "A",
			year:   "2021",
		},
		{
			name:   "missing fields get sentinel",
			raw:    `{"title":"T"}`,
			title:  "T",
			author: metadata.NotFound,
			year:   metadata.NotFound,
		},
		{
			name:   "author list collapses to first element",
			raw:    `{"title":"T","author":["Smith, J.","Jones, K."],"year":"2021"}`,
			title:  "T",
			author: "Smith, J.",
			year:   "2021",
		},
		{
			name:   "empty author list becomes empty string",
			raw:    `{"title":"T","author":[],"year":"2021"}`,
			title:  "T",
			author: "",
			year:   "2021",
		},
		{
			name:   "numeric year stringified",
			raw:    `{"title":"T","author":"A","year":2021}`,
			title:  "T",
			author: "A",
			year:   "2021",
		},
		{
			name:   "null fields get sentinel",
			raw:    `{"title":null,"author":"A","year":"2021"}`,
			title:  metadata.NotFound,
			author: "A",
			year:   "2021",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parseResponse(tt.raw, "real.pdf")
			if rec.ParseError != "" {
				t.Fatalf("unexpected parse error: %s", rec.ParseError)
			}
			if rec.Title != tt.title || rec.Author != tt.author || rec.Year != tt.year {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)",
					rec.Title, rec.Author, rec.Year, tt.title, tt.author, tt.year)
			}
			if rec.SourceFilename != "real.pdf" {
				t.Errorf("source_filename = %q, want the caller-supplied name", rec.SourceFilename)
			}
		})
	}
}

func TestParseResponseFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain prose", raw: "I could not find any metadata in this document."},
		{name: "truncated json", raw: `{"title":"T","author":`},
		{name: "non-object json", raw: `["T","A","2021"]`},
		{name: "empty response", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parseResponse(tt.raw, "doc.pdf")
			if rec.ParseError == "" {
				t.Fatal("expected a parse error")
			}
			if rec.Title != metadata.NotFound || rec.Author != metadata.NotFound || rec.Year != metadata.NotFound {
				t.Errorf("fallback fields = (%q, %q, %q), want sentinels", rec.Title, rec.Author, rec.Year)
			}
			if rec.SourceFilename != "doc.pdf" {
				t.Errorf("source_filename = %q", rec.SourceFilename)
			}
			if rec.Failed() {
				t.Error("fallback record must not be on the error branch")
			}
		})
	}
}

func TestParseResponseFallbackTruncatesRaw(t *testing.T) {
	raw := strings.Repeat("x", 600)
	rec := parseResponse(raw, "doc.pdf")
	want := strings.Repeat("x", 500) + "..."
	if rec.RawResponse != want {
		t.Errorf("raw_response length = %d, want 503", len(rec.RawResponse))
	}

	short := "no json here"
	if rec := parseResponse(short, "doc.pdf"); rec.RawResponse != short {
		t.Errorf("short raw_response = %q, want untruncated %q", rec.RawResponse, short)
	}
}
