package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/local/pdfmeta/internal/metadata"
)

const maxRawResponseRunes = 500

var (
	fenceOpen  = regexp.MustCompile("(?i)^```\\s*(?:json)?\\s*\n?")
	fenceClose = regexp.MustCompile("\n?```\\s*$")
)

// flexString accepts a JSON string or number; models occasionally return
// the year as a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

// authorField accepts a string or a list of author names. Lists collapse to
// their first element here, at the ingestion boundary, so everything
// downstream sees a single string.
type authorField string

func (a *authorField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = authorField(s)
		return nil
	}
	var list []flexString
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*a = authorField(list[0])
		} else {
			*a = ""
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*a = authorField(n.String())
		return nil
	}
	*a = ""
	return nil
}

type modelPayload struct {
	Title  *flexString  `json:"title"`
	Author *authorField `json:"author"`
	Year   *flexString  `json:"year"`
}

// parseResponse turns the model's free-text answer into a Record. Models
// wrap JSON in code fences or explanatory prose often enough that every
// step here is fallible; failures produce a fallback record rather than an
// error.
func parseResponse(raw, filename string) metadata.Record {
	text := strings.TrimSpace(raw)
	text = fenceOpen.ReplaceAllString(text, "")
	text = fenceClose.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	// Slice between the first { and last } to shed surrounding prose.
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	if !strings.HasPrefix(text, "{") {
		return fallbackRecord(filename, raw, "response does not contain a JSON object")
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return fallbackRecord(filename, raw, err.Error())
	}

	return metadata.Record{
		Title:  stringOrSentinel((*string)(payload.Title)),
		Author: stringOrSentinel((*string)(payload.Author)),
		Year:   stringOrSentinel((*string)(payload.Year)),
		// Never trust the model's echo of the filename.
		SourceFilename: filename,
	}
}

func stringOrSentinel(s *string) string {
	if s == nil {
		return metadata.NotFound
	}
	return *s
}

func fallbackRecord(filename, raw, parseErr string) metadata.Record {
	if runes := []rune(raw); len(runes) > maxRawResponseRunes {
		raw = string(runes[:maxRawResponseRunes]) + "..."
	}
	return metadata.Record{
		Title:          metadata.NotFound,
		Author:         metadata.NotFound,
		Year:           metadata.NotFound,
		SourceFilename: filename,
		RawResponse:    raw,
		ParseError:     parseErr,
	}
}
