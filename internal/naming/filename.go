package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/local/pdfmeta/internal/metadata"
)

var (
	reservedChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	symbolDenylist = regexp.MustCompile("[†‡§¶#@$%^&*+={}\\[\\]~`]")
)

var generationalSuffixes = []string{"jr", "sr", "ii", "iii", "iv"}

// Builder derives canonical filenames from metadata records. Pure and
// deterministic: the same record always yields the same name.
type Builder struct {
	maxLen int
}

func NewBuilder(maxLen int) *Builder {
	if maxLen <= 0 {
		maxLen = 100
	}
	return &Builder{maxLen: maxLen}
}

// Sanitize makes one metadata field safe for use in a filename. Empty or
// not-found fields become "Unknown".
func (b *Builder) Sanitize(text string) string {
	if text == "" || text == metadata.NotFound {
		return "Unknown"
	}
	text = reservedChars.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(strings.ReplaceAll(text, "\n", " "), " ")
	text = symbolDenylist.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > b.maxLen {
		text = string(runes[:b.maxLen])
	}
	return text
}

// reduceAuthor keeps only the first author of a multi-author string.
// A single "Surname, Initial" pair survives; an explicit separator or a
// second comma segment that is not a generational suffix does not.
func reduceAuthor(author string) string {
	lower := strings.ToLower(author)
	if i := strings.Index(lower, " and "); i >= 0 {
		return strings.TrimSpace(author[:i])
	}
	if i := strings.Index(author, " & "); i >= 0 {
		return strings.TrimSpace(author[:i])
	}
	if i := strings.Index(author, ";"); i >= 0 {
		return strings.TrimSpace(author[:i])
	}
	if strings.Count(author, ",") > 1 {
		parts := strings.Split(author, ",")
		second := strings.ToLower(strings.TrimSpace(parts[1]))
		suffix := false
		for _, s := range generationalSuffixes {
			if strings.Contains(second, s) {
				suffix = true
				break
			}
		}
		if !suffix {
			return strings.TrimSpace(parts[0])
		}
	}
	return author
}

// Filename derives the canonical "{year} - {author} - {title}.pdf" name.
func (b *Builder) Filename(rec metadata.Record) string {
	year := b.Sanitize(rec.Year)
	author := reduceAuthor(b.Sanitize(rec.Author))
	title := b.Sanitize(rec.Title)
	return fmt.Sprintf("%s - %s - %s.pdf", year, author, title)
}
