package moderation

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Elements removed together with everything they contain.
var strippedWithContent = map[string]struct{}{
	"script": {},
	"style":  {},
	"xml":    {},
	"pre":    {},
}

// Sanitizer cleans user supplied names and texts before they are stored.
type Sanitizer struct {
	moderator *Moderator
}

// NewSanitizer builds a sanitizer. A nil moderator disables censoring.
func NewSanitizer(moderator *Moderator) Sanitizer {
	return Sanitizer{moderator: moderator}
}

// Clean strips markup, trims surrounding spaces and censors forbidden words.
// Clean(Clean(s)) == Clean(s).
func (s Sanitizer) Clean(raw string) string {
	cleaned := StripHTML(raw)
	if s.moderator != nil {
		cleaned = s.moderator.Censor(cleaned)
	}
	return cleaned
}

// StripHTML removes tags, comments and doctypes, drops the content of script, style,
// xml and pre elements, then trims. Text is kept as written, entities included.
// Removing a tag can glue two fragments into a new tag ("<<b>b>"), so passes
// are repeated until nothing changes. Each pass only removes bytes, so it terminates.
func StripHTML(raw string) string {
	current := strings.TrimSpace(raw)
	for {
		next := strings.TrimSpace(stripOnce(current))
		if next == current {
			return current
		}
		current = next
	}
}

func stripOnce(input string) string {
	var out strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(input))
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// A "<" followed by a name but never closed is text, not a tag.
			if tokenizer.Err() == io.EOF && skipDepth == 0 {
				out.Write(tokenizer.Raw())
			}
			return out.String()
		case html.TextToken:
			if skipDepth == 0 {
				out.Write(tokenizer.Raw())
			}
		case html.StartTagToken:
			if isStrippedWithContent(tokenizer) {
				skipDepth++
			}
		case html.EndTagToken:
			if skipDepth > 0 && isStrippedWithContent(tokenizer) {
				skipDepth--
			}
		}
	}
}

func isStrippedWithContent(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	_, ok := strippedWithContent[strings.ToLower(string(name))]
	return ok
}
