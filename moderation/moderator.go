package moderation

import (
	"log/slog"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks forbidden words in message texts.
// Matching is case-insensitive; masked runes are replaced one for one so the
// text keeps its length and spacing.
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton for the given words.
// Blank words are ignored; with no word left, it returns nil and censoring is disabled.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	var patterns [][]rune
	for _, word := range censoredWords {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		patterns = append(patterns, lowerRunes([]rune(word)))
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	log.Debug("Moderator ready", "words", len(patterns))
	return &Moderator{matcher: m, censoredChar: censoredChar, log: log}, nil
}

// Censor replaces every occurrence of a forbidden word by the censored character.
func (m *Moderator) Censor(original string) string {
	origRunes := []rune(original)
	if len(origRunes) == 0 {
		return original
	}
	terms := m.matcher.MultiPatternSearch(lowerRunes(origRunes), false)
	if len(terms) == 0 {
		return original
	}
	for _, term := range terms {
		end := term.Pos + len(term.Word)
		if term.Pos < 0 || end > len(origRunes) {
			continue
		}
		for i := term.Pos; i < end; i++ {
			origRunes[i] = m.censoredChar
		}
	}
	m.log.Debug("Censored text", "matches", len(terms))
	return string(origRunes)
}

// lowerRunes lower-cases rune by rune so positions stay aligned with the input.
func lowerRunes(input []rune) []rune {
	out := make([]rune, len(input))
	for i, r := range input {
		out[i] = unicode.ToLower(r)
	}
	return out
}
