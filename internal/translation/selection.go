// Package translation derives which languages a field description is
// written in and which languages it should be translated to, from the
// active UI language.
package translation

import (
	"iter"
	"slices"
	"strings"
)

// English is both the universal translation target and the one language
// that never needs translating.
const English = "en"

// Selection is the source language and target languages for translating
// user-entered text.
type Selection struct {
	From string
	To   []string
}

// Select computes the selection for a UI language code. Only the first two
// characters of the code are significant. A non-English source translates
// to English; English translates to nothing.
func Select(uiLanguage string) Selection {
	from := prefix(uiLanguage)
	if from == English {
		return Selection{From: English, To: []string{}}
	}
	return Selection{From: from, To: []string{English}}
}

// NeedsTranslation reports whether there is at least one target language.
func (s Selection) NeedsTranslation() bool {
	return len(s.To) > 0
}

// Targets yields each target language in order.
func (s Selection) Targets() iter.Seq[string] {
	return slices.Values(s.To)
}

// Equal reports whether two selections have the same source and targets.
func (s Selection) Equal(o Selection) bool {
	return s.From == o.From && slices.Equal(s.To, o.To)
}

func (s Selection) String() string {
	if !s.NeedsTranslation() {
		return s.From
	}
	return s.From + " → " + strings.Join(s.To, ",")
}

func prefix(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if r := []rune(code); len(r) > 2 {
		code = string(r[:2])
	}
	return code
}
