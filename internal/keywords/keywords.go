// Package keywords derives a retrieval keyword from record text: tokenize,
// drop stopwords, rank by frequency, take the top term. The keyword is
// accent-folded to match the normalization applied when the similarity index
// was built.
package keywords

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {},
	"and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"because": {}, "been": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "had": {},
	"has": {}, "have": {}, "he": {}, "her": {}, "him": {}, "his": {},
	"how": {}, "i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "just": {}, "me": {}, "my": {}, "no": {}, "not": {}, "of": {},
	"on": {}, "or": {}, "our": {}, "out": {}, "please": {}, "she": {},
	"so": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "they": {}, "this": {}, "to": {}, "up": {}, "was": {},
	"we": {}, "were": {}, "what": {}, "when": {}, "which": {}, "who": {},
	"will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents strips diacritics so "reclamação" and "reclamacao" index and
// query the same way. Falls back to the input on transform failure.
func FoldAccents(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		return s
	}
	return out
}

// Top returns the most frequent non-stopword term of text, accent-folded and
// lowercased. Empty string when the text holds nothing but stopwords or
// punctuation. Frequency ties break toward the term seen first.
func Top(text string) string {
	counts := map[string]int{}
	var order []string

	tokens := strings.FieldsFunc(strings.ToLower(FoldAccents(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	best := ""
	bestCount := 0
	for _, tok := range order {
		if counts[tok] > bestCount {
			best = tok
			bestCount = counts[tok]
		}
	}
	return best
}
