package extract

import (
	"regexp"

	"conversation-insights-go/internal/types"
)

// Sentiment keyword groups, checked in order. Positive is checked first, so
// mixed output leans positive.
var sentimentGroups = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{types.SentimentPositive, regexp.MustCompile(`(?i)\b(positive|professional|polite|encouraging|good)\b`)},
	{types.SentimentNegative, regexp.MustCompile(`(?i)\b(negative|problematic|difficult|bad)\b`)},
	{types.SentimentNeutral, regexp.MustCompile(`(?i)\b(neutral|objective|impartial|fair)\b`)},
}

// Sentiment classifies free-form sentiment output by keyword presence.
func Sentiment(raw string) string {
	for _, g := range sentimentGroups {
		if g.pattern.MatchString(raw) {
			return g.label
		}
	}
	return types.SentimentUndefined
}
