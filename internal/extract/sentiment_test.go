package extract

import (
	"testing"

	"conversation-insights-go/internal/types"
)

func TestSentiment(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"positive keyword", "The tone was very positive overall", types.SentimentPositive},
		{"positive synonym", "A polite and helpful exchange", types.SentimentPositive},
		{"negative keyword", "The sentiment of the conversation is Negative", types.SentimentNegative},
		{"negative synonym", "A problematic interaction", types.SentimentNegative},
		{"neutral keyword", "The conversation was neutral in tone", types.SentimentNeutral},
		{"neutral synonym", "An objective account of events", types.SentimentNeutral},
		{"tie breaks positive", "good but also bad", types.SentimentPositive},
		{"negative beats neutral", "bad yet fair", types.SentimentNegative},
		{"case insensitive", "ENCOURAGING", types.SentimentPositive},
		{"no keyword", "the model rambled about something else", types.SentimentUndefined},
		{"partial word does not match", "goodness gracious", types.SentimentUndefined},
		{"empty", "", types.SentimentUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sentiment(tt.raw); got != tt.want {
				t.Errorf("Sentiment(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
