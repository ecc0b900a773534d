package extract

import (
	"regexp"
	"strings"

	"conversation-insights-go/internal/types"
)

// intentPattern matches any of the six fixed intent phrases as whole words,
// optionally wrapped in single or double quotes. The leftmost occurrence
// wins, not list order.
var intentPattern = regexp.MustCompile(
	`(?i)(?:"|')?\b(accusation|booking|information request|general commentary|complaint|compliment)\b(?:"|')?`,
)

var canonicalIntents = map[string]string{
	"accusation":          types.IntentAccusation,
	"booking":             types.IntentBooking,
	"information request": types.IntentInfoRequest,
	"general commentary":  types.IntentCommentary,
	"complaint":           types.IntentComplaint,
	"compliment":          types.IntentCompliment,
}

// Intent maps free-form classification output to one of the fixed intent
// labels, in canonical casing. Returns Undefined when no phrase occurs.
func Intent(raw string) string {
	m := intentPattern.FindStringSubmatch(raw)
	if m == nil {
		return types.IntentUndefined
	}
	return canonicalIntents[strings.ToLower(m[1])]
}
