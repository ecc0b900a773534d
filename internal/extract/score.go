package extract

import (
	"strings"

	"conversation-insights-go/internal/types"
)

// ExpectedFields is the closed set of field names the extraction template
// asks for. The quality score is the size of the intersection between this
// set and the keys the model actually produced.
var ExpectedFields = map[string]struct{}{
	"name":                   {},
	"email":                  {},
	"phone_number":           {},
	"location":               {},
	"department":             {},
	"issue":                  {},
	"service":                {},
	"additional_information": {},
	"detailed_description":   {},
}

// Score computes the completeness score for an extracted field mapping.
// Presence of a key counts, whatever its value. An Undefined intent costs
// three points, floored at zero.
func Score(fields map[string]string, intent string) int {
	// Set intersection over normalized names: duplicate casings of the same
	// field count once, so the score stays within 0..len(ExpectedFields).
	seen := map[string]struct{}{}
	for k := range fields {
		nk := normalizeKey(k)
		if _, ok := ExpectedFields[nk]; ok {
			seen[nk] = struct{}{}
		}
	}
	score := len(seen)
	if intent == types.IntentUndefined {
		score -= 3
		if score < 0 {
			score = 0
		}
	}
	return score
}

// FilterFields normalizes keys (lowercased, spaces to underscores) and drops
// everything outside the expected set, so malformed model output never leaks
// unknown keys into a record.
func FilterFields(fields map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range fields {
		nk := normalizeKey(k)
		if _, ok := ExpectedFields[nk]; ok {
			out[nk] = v
		}
	}
	return out
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), " ", "_")
}
