// Package extract turns free-form completion output into structured values:
// a JSON field mapping, an intent label, a sentiment label and a completeness
// score. Every function here recovers locally from malformed input; none of
// them returns an error.
package extract

import (
	"encoding/json"
	"strings"
)

// JSONObject pulls a JSON object out of raw completion output. Models
// routinely wrap the object in prose or formatting artifacts, so the span
// between the first '{' and the last '}' is parsed and anything outside it
// ignored. Returns an empty map when no parseable object is found, never nil.
//
// Unrelated braces in surrounding prose can widen the span and break the
// parse. Known limitation, accepted: the fallback is the empty map.
func JSONObject(raw string) map[string]string {
	out := map[string]string{}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return out
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return out
	}

	for k, v := range parsed {
		out[k] = stringifyValue(v)
	}
	return out
}

// stringifyValue flattens one JSON value to a string: strings verbatim,
// null to "", everything else kept as its compact JSON text.
func stringifyValue(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(v))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}
