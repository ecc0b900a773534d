package extract

import (
	"reflect"
	"testing"
)

func TestJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{
			name: "bare json object",
			raw:  `{"name": "Jane", "email": "jane@x.com"}`,
			want: map[string]string{"name": "Jane", "email": "jane@x.com"},
		},
		{
			name: "json wrapped in prose",
			raw:  "Sure, here is the extracted information:\n{\"name\": \"Jane\"}\nLet me know if you need more.",
			want: map[string]string{"name": "Jane"},
		},
		{
			name: "no braces",
			raw:  "The caller did not provide any personal details.",
			want: map[string]string{},
		},
		{
			name: "unbalanced braces",
			raw:  `{"name": "Jane"`,
			want: map[string]string{},
		},
		{
			name: "invalid json inside span",
			raw:  `{name: Jane}`,
			want: map[string]string{},
		},
		{
			name: "empty input",
			raw:  "",
			want: map[string]string{},
		},
		{
			name: "null value becomes empty string",
			raw:  `{"name": null, "email": "jane@x.com"}`,
			want: map[string]string{"name": "", "email": "jane@x.com"},
		},
		{
			name: "non-string values keep their json text",
			raw:  `{"name": ["Jane", "John"], "issue": "billing", "count": 2}`,
			want: map[string]string{"name": `["Jane", "John"]`, "issue": "billing", "count": "2"},
		},
		{
			name: "stray brace before the object poisons the span",
			raw:  "weird { artifact\n" + `{"name": "Jane"}`,
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JSONObject(tt.raw)
			if got == nil {
				t.Fatal("JSONObject returned nil, want non-nil map")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("JSONObject(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
