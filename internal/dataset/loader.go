// Package dataset loads batches of conversations from spreadsheets.
package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one unit of work from a spreadsheet row: either transcript text
// or a recording URL that still needs transcription.
type Entry struct {
	Ref      string // row reference for logging, falls back to row number
	Text     string
	AudioURL string
}

// Load reads the first sheet and auto-detects columns by header heuristics:
// a conversation/transcript text column, an optional id column and an
// optional recording URL column. Rows with neither text nor a URL are
// skipped quietly.
func Load(path string) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	textIdx, refIdx, audioIdx := -1, -1, -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "conversation") || strings.Contains(l, "transcript") ||
			strings.Contains(l, "message") || l == "text":
			if textIdx == -1 {
				textIdx = i
			}
		case strings.Contains(l, "audio") || strings.Contains(l, "recording") ||
			strings.Contains(l, "url") || strings.Contains(l, "link"):
			if audioIdx == -1 {
				audioIdx = i
			}
		case strings.Contains(l, "id") || strings.Contains(l, "ref"):
			if refIdx == -1 {
				refIdx = i
			}
		}
	}
	if textIdx == -1 && audioIdx == -1 {
		return nil, fmt.Errorf("no conversation or recording column found")
	}

	cell := func(r []string, idx int) string {
		if idx >= 0 && idx < len(r) {
			return strings.TrimSpace(r[idx])
		}
		return ""
	}

	var out []Entry
	for i, r := range rows {
		if i == 0 {
			continue
		}
		e := Entry{
			Ref:      cell(r, refIdx),
			Text:     cell(r, textIdx),
			AudioURL: cell(r, audioIdx),
		}
		if e.AudioURL != "" && !strings.HasPrefix(strings.ToLower(e.AudioURL), "http") {
			e.AudioURL = ""
		}
		if e.Text == "" && e.AudioURL == "" {
			continue
		}
		if e.Ref == "" {
			e.Ref = fmt.Sprintf("row-%d", i+1)
		}
		out = append(out, e)
	}
	return out, nil
}
