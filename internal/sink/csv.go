// Package sink persists processed records to an append-only CSV file.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"conversation-insights-go/internal/types"
)

// columns is the declared schema of the tabular sink. It is fixed on
// purpose: the header no longer depends on whatever keys the first record
// happens to carry, so the file stays consistent across pipeline versions.
// Extracted fields outside the schema land in the overflow column as JSON.
var columns = []string{
	"id",
	"conversation",
	"name",
	"email",
	"phone_number",
	"location",
	"department",
	"issue",
	"service",
	"additional_information",
	"detailed_description",
	"intent",
	"sentiment",
	"summary",
	"output_score",
	"overflow",
}

// fieldColumns are the schema columns filled from record.Data.
var fieldColumns = map[string]struct{}{
	"name": {}, "email": {}, "phone_number": {}, "location": {},
	"department": {}, "issue": {}, "service": {},
	"additional_information": {}, "detailed_description": {},
}

// CSVSink appends one row per record. The header is written once, when the
// file is empty at open time.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Write appends the record. Safe to call across runs; the header is only
// emitted into an empty file.
func (s *CSVSink) Write(rec types.ConversationRecord) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat csv: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(row(rec)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func row(rec types.ConversationRecord) []string {
	overflow := map[string]string{}
	for k, v := range rec.Data {
		if _, ok := fieldColumns[k]; !ok {
			overflow[k] = v
		}
	}
	overflowJSON := ""
	if len(overflow) > 0 {
		if b, err := json.Marshal(overflow); err == nil {
			overflowJSON = string(b)
		}
	}

	out := make([]string, 0, len(columns))
	for _, col := range columns {
		switch col {
		case "id":
			out = append(out, rec.ID)
		case "conversation":
			out = append(out, rec.Conversation)
		case "intent":
			out = append(out, rec.Intent)
		case "sentiment":
			out = append(out, rec.Sentiment)
		case "summary":
			out = append(out, rec.Summary)
		case "output_score":
			out = append(out, strconv.Itoa(rec.OutputScore))
		case "overflow":
			out = append(out, overflowJSON)
		default:
			out = append(out, rec.Data[col])
		}
	}
	return out
}
