// Package dispatch fans a finished record out to its sinks.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"conversation-insights-go/internal/types"
)

type Publisher interface {
	Publish(ctx context.Context, rec types.ConversationRecord) error
}

type TabularSink interface {
	Write(rec types.ConversationRecord) error
}

// Dispatcher writes each record to whichever targets are configured: the
// tabular sink, the bus topic, and/or a writer for local-mode output. It
// never mutates the record. All targets are attempted even when one fails.
type Dispatcher struct {
	sink      TabularSink
	publisher Publisher
	out       io.Writer
}

func New(sink TabularSink, publisher Publisher, out io.Writer) *Dispatcher {
	return &Dispatcher{sink: sink, publisher: publisher, out: out}
}

func (d *Dispatcher) Dispatch(ctx context.Context, rec types.ConversationRecord) error {
	var errs []error

	if d.sink != nil {
		if err := d.sink.Write(rec); err != nil {
			errs = append(errs, fmt.Errorf("tabular sink: %w", err))
		}
	}
	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("publish: %w", err))
		}
	}
	if d.out != nil {
		enc := json.NewEncoder(d.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			errs = append(errs, fmt.Errorf("print: %w", err))
		}
	}

	return errors.Join(errs...)
}
