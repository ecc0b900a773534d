package dispatch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"conversation-insights-go/internal/types"
)

type fakeSink struct {
	records []types.ConversationRecord
	err     error
}

func (f *fakeSink) Write(rec types.ConversationRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

type fakePublisher struct {
	records []types.ConversationRecord
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, rec types.ConversationRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func TestDispatchFansOut(t *testing.T) {
	sink := &fakeSink{}
	pub := &fakePublisher{}
	var buf bytes.Buffer

	rec := types.ConversationRecord{ID: "r1", Intent: types.IntentBooking}
	if err := New(sink, pub, &buf).Dispatch(context.Background(), rec); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(sink.records) != 1 || sink.records[0].ID != "r1" {
		t.Errorf("sink received %v", sink.records)
	}
	if len(pub.records) != 1 || pub.records[0].ID != "r1" {
		t.Errorf("publisher received %v", pub.records)
	}
	if !strings.Contains(buf.String(), `"id": "r1"`) {
		t.Errorf("printed output = %q", buf.String())
	}
}

func TestDispatchNilTargetsSkipped(t *testing.T) {
	rec := types.ConversationRecord{ID: "r1"}
	if err := New(nil, nil, nil).Dispatch(context.Background(), rec); err != nil {
		t.Fatalf("Dispatch with no targets: %v", err)
	}
}

func TestDispatchContinuesPastFailures(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	pub := &fakePublisher{}

	err := New(sink, pub, nil).Dispatch(context.Background(), types.ConversationRecord{ID: "r1"})
	if err == nil {
		t.Fatal("want error from failing sink")
	}
	if len(pub.records) != 1 {
		t.Errorf("publisher called %d times, want 1 even when sink fails", len(pub.records))
	}
}
