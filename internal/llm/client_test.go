package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestTGIClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Parameters.MaxNewTokens != 512 {
			t.Errorf("max_new_tokens = %d, want 512", req.Parameters.MaxNewTokens)
		}
		if !strings.Contains(req.Inputs, "hello") {
			t.Errorf("inputs missing prompt text: %q", req.Inputs)
		}
		json.NewEncoder(w).Encode(generateResponse{GeneratedText: "world"})
	}))
	defer srv.Close()

	c := NewTGIClient(TGIConfig{BaseURL: srv.URL})
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "world" {
		t.Errorf("Complete = %q, want %q", got, "world")
	}
}

func TestTGIClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]generateResponse{{GeneratedText: "ok"}})
	}))
	defer srv.Close()

	c := NewTGIClient(TGIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	got, err := c.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "ok" {
		t.Errorf("Complete = %q, want ok", got)
	}
	if n := atomic.LoadInt32(&calls); n < 2 {
		t.Errorf("calls = %d, want at least 2", n)
	}
}

func TestTGIClientBadRequestIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewTGIClient(TGIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if _, err := c.Complete(context.Background(), "p"); err == nil {
		t.Fatal("want error on 400 response")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want exactly 1 (no retry on 4xx)", n)
	}
}

func TestTGIClientNotConfigured(t *testing.T) {
	c := NewTGIClient(TGIConfig{})
	if _, err := c.Complete(context.Background(), "p"); err != ErrNotConfigured {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestPromptSubstitution(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
	}{
		{"extraction", ExtractionPrompt},
		{"audio extraction", AudioExtractionPrompt},
		{"intent", IntentPrompt},
		{"sentiment", SentimentPrompt},
		{"summary", SummaryPrompt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.render("THE_SOURCE_TEXT")
			if !strings.Contains(p, "THE_SOURCE_TEXT") {
				t.Error("rendered prompt does not contain the source text")
			}
			if strings.Contains(p, "{conversation}") || strings.Contains(p, "{transcription}") {
				t.Error("placeholder left unsubstituted")
			}
		})
	}
}
