// Package stream re-emits processed records from the bus to dashboard
// clients over server-sent events.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/segmentio/kafka-go"

	"conversation-insights-go/internal/logger"
)

// MessageReader is the slice of kafka.Reader the stream needs; fakes stand
// in for it in tests.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Server bridges an ephemeral bus reader to an SSE response. Every /stream
// request gets its own reader so concurrent dashboards each see the full
// feed.
type Server struct {
	addr      string
	newReader func() MessageReader
	log       *logger.Logger
}

func NewServer(addr string, newReader func() MessageReader, log *logger.Logger) *Server {
	return &Server{addr: addr, newReader: newReader, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/stream", s.handleStream)
	return mux
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "stream")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	reader := s.newReader()
	defer reader.Close()

	reqLog.Info("dashboard stream opened")
	for {
		m, err := reader.ReadMessage(r.Context())
		if err != nil {
			reqLog.WithError(err).Debug("stream reader finished")
			return
		}
		if !json.Valid(m.Value) {
			reqLog.WithField("offset", m.Offset).Warn("skipping non-json bus message")
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", m.Value)
		flusher.Flush()
	}
}

// ListenAndServe runs the feed until ctx is canceled. WriteTimeout stays
// zero: /stream responses are long-lived by design.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.WithField("addr", s.addr).Info("dashboard feed listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
