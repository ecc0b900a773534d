// Package pipeline coordinates the per-conversation model calls and
// assembles one immutable record from their outputs.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"conversation-insights-go/internal/extract"
	"conversation-insights-go/internal/keywords"
	"conversation-insights-go/internal/llm"
	"conversation-insights-go/internal/types"
)

// Retriever is the optional similarity lookup attached to records whose
// intent asks for information.
type Retriever interface {
	Search(ctx context.Context, query string) ([]types.Document, error)
}

// Pipeline owns a shared completion client and an optional retriever. It
// holds no per-conversation state; Process calls are independent.
type Pipeline struct {
	client    llm.Client
	retriever Retriever // nil disables document attachment
	log       *logrus.Entry
}

func New(client llm.Client, retriever Retriever, log *logrus.Entry) *Pipeline {
	return &Pipeline{client: client, retriever: retriever, log: log}
}

// Process runs the full pipeline for one chat conversation. Any failed
// completion call fails the whole record; nothing partial is ever returned.
func (p *Pipeline) Process(ctx context.Context, conversation string) (types.ConversationRecord, error) {
	return p.run(ctx, conversation, llm.ExtractionPrompt(conversation))
}

// ProcessAudio is the audio variant: same stages, audio-specific extraction
// template over the transcription.
func (p *Pipeline) ProcessAudio(ctx context.Context, transcription string) (types.ConversationRecord, error) {
	return p.run(ctx, transcription, llm.AudioExtractionPrompt(transcription))
}

func (p *Pipeline) run(ctx context.Context, source, extractionPrompt string) (types.ConversationRecord, error) {
	// The id exists before any model call so every failure can still be
	// correlated back to this conversation.
	id := uuid.New().String()
	log := p.log.WithField("conversation_id", id)
	log.Info("processing conversation")

	// The four completions share the input but not each other's output, so
	// they run concurrently. First error cancels the rest.
	var rawExtraction, rawIntent, rawSummary, rawSentiment string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rawExtraction, err = p.client.Complete(gctx, extractionPrompt)
		return err
	})
	g.Go(func() (err error) {
		rawIntent, err = p.client.Complete(gctx, llm.IntentPrompt(source))
		return err
	})
	g.Go(func() (err error) {
		rawSummary, err = p.client.Complete(gctx, llm.SummaryPrompt(source))
		return err
	})
	g.Go(func() (err error) {
		rawSentiment, err = p.client.Complete(gctx, llm.SentimentPrompt(source))
		return err
	})
	if err := g.Wait(); err != nil {
		return types.ConversationRecord{}, fmt.Errorf("conversation %s: %w", id, err)
	}

	fields := extract.JSONObject(rawExtraction)
	intent := extract.Intent(rawIntent)

	rec := types.ConversationRecord{
		ID:           id,
		Conversation: source,
		Data:         extract.FilterFields(fields),
		Intent:       intent,
		Sentiment:    extract.Sentiment(rawSentiment),
		Summary:      strings.TrimSpace(rawSummary),
		OutputScore:  extract.Score(fields, intent),
	}
	rec.RelatedDocs = p.relatedDocuments(ctx, log, rec)

	log.WithFields(logrus.Fields{
		"intent":       rec.Intent,
		"sentiment":    rec.Sentiment,
		"output_score": rec.OutputScore,
	}).Info("conversation processed")
	return rec, nil
}

// relatedDocuments attaches reference snippets for information requests.
// Lookup failures and empty keywords both mean "no related documents".
func (p *Pipeline) relatedDocuments(ctx context.Context, log *logrus.Entry, rec types.ConversationRecord) []types.Document {
	if p.retriever == nil || rec.Intent != types.IntentInfoRequest {
		return nil
	}
	keyword := retrievalKeyword(rec)
	if keyword == "" {
		return nil
	}
	docs, err := p.retriever.Search(ctx, keyword)
	if err != nil {
		log.WithError(err).Warn("document retrieval failed")
		return nil
	}
	if len(docs) > 0 {
		log.WithFields(logrus.Fields{"keyword": keyword, "documents": len(docs)}).Info("related documents attached")
	}
	return docs
}

func retrievalKeyword(rec types.ConversationRecord) string {
	var parts []string
	for _, field := range []string{"issue", "service", "detailed_description", "additional_information"} {
		if v := rec.Data[field]; v != "" {
			parts = append(parts, v)
		}
	}
	parts = append(parts, rec.Summary)
	return keywords.Top(strings.Join(parts, " "))
}
