package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"conversation-insights-go/internal/bus"
	"conversation-insights-go/internal/config"
	"conversation-insights-go/internal/dataset"
	"conversation-insights-go/internal/dispatch"
	"conversation-insights-go/internal/docs"
	"conversation-insights-go/internal/llm"
	"conversation-insights-go/internal/logger"
	"conversation-insights-go/internal/pipeline"
	"conversation-insights-go/internal/sink"
	"conversation-insights-go/internal/stream"
	"conversation-insights-go/internal/transcribe"
	"conversation-insights-go/internal/types"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "insights",
		Short:         "Extracts structured records from conversation transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConsumeCmd(), newScanCmd(), newBatchCmd(), newServeCmd(), newIndexCmd())
	return root
}

// runCtx is the base context for every subcommand, canceled on SIGINT/SIGTERM.
func runCtx() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// buildPipeline wires the shared completion client, the optional retriever
// and the pipeline itself.
func buildPipeline(cfg config.Config, log *logger.Logger) *pipeline.Pipeline {
	client := llm.NewTGIClient(llm.TGIConfig{
		BaseURL: cfg.InferenceServerURL,
		Timeout: cfg.CompletionTimeout,
	})
	return pipeline.New(client, buildRetriever(cfg, log), log.Component("pipeline"))
}

func buildRetriever(cfg config.Config, log *logger.Logger) pipeline.Retriever {
	embed := docs.NewEmbeddingFunc(cfg.EmbeddingProvider, cfg.EmbeddingModel, cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL)
	if embed == nil {
		log.Info("no embedding provider configured, document retrieval disabled")
		return nil
	}
	store, err := docs.NewStore(docs.StoreConfig{
		VectorStorePath: cfg.VectorStorePath,
		TopK:            cfg.RetrievalTopK,
		MinScore:        float32(cfg.RetrievalMinScore),
	}, embed, log.Component("docs"))
	if err != nil {
		log.WithError(err).Warn("similarity store unavailable, document retrieval disabled")
		return nil
	}
	return store
}

func newConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Consume conversations from the bus and publish processed records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runCtx()
			defer cancel()

			cfg := config.Load()
			log := logger.New()
			p := buildPipeline(cfg, log)

			producer := bus.NewProducer(cfg.KafkaBroker, cfg.ProducerTopic)
			defer producer.Close()
			d := dispatch.New(sinkFor(cfg), producer, nil)

			consumer := bus.NewConsumer(bus.ConsumerConfig{
				Broker:  cfg.KafkaBroker,
				Topic:   cfg.ConsumerTopic,
				GroupID: cfg.ConsumerGroup,
			}, log.Component("consumer"))
			defer consumer.Close()

			log.WithField("topic", cfg.ConsumerTopic).Info("consuming conversations")
			return consumer.Run(ctx, func(ctx context.Context, msg bus.InboundMessage) error {
				if strings.TrimSpace(msg.Conversation) == "" {
					return fmt.Errorf("message has no conversation field")
				}
				rec, err := p.Process(ctx, msg.Conversation)
				if err != nil {
					return err
				}
				return d.Dispatch(ctx, rec)
			})
		},
	}
}

func newScanCmd() *cobra.Command {
	var dir string
	var audio bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Process transcript files from a local directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runCtx()
			defer cancel()

			cfg := config.Load()
			log := logger.New()
			p := buildPipeline(cfg, log)
			d := dispatch.New(sinkFor(cfg), nil, os.Stdout)

			var tc *transcribe.Client
			if audio {
				tc = transcribe.NewClient(cfg.TranscribeURL, log.Component("transcribe"))
			}

			return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}

				fileLog := log.WithField("file", path)
				raw, err := os.ReadFile(path)
				if err != nil {
					fileLog.WithError(err).Error("skipping unreadable file")
					return nil
				}
				text := strings.TrimSpace(string(raw))
				if text == "" {
					return nil
				}

				rec, err := processUnit(ctx, p, tc, text, audio)
				if err != nil {
					fileLog.WithError(err).Error("skipping file after processing error")
					return nil
				}
				if err := d.Dispatch(ctx, rec); err != nil {
					fileLog.WithError(err).Error("dispatch failed")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory of .txt transcript files")
	cmd.Flags().BoolVar(&audio, "audio", false, "treat each file as a recording URL to transcribe")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process conversations from a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runCtx()
			defer cancel()

			cfg := config.Load()
			log := logger.New()
			p := buildPipeline(cfg, log)
			d := dispatch.New(sinkFor(cfg), nil, os.Stdout)
			tc := transcribe.NewClient(cfg.TranscribeURL, log.Component("transcribe"))

			entries, err := dataset.Load(path)
			if err != nil {
				return err
			}
			log.WithField("entries", len(entries)).Info("dataset loaded")

			for _, e := range entries {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				entryLog := log.WithField("ref", e.Ref)

				text, isAudio := e.Text, false
				if text == "" {
					text, isAudio = e.AudioURL, true
				}
				rec, err := processUnit(ctx, p, tc, text, isAudio)
				if err != nil {
					entryLog.WithError(err).Error("skipping entry after processing error")
					continue
				}
				if err := d.Dispatch(ctx, rec); err != nil {
					entryLog.WithError(err).Error("dispatch failed")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "dataset", "", "xlsx file of conversations")
	cmd.MarkFlagRequired("dataset")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runCtx()
			defer cancel()

			cfg := config.Load()
			log := logger.New()
			srv := stream.NewServer(cfg.HTTPAddr, func() stream.MessageReader {
				return bus.NewTailReader(cfg.KafkaBroker, cfg.ProducerTopic)
			}, log)
			return srv.ListenAndServe(ctx)
		},
	}
}

func newIndexCmd() *cobra.Command {
	var contentDir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or refresh the reference document index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runCtx()
			defer cancel()

			cfg := config.Load()
			log := logger.New()
			embed := docs.NewEmbeddingFunc(cfg.EmbeddingProvider, cfg.EmbeddingModel, cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL)
			if embed == nil {
				return fmt.Errorf("no embedding provider configured")
			}
			store, err := docs.NewStore(docs.StoreConfig{
				VectorStorePath: cfg.VectorStorePath,
				TopK:            cfg.RetrievalTopK,
			}, embed, log.Component("docs"))
			if err != nil {
				return err
			}
			if contentDir == "" {
				contentDir = cfg.ContentDir
			}
			n, err := store.IndexDir(ctx, contentDir)
			if err != nil {
				return err
			}
			log.WithField("chunks", n).Info("index build complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&contentDir, "content-dir", "", "directory of markdown reference documents")
	return cmd
}

// processUnit runs one unit of work: plain transcript text, or a recording
// URL that gets transcribed first.
func processUnit(ctx context.Context, p *pipeline.Pipeline, tc *transcribe.Client, text string, isAudio bool) (types.ConversationRecord, error) {
	if !isAudio {
		return p.Process(ctx, text)
	}
	transcript, err := tc.Transcript(ctx, text)
	if err != nil {
		return types.ConversationRecord{}, fmt.Errorf("transcription: %w", err)
	}
	return p.ProcessAudio(ctx, transcript)
}

func sinkFor(cfg config.Config) dispatch.TabularSink {
	if cfg.CSVFilePath == "" {
		return nil
	}
	return sink.NewCSVSink(cfg.CSVFilePath)
}
