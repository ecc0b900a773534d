package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every tunable of the service, loaded from the environment.
// Defaults match a local single-broker setup.
type Config struct {
	// Completion backend (HuggingFace text-generation-inference server).
	InferenceServerURL string
	CompletionTimeout  time.Duration

	// Kafka.
	KafkaBroker   string
	ConsumerTopic string
	ProducerTopic string
	ConsumerGroup string

	// Tabular sink.
	CSVFilePath string

	// Similarity index.
	ContentDir        string
	VectorStorePath   string
	EmbeddingProvider string // openai, ollama, or empty to disable retrieval
	EmbeddingModel    string
	EmbeddingAPIKey   string
	EmbeddingBaseURL  string
	RetrievalTopK     int
	RetrievalMinScore float64

	// Audio transcription service.
	TranscribeURL string

	// Dashboard feed.
	HTTPAddr string
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		InferenceServerURL: envOr("INFERENCE_SERVER_URL", "http://localhost:3000"),
		CompletionTimeout:  envDuration("COMPLETION_TIMEOUT", 30*time.Second),

		KafkaBroker:   envOr("KAFKA_SERVER", "localhost:9092"),
		ConsumerTopic: envOr("CONSUMER_TOPIC", "chat"),
		ProducerTopic: envOr("PRODUCER_TOPIC", "answer"),
		ConsumerGroup: envOr("CONSUMER_GROUP", "chat-group"),

		CSVFilePath: envOr("CSV_FILE_PATH", "conversation_results.csv"),

		ContentDir:        envOr("CONTENT_DIR", "content"),
		VectorStorePath:   envOr("VECTOR_STORE_PATH", ""),
		EmbeddingProvider: envOr("EMBEDDING_PROVIDER", ""),
		EmbeddingModel:    envOr("EMBEDDING_MODEL", ""),
		EmbeddingAPIKey:   os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingBaseURL:  envOr("EMBEDDING_BASE_URL", ""),
		RetrievalTopK:     envInt("RETRIEVAL_TOP_K", 2),
		RetrievalMinScore: envFloat("RETRIEVAL_MIN_SCORE", 0),

		TranscribeURL: envOr("TRANSCRIBE_URL", ""),

		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
