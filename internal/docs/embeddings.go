package docs

import (
	chromem "github.com/philippgille/chromem-go"
)

// NewEmbeddingFunc builds the embedding function for the configured
// provider. Returns nil when the provider is unset or unknown, which
// disables retrieval entirely.
func NewEmbeddingFunc(provider, model, apiKey, baseURL string) chromem.EmbeddingFunc {
	switch provider {
	case "openai":
		if apiKey == "" {
			return nil
		}
		if model == "" {
			model = string(chromem.EmbeddingModelOpenAI3Small)
		}
		return chromem.NewEmbeddingFuncOpenAI(apiKey, chromem.EmbeddingModelOpenAI(model))
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if model == "" {
			model = "nomic-embed-text"
		}
		return chromem.NewEmbeddingFuncOllama(model, baseURL)
	default:
		return nil
	}
}
