package factory

import (
	"fmt"

	"embedding-sync-worker/pkg/embedding"
	"embedding-sync-worker/pkg/embedding/jina"
	"embedding-sync-worker/pkg/embedding/langchain"
	"embedding-sync-worker/pkg/embedding/openai"
)

type Options struct {
	Provider      string
	OllamaBaseURL string
	OllamaModel   string
	GeminiAPIKey  string
	JinaAPIKey    string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	BatchSize     int
}

func NewEmbeddingProvider(opts Options) (embedding.EmbeddingProvider, error) {
	switch opts.Provider {
	case "", "ollama":
		return embedding.NewOllamaProvider(opts.OllamaBaseURL, opts.OllamaModel), nil
	case "gemini":
		if opts.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires GOOGLE_GEMINI_API_KEY")
		}
		return embedding.NewGeminiProvider(opts.GeminiAPIKey), nil
	case "jina":
		if opts.JinaAPIKey == "" {
			return nil, fmt.Errorf("jina embedding provider requires JINA_API_KEY")
		}
		return jina.NewJinaProvider(opts.JinaAPIKey), nil
	case "openai":
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires OPENAI_API_KEY")
		}
		return openai.NewProvider(opts.OpenAIAPIKey, opts.OpenAIModel, opts.OpenAIBaseURL), nil
	case "openai-compatible":
		if opts.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("openai-compatible embedding provider requires OPENAI_BASE_URL")
		}
		return langchain.NewProvider(opts.OpenAIBaseURL, opts.OpenAIModel, opts.OpenAIAPIKey, opts.BatchSize)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", opts.Provider)
	}
}
