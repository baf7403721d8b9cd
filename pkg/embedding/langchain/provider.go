package langchain

import (
	"context"
	"fmt"

	"embedding-sync-worker/pkg/embedding"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider targets OpenAI-compatible servers (text-embeddings-inference,
// LocalAI, vLLM, Ollama's /v1) through langchaingo.
type Provider struct {
	embedder embeddings.Embedder
	model    string
}

func NewProvider(baseURL, model, token string, batchSize int) (*Provider, error) {
	if token == "" {
		// local OpenAI-compatible services usually do not check the token
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai-compatible client: %w", err)
	}

	opts := []embeddings.Option{embeddings.WithStripNewLines(false)}
	if batchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(batchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, err
	}

	return &Provider{embedder: embedder, model: model}, nil
}

func (p *Provider) Name() string {
	return "openai-compatible/" + p.model
}

func (p *Provider) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if err := embedding.CheckBatch(p.Name(), texts, vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}
