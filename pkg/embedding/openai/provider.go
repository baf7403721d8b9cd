package openai

import (
	"context"
	"fmt"
	"sort"

	"embedding-sync-worker/pkg/embedding"

	goopenai "github.com/sashabaranov/go-openai"
)

// Provider calls the OpenAI embeddings API, e.g. text-embedding-3-small.
type Provider struct {
	client *goopenai.Client
	model  string
}

func NewProvider(apiKey, model, baseURL string) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(goopenai.SmallEmbedding3)
	}
	return &Provider{
		client: goopenai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *Provider) Name() string {
	return "openai/" + p.model
}

func (p *Provider) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings request failed: %w", err)
	}

	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float32, len(data))
	for i, d := range data {
		vectors[i] = d.Embedding
	}
	if err := embedding.CheckBatch(p.Name(), texts, vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}
