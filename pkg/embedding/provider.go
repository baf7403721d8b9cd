package embedding

import (
	"context"
	"fmt"
)

// EmbeddingProvider turns an ordered batch of texts into one vector per text,
// in the same order. Implementations are stateless per call and safe to reuse
// across batches.
type EmbeddingProvider interface {
	Name() string
	GenerateBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CheckBatch verifies a provider answered with exactly one vector per input.
func CheckBatch(provider string, texts []string, vectors [][]float32) error {
	if len(vectors) != len(texts) {
		return fmt.Errorf("%s returned %d embeddings for %d inputs", provider, len(vectors), len(texts))
	}
	return nil
}
