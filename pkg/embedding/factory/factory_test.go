package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantName string
		wantErr  bool
	}{
		{name: "default is ollama all-minilm", opts: Options{}, wantName: "ollama/all-minilm"},
		{name: "ollama custom model", opts: Options{Provider: "ollama", OllamaModel: "nomic-embed-text"}, wantName: "ollama/nomic-embed-text"},
		{name: "gemini", opts: Options{Provider: "gemini", GeminiAPIKey: "k"}, wantName: "gemini/text-embedding-004"},
		{name: "gemini without key", opts: Options{Provider: "gemini"}, wantErr: true},
		{name: "jina", opts: Options{Provider: "jina", JinaAPIKey: "k"}, wantName: "jina/jina-embeddings-v2-base-en"},
		{name: "jina without key", opts: Options{Provider: "jina"}, wantErr: true},
		{name: "openai", opts: Options{Provider: "openai", OpenAIAPIKey: "k"}, wantName: "openai/text-embedding-3-small"},
		{name: "openai without key", opts: Options{Provider: "openai"}, wantErr: true},
		{name: "openai-compatible", opts: Options{Provider: "openai-compatible", OpenAIBaseURL: "http://localhost:8080/v1", OpenAIModel: "all-MiniLM-L6-v2"}, wantName: "openai-compatible/all-MiniLM-L6-v2"},
		{name: "openai-compatible without url", opts: Options{Provider: "openai-compatible"}, wantErr: true},
		{name: "unknown", opts: Options{Provider: "word2vec"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewEmbeddingProvider(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}
