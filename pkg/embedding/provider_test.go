package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	out := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)

	zero := []float32{0, 0}
	assert.Equal(t, zero, NormalizeVector(zero))
}

func TestCheckBatch(t *testing.T) {
	assert.NoError(t, CheckBatch("p", []string{"a"}, [][]float32{{1}}))
	assert.Error(t, CheckBatch("p", []string{"a", "b"}, [][]float32{{1}}))
}

func TestOllamaProvider_GenerateBatch(t *testing.T) {
	var got ollamaEmbedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float64{{3, 4}, {0, 2}},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	vectors, err := p.GenerateBatch(context.Background(), []string{"Widget - desc A - Category: Tools", "Gadget -  - Category: Electronics"})
	require.NoError(t, err)

	assert.Equal(t, "all-minilm", got.Model)
	assert.Len(t, got.Input, 2)
	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.6, vectors[0][0], 1e-6)
	assert.InDelta(t, 1.0, vectors[1][1], 1e-6)
}

func TestOllamaProvider_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(srv.URL, "x").GenerateBatch(context.Background(), []string{"a"})
		assert.ErrorContains(t, err, "status 404")
	})

	t.Run("count mismatch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float64{{1}}})
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(srv.URL, "x").GenerateBatch(context.Background(), []string{"a", "b"})
		assert.ErrorContains(t, err, "returned 1 embeddings for 2 inputs")
	})

	t.Run("empty input skips the call", func(t *testing.T) {
		vectors, err := NewOllamaProvider("http://127.0.0.1:1", "x").GenerateBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
	})
}

func TestGeminiProvider_GenerateBatch(t *testing.T) {
	var got geminiBatchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:batchEmbedContents", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[0.1,0.2]},{"values":[0.3,0.4]}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("secret")
	p.BaseURL = srv.URL

	vectors, err := p.GenerateBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, got.Requests, 2)
	assert.Equal(t, "b", got.Requests[1].Content.Parts[0].Text)
	assert.Equal(t, "RETRIEVAL_DOCUMENT", got.Requests[0].TaskType)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vectors)
}

func TestGeminiProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGeminiProvider("secret")
	p.BaseURL = srv.URL
	_, err := p.GenerateBatch(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "code 429")
}

func TestNormalizeVector_UnitLength(t *testing.T) {
	out := NormalizeVector([]float32{1, 2, 2})
	var sum float64
	for _, v := range out {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}
