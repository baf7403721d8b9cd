package service

import (
	"context"
	"errors"
	"sync"

	"embedding-sync-worker/pkg/events"
)

// fakeProvider derives a vector from the text bytes so equal texts always
// give equal vectors.
type fakeProvider struct {
	mu     sync.Mutex
	calls  [][]string
	err    error
	vector func(text string) []float32
	drop   bool
}

func (p *fakeProvider) Name() string { return "fake/deterministic" }

func (p *fakeProvider) GenerateBatch(_ context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	p.calls = append(p.calls, append([]string(nil), texts...))
	p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if p.vector != nil {
			vectors[i] = p.vector(text)
			continue
		}
		var sum float32
		for _, b := range []byte(text) {
			sum += float32(b)
		}
		vectors[i] = []float32{float32(len(text)), sum / 1000}
	}
	if p.drop && len(vectors) > 0 {
		vectors = vectors[:len(vectors)-1]
	}
	return vectors, nil
}

type fakePublisher struct {
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errEncoderDown = errors.New("encoder unavailable")
