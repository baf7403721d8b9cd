package entity

import "fmt"

// EmbeddingCandidate is a product whose embedding is about to be (re)computed.
type EmbeddingCandidate struct {
	ProductId   int64
	Name        string
	Description *string
	Category    string
}

// EmbeddingText renders the encoder input. A missing description renders as
// an empty string, so the separator pair stays in place.
func (c *EmbeddingCandidate) EmbeddingText() string {
	description := ""
	if c.Description != nil {
		description = *c.Description
	}
	return fmt.Sprintf("%s - %s - Category: %s", c.Name, description, c.Category)
}

func EmbeddingTexts(candidates []*EmbeddingCandidate) []string {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.EmbeddingText()
	}
	return texts
}

func ProductIds(candidates []*EmbeddingCandidate) []int64 {
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ProductId
	}
	return ids
}
