package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	// Embed returns a unit-normalized vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
