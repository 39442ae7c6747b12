// Package retriever fetches relevance-ranked knowledge snippets for a query
// from the pgvector-backed document store.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"faq-agentic-be/internal/repository/unitofwork"
	"faq-agentic-be/pkg/embedding"
	"faq-agentic-be/pkg/faq"
)

// ErrRetrieval marks a failed retrieval call. The router must be able to
// tell "retrieval failed" apart from "retrieval found nothing": an empty
// candidate slice with a nil error means the latter.
var ErrRetrieval = errors.New("retrieval failed")

type VectorRetriever struct {
	embedder   embedding.EmbeddingProvider
	uowFactory unitofwork.RepositoryFactory
	topK       int
}

func NewVectorRetriever(embedder embedding.EmbeddingProvider, uowFactory unitofwork.RepositoryFactory, topK int) *VectorRetriever {
	if topK <= 0 {
		topK = 3
	}
	return &VectorRetriever{
		embedder:   embedder,
		uowFactory: uowFactory,
		topK:       topK,
	}
}

// Retrieve returns candidates in descending score order; the database does
// the ranking and the core does not re-sort. An empty slice is a valid
// result meaning no knowledge is available.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]faq.Candidate, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrRetrieval, err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.FaqDocumentRepository().FindSimilar(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", ErrRetrieval, err)
	}

	candidates := make([]faq.Candidate, 0, len(scored))
	for _, doc := range scored {
		candidates = append(candidates, faq.Candidate{
			Content: doc.Content,
			Score:   doc.Similarity,
			Source:  doc.SourceUrl,
		})
	}
	return candidates, nil
}
