package contract

import (
	"context"

	"faq-agentic-be/internal/entity"
)

type FaqDocumentRepository interface {
	Create(ctx context.Context, doc *entity.FaqDocument) error
	// FindSimilar returns up to topK documents ordered by descending cosine
	// similarity against the query embedding.
	FindSimilar(ctx context.Context, embedding []float32, topK int) ([]*entity.ScoredFaqDocument, error)
	DeleteBySourceUrl(ctx context.Context, sourceUrl string) error
	Count(ctx context.Context) (int64, error)
}
