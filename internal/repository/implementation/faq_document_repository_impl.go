package implementation

import (
	"context"

	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/mapper"
	"faq-agentic-be/internal/model"
	"faq-agentic-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FaqDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewFaqDocumentRepository(db *gorm.DB) contract.FaqDocumentRepository {
	return &FaqDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *FaqDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.FaqDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

// FindSimilar ranks by pgvector cosine distance. Cosine distance is
// 1 - cosine_similarity, so similarity = 1 - (embedding <=> query).
func (r *FaqDocumentRepositoryImpl) FindSimilar(ctx context.Context, embedding []float32, topK int) ([]*entity.ScoredFaqDocument, error) {
	queryVector := pgvector.NewVector(embedding)

	var rows []struct {
		model.FaqDocument
		Similarity float64
	}
	err := r.db.WithContext(ctx).
		Model(&model.FaqDocument{}).
		Select("faq_documents.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <=> ?",
			Vars: []interface{}{queryVector},
		}}).
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredFaqDocument, len(rows))
	for i, row := range rows {
		scored[i] = &entity.ScoredFaqDocument{
			FaqDocument: *r.mapper.ToEntity(&row.FaqDocument),
			Similarity:  row.Similarity,
		}
	}
	return scored, nil
}

func (r *FaqDocumentRepositoryImpl) DeleteBySourceUrl(ctx context.Context, sourceUrl string) error {
	return r.db.WithContext(ctx).Where("source_url = ?", sourceUrl).Delete(&model.FaqDocument{}).Error
}

func (r *FaqDocumentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.FaqDocument{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
