package mapper

import (
	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToModel(e *entity.FaqDocument) *model.FaqDocument {
	return &model.FaqDocument{
		Id:         e.Id,
		Content:    e.Content,
		Embedding:  pgvector.NewVector(e.Embedding),
		SourceUrl:  e.SourceUrl,
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *DocumentMapper) ToEntity(mo *model.FaqDocument) *entity.FaqDocument {
	return &entity.FaqDocument{
		Id:         mo.Id,
		Content:    mo.Content,
		Embedding:  mo.Embedding.Slice(),
		SourceUrl:  mo.SourceUrl,
		ChunkIndex: mo.ChunkIndex,
		CreatedAt:  mo.CreatedAt,
	}
}
