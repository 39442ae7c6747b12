package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type FaqDocument struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content    string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimensionality
	SourceUrl  string          `gorm:"type:text;not null;index"`
	ChunkIndex int             `gorm:"default:0"` // 0-based order within the source page
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (FaqDocument) TableName() string {
	return "faq_documents"
}
