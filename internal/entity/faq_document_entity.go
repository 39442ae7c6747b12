package entity

import (
	"time"

	"github.com/google/uuid"
)

// FaqDocument is one embedded knowledge chunk.
type FaqDocument struct {
	Id         uuid.UUID
	Content    string
	Embedding  []float32
	SourceUrl  string
	ChunkIndex int
	CreatedAt  time.Time
}

// ScoredFaqDocument carries the cosine similarity computed at query time.
type ScoredFaqDocument struct {
	FaqDocument
	Similarity float64
}
