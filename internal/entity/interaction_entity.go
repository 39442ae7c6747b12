package entity

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is one persisted question/answer exchange. Records are
// append-only; nothing mutates an Interaction after it is written.
type Interaction struct {
	Id         uuid.UUID
	SessionId  string
	UserId     string
	Query      string
	Response   string
	Confidence string
	Intent     *string
	Metadata   map[string]interface{}
	Timestamp  time.Time
}

// SessionStats aggregates one session's durable log.
type SessionStats struct {
	SessionId           string
	TotalInteractions   int64
	FirstInteraction    *time.Time
	LastInteraction     *time.Time
	HighConfidenceRatio float64
}
