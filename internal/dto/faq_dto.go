package dto

import "time"

type FaqQueryRequest struct {
	Query     string `json:"query" validate:"required,min=1,max=500"`
	SessionId string `json:"session_id,omitempty" validate:"omitempty,uuid4"`
	UserId    string `json:"user_id,omitempty" validate:"omitempty,max=255"`
}

type FaqQueryResponse struct {
	Answer     string    `json:"answer"`
	Confidence string    `json:"confidence"`
	Sources    []string  `json:"sources"`
	SessionId  string    `json:"session_id"`
	Intent     string    `json:"intent,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type InteractionDTO struct {
	Query      string                 `json:"query"`
	Response   string                 `json:"response"`
	Confidence string                 `json:"confidence"`
	Intent     *string                `json:"intent,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

type SessionHistoryResponse struct {
	SessionId         string           `json:"session_id"`
	History           []InteractionDTO `json:"history"`
	TotalInteractions int              `json:"total_interactions"`
}

type UserStatsResponse struct {
	UserId           string    `json:"user_id"`
	InteractionCount int       `json:"interaction_count"`
	LastActive       time.Time `json:"last_active"`
}

type SessionStatsResponse struct {
	SessionId           string     `json:"session_id"`
	TotalInteractions   int64      `json:"total_interactions"`
	FirstInteraction    *time.Time `json:"first_interaction"`
	LastInteraction     *time.Time `json:"last_interaction"`
	HighConfidenceRatio float64    `json:"high_confidence_ratio"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type SystemStatusResponse struct {
	Database    string `json:"database"`
	VectorStore string `json:"vector_store"`
	Agents      string `json:"agents"`
}
