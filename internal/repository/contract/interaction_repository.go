package contract

import (
	"context"
	"time"

	"faq-agentic-be/internal/entity"
)

type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	// FindRecentBySession returns up to limit interactions, newest first.
	FindRecentBySession(ctx context.Context, sessionId string, limit int) ([]*entity.Interaction, error)
	// DeleteOlderThan removes interactions across all sessions with a
	// timestamp before cutoff; returns the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	SessionStats(ctx context.Context, sessionId string) (*entity.SessionStats, error)
	Count(ctx context.Context) (int64, error)
}
