package contract

import (
	"context"

	"faq-agentic-be/internal/entity"
)

type UserContextRepository interface {
	// IncrementInteraction creates the row at count 1 or bumps the existing
	// counter, updating last_active either way.
	IncrementInteraction(ctx context.Context, userId string) error
	// FindByUserId returns nil without error when the user never interacted.
	FindByUserId(ctx context.Context, userId string) (*entity.UserContext, error)
}
