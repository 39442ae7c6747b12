package unitofwork

import (
	"context"

	"faq-agentic-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	InteractionRepository() contract.InteractionRepository
	UserContextRepository() contract.UserContextRepository
	FaqDocumentRepository() contract.FaqDocumentRepository
}
