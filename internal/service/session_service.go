package service

import (
	"context"
	"fmt"
	"time"

	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/internal/repository/memory"
	"faq-agentic-be/internal/repository/unitofwork"
	"faq-agentic-be/pkg/faq"

	"github.com/google/uuid"
)

type ISessionService interface {
	// Append durably records one interaction and bumps the user counter in
	// the same transaction, then refreshes the cache.
	Append(ctx context.Context, interaction *entity.Interaction) error
	// ReadRecent returns up to limit interactions in chronological order
	// (oldest first), served from cache when possible.
	ReadRecent(ctx context.Context, sessionId string, limit int) ([]*entity.Interaction, error)
	// RecentHistory adapts ReadRecent into the query/response pairs the
	// responder consumes.
	RecentHistory(ctx context.Context, sessionId string, limit int) ([]faq.HistoryEntry, error)
	UserStats(ctx context.Context, userId string) (*entity.UserContext, error)
	SessionStats(ctx context.Context, sessionId string) (*entity.SessionStats, error)
	// RetentionCleanup deletes interactions older than the retention window
	// and flushes the cache so stale entries cannot be served afterwards.
	RetentionCleanup(ctx context.Context, retentionDays int) (int64, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.SessionCache
	window     int
	log        logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.SessionCache,
	window int,
	log logger.ILogger,
) ISessionService {
	if window <= 0 {
		window = 50
	}
	return &sessionService{
		uowFactory: uowFactory,
		cache:      cache,
		window:     window,
		log:        log,
	}
}

func (s *sessionService) Append(ctx context.Context, interaction *entity.Interaction) error {
	if interaction.Id == uuid.Nil {
		interaction.Id = uuid.New()
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now()
	}

	// 1. Durable write first: interaction row and user counter commit or
	// roll back together.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.InteractionRepository().Create(ctx, interaction); err != nil {
		return fmt.Errorf("failed to persist interaction: %w", err)
	}

	if interaction.UserId != "" {
		if err := uow.UserContextRepository().IncrementInteraction(ctx, interaction.UserId); err != nil {
			return fmt.Errorf("failed to update user context: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit interaction: %w", err)
	}

	// 2. Cache update only after the commit succeeded, so the cache never
	// holds an interaction the durable log lost.
	s.cache.Append(interaction.SessionId, interaction)

	return nil
}

func (s *sessionService) ReadRecent(ctx context.Context, sessionId string, limit int) ([]*entity.Interaction, error) {
	if limit <= 0 || limit > s.window {
		limit = s.window
	}

	// 1. Cache hit: already chronological, just take the tail.
	if history, ok := s.cache.Get(sessionId); ok {
		if len(history) > limit {
			history = history[len(history)-limit:]
		}
		return history, nil
	}

	// 2. Miss: load the full window from Postgres, repopulate the cache.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.InteractionRepository().FindRecentBySession(ctx, sessionId, s.window)
	if err != nil {
		return nil, fmt.Errorf("failed to read session history: %w", err)
	}

	// Repository returns newest first; reverse into chronological order.
	history := make([]*entity.Interaction, len(rows))
	for i, row := range rows {
		history[len(rows)-1-i] = row
	}
	s.cache.Put(sessionId, history)

	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

func (s *sessionService) RecentHistory(ctx context.Context, sessionId string, limit int) ([]faq.HistoryEntry, error) {
	interactions, err := s.ReadRecent(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]faq.HistoryEntry, 0, len(interactions))
	for _, it := range interactions {
		entries = append(entries, faq.HistoryEntry{
			Query:    it.Query,
			Response: it.Response,
		})
	}
	return entries, nil
}

func (s *sessionService) UserStats(ctx context.Context, userId string) (*entity.UserContext, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserContextRepository().FindByUserId(ctx, userId)
}

func (s *sessionService) SessionStats(ctx context.Context, sessionId string) (*entity.SessionStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.InteractionRepository().SessionStats(ctx, sessionId)
}

func (s *sessionService) RetentionCleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	deleted, err := uow.InteractionRepository().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired interactions: %w", err)
	}

	// Flushing everything is simpler than finding which cached sessions lost
	// rows, and the next read repopulates from the durable log anyway.
	s.cache.Flush()

	s.log.Info("session_service", "retention cleanup completed", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	})

	return deleted, nil
}
