package service

import (
	"context"
	"errors"
	"time"

	"faq-agentic-be/internal/dto"
	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/internal/repository/unitofwork"
	"faq-agentic-be/pkg/faq/workflow"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// workflowRunner is what the service needs from the router. Kept narrow so
// tests can swap in a scripted runner.
type workflowRunner interface {
	Run(ctx context.Context, query, sessionId string) (*workflow.RunOutcome, error)
}

type IFaqService interface {
	// Query runs one question through the routing workflow under the
	// configured deadline and records the exchange.
	Query(ctx context.Context, req *dto.FaqQueryRequest) (*dto.FaqQueryResponse, error)
	History(ctx context.Context, sessionId string, limit int) (*dto.SessionHistoryResponse, error)
	SessionStats(ctx context.Context, sessionId string) (*dto.SessionStatsResponse, error)
	UserStats(ctx context.Context, userId string) (*dto.UserStatsResponse, error)
	Status(ctx context.Context) (*dto.SystemStatusResponse, error)
}

type faqService struct {
	runner     workflowRunner
	sessions   ISessionService
	uowFactory unitofwork.RepositoryFactory
	runTimeout time.Duration
	log        logger.ILogger
}

func NewFaqService(
	runner workflowRunner,
	sessions ISessionService,
	uowFactory unitofwork.RepositoryFactory,
	runTimeout time.Duration,
	log logger.ILogger,
) IFaqService {
	if runTimeout <= 0 {
		runTimeout = 30 * time.Second
	}
	return &faqService{
		runner:     runner,
		sessions:   sessions,
		uowFactory: uowFactory,
		runTimeout: runTimeout,
		log:        log,
	}
}

func (s *faqService) Query(ctx context.Context, req *dto.FaqQueryRequest) (*dto.FaqQueryResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	started := time.Now()
	outcome, err := s.runner.Run(runCtx, req.Query, sessionId)
	if err != nil {
		// Timeouts pass through untouched so the controller can map them to
		// a distinct status code.
		return nil, err
	}
	elapsed := time.Since(started)

	result := outcome.Result

	// Persistence is best-effort: the caller already has their answer, a
	// storage hiccup must not retract it.
	var intent *string
	if outcome.Graded.Intent != "" {
		intent = &outcome.Graded.Intent
	}
	interaction := &entity.Interaction{
		SessionId:  sessionId,
		UserId:     req.UserId,
		Query:      req.Query,
		Response:   result.Answer,
		Confidence: string(result.Confidence),
		Intent:     intent,
		Metadata: map[string]interface{}{
			"result_type":        result.Type,
			"keywords":           outcome.Graded.Keywords,
			"processing_time_ms": elapsed.Milliseconds(),
		},
	}
	if err := s.sessions.Append(ctx, interaction); err != nil {
		s.log.Error("faq_service", "failed to record interaction", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	s.log.Info("faq_service", "query processed", map[string]interface{}{
		"session_id":  sessionId,
		"query":       truncate(req.Query, 50),
		"result_type": result.Type,
		"confidence":  string(result.Confidence),
		"duration_ms": elapsed.Milliseconds(),
	})

	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}

	return &dto.FaqQueryResponse{
		Answer:     result.Answer,
		Confidence: string(result.Confidence),
		Sources:    sources,
		SessionId:  sessionId,
		Intent:     result.Intent,
		Timestamp:  time.Now(),
	}, nil
}

func (s *faqService) History(ctx context.Context, sessionId string, limit int) (*dto.SessionHistoryResponse, error) {
	interactions, err := s.sessions.ReadRecent(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	history := make([]dto.InteractionDTO, 0, len(interactions))
	for _, it := range interactions {
		history = append(history, dto.InteractionDTO{
			Query:      it.Query,
			Response:   it.Response,
			Confidence: it.Confidence,
			Intent:     it.Intent,
			Metadata:   it.Metadata,
			Timestamp:  it.Timestamp,
		})
	}

	return &dto.SessionHistoryResponse{
		SessionId:         sessionId,
		History:           history,
		TotalInteractions: len(history),
	}, nil
}

func (s *faqService) SessionStats(ctx context.Context, sessionId string) (*dto.SessionStatsResponse, error) {
	stats, err := s.sessions.SessionStats(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.SessionStatsResponse{
		SessionId:           stats.SessionId,
		TotalInteractions:   stats.TotalInteractions,
		FirstInteraction:    stats.FirstInteraction,
		LastInteraction:     stats.LastInteraction,
		HighConfidenceRatio: stats.HighConfidenceRatio,
	}, nil
}

func (s *faqService) UserStats(ctx context.Context, userId string) (*dto.UserStatsResponse, error) {
	user, err := s.sessions.UserStats(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &dto.UserStatsResponse{
		UserId:           user.UserId,
		InteractionCount: user.InteractionCount,
		LastActive:       user.LastActive,
	}, nil
}

func (s *faqService) Status(ctx context.Context) (*dto.SystemStatusResponse, error) {
	status := &dto.SystemStatusResponse{
		Database:    "ok",
		VectorStore: "ok",
		Agents:      "ok",
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.InteractionRepository().Count(ctx); err != nil {
		status.Database = "unavailable"
	}
	if _, err := uow.FaqDocumentRepository().Count(ctx); err != nil {
		status.VectorStore = "unavailable"
	}

	return status, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
