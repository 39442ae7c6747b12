package implementation

import (
	"context"
	"errors"
	"time"

	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/mapper"
	"faq-agentic-be/internal/model"
	"faq-agentic-be/internal/repository/contract"

	"gorm.io/gorm"
)

type InteractionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FaqMapper
}

func NewInteractionRepository(db *gorm.DB) contract.InteractionRepository {
	return &InteractionRepositoryImpl{
		db:     db,
		mapper: mapper.NewFaqMapper(),
	}
}

func (r *InteractionRepositoryImpl) Create(ctx context.Context, interaction *entity.Interaction) error {
	m := r.mapper.InteractionToModel(interaction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*interaction = *r.mapper.InteractionToEntity(m)
	return nil
}

func (r *InteractionRepositoryImpl) FindRecentBySession(ctx context.Context, sessionId string, limit int) ([]*entity.Interaction, error) {
	var models []*model.Interaction
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.InteractionsToEntities(models), nil
}

func (r *InteractionRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&model.Interaction{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *InteractionRepositoryImpl) SessionStats(ctx context.Context, sessionId string) (*entity.SessionStats, error) {
	var row struct {
		Total     int64
		First     *time.Time
		Last      *time.Time
		HighRatio *float64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Interaction{}).
		Select("COUNT(*) as total, MIN(timestamp) as first, MAX(timestamp) as last, AVG(CASE WHEN confidence = 'high' THEN 1 ELSE 0 END) as high_ratio").
		Where("session_id = ?", sessionId).
		Scan(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.SessionStats{SessionId: sessionId}, nil
		}
		return nil, err
	}

	stats := &entity.SessionStats{
		SessionId:         sessionId,
		TotalInteractions: row.Total,
		FirstInteraction:  row.First,
		LastInteraction:   row.Last,
	}
	if row.HighRatio != nil {
		stats.HighConfidenceRatio = *row.HighRatio
	}
	return stats, nil
}

func (r *InteractionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Interaction{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
