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
	"gorm.io/gorm/clause"
)

type UserContextRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FaqMapper
}

func NewUserContextRepository(db *gorm.DB) contract.UserContextRepository {
	return &UserContextRepositoryImpl{
		db:     db,
		mapper: mapper.NewFaqMapper(),
	}
}

func (r *UserContextRepositoryImpl) IncrementInteraction(ctx context.Context, userId string) error {
	now := time.Now()
	m := &model.UserContext{
		UserId:           userId,
		InteractionCount: 1,
		LastActive:       now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"interaction_count": gorm.Expr("user_contexts.interaction_count + 1"),
			"last_active":       now,
		}),
	}).Create(m).Error
}

func (r *UserContextRepositoryImpl) FindByUserId(ctx context.Context, userId string) (*entity.UserContext, error) {
	var m model.UserContext
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserContextToEntity(&m), nil
}
