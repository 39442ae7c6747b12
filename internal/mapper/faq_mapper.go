package mapper

import (
	"encoding/json"

	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/model"

	"gorm.io/datatypes"
)

type FaqMapper struct{}

func NewFaqMapper() *FaqMapper {
	return &FaqMapper{}
}

func (m *FaqMapper) InteractionToModel(e *entity.Interaction) *model.Interaction {
	var meta datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			meta = datatypes.JSON(raw)
		}
	}
	return &model.Interaction{
		Id:         e.Id,
		SessionId:  e.SessionId,
		UserId:     e.UserId,
		Query:      e.Query,
		Response:   e.Response,
		Confidence: e.Confidence,
		Intent:     e.Intent,
		Metadata:   meta,
		Timestamp:  e.Timestamp,
	}
}

func (m *FaqMapper) InteractionToEntity(mo *model.Interaction) *entity.Interaction {
	var meta map[string]interface{}
	if len(mo.Metadata) > 0 {
		// Malformed JSONB is treated as no metadata rather than an error.
		_ = json.Unmarshal(mo.Metadata, &meta)
	}
	return &entity.Interaction{
		Id:         mo.Id,
		SessionId:  mo.SessionId,
		UserId:     mo.UserId,
		Query:      mo.Query,
		Response:   mo.Response,
		Confidence: mo.Confidence,
		Intent:     mo.Intent,
		Metadata:   meta,
		Timestamp:  mo.Timestamp,
	}
}

func (m *FaqMapper) InteractionsToEntities(models []*model.Interaction) []*entity.Interaction {
	entities := make([]*entity.Interaction, len(models))
	for i, mo := range models {
		entities[i] = m.InteractionToEntity(mo)
	}
	return entities
}

func (m *FaqMapper) UserContextToEntity(mo *model.UserContext) *entity.UserContext {
	return &entity.UserContext{
		UserId:           mo.UserId,
		InteractionCount: mo.InteractionCount,
		LastActive:       mo.LastActive,
		CreatedAt:        mo.CreatedAt,
	}
}
