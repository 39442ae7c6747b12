package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Interaction struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  string         `gorm:"type:varchar(255);not null;index:idx_interactions_session_time,priority:1"`
	UserId     string         `gorm:"type:varchar(255);not null;index"`
	Query      string         `gorm:"type:text;not null"`
	Response   string         `gorm:"type:text;not null"`
	Confidence string         `gorm:"type:varchar(20);not null"`
	Intent     *string        `gorm:"type:varchar(100)"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	Timestamp  time.Time      `gorm:"autoCreateTime;index:idx_interactions_session_time,priority:2"`
}

func (Interaction) TableName() string {
	return "interactions"
}
