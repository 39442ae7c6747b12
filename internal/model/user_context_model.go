package model

import "time"

type UserContext struct {
	UserId           string    `gorm:"type:varchar(255);primaryKey"`
	InteractionCount int       `gorm:"not null;default:1"`
	LastActive       time.Time `gorm:"not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (UserContext) TableName() string {
	return "user_contexts"
}
