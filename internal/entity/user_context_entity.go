package entity

import "time"

// UserContext tracks per-user interaction statistics.
type UserContext struct {
	UserId           string
	InteractionCount int
	LastActive       time.Time
	CreatedAt        time.Time
}
