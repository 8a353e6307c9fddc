package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatId          uuid.UUID `gorm:"type:uuid;index"`
	Question        string
	Answer          string
	Distance        *float64
	Threshold       float64
	WebSearchUsed   bool
	WebSearchReason *string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
