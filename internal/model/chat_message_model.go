package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Question        string    `gorm:"type:text"`
	Answer          string    `gorm:"type:text"`
	Distance        *float64
	Threshold       float64 `gorm:"default:0.5"`
	WebSearchUsed   bool    `gorm:"default:false"`
	WebSearchReason *string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
