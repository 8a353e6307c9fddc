package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename    string    `gorm:"type:varchar(512)"`
	ContentType string    `gorm:"type:varchar(128)"`
	Text        string    `gorm:"type:text"`
	ChunkCount  int       `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
