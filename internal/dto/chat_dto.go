package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatResponse struct {
	ChatId uuid.UUID `json:"chat_id"`
}

type ChatSummaryResponse struct {
	ChatId         uuid.UUID `json:"chat_id"`
	MessageCount   int64     `json:"message_count"`
	LastActivity   time.Time `json:"last_activity"`
	LatestQuestion string    `json:"latest_question"`
	LatestAnswer   string    `json:"latest_answer"`
}

type ChatMessageResponse struct {
	Id              uuid.UUID `json:"id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	WebSearchUsed   bool      `json:"web_search_used"`
	WebSearchReason *string   `json:"web_search_reason,omitempty"`
	Distance        *float64  `json:"distance,omitempty"`
	Threshold       float64   `json:"threshold"`
	CreatedAt       time.Time `json:"created_at"`
}

type DeleteChatResponse struct {
	ChatId       uuid.UUID `json:"chat_id"`
	DeletedCount int64     `json:"deleted_count"`
}

type GetThresholdResponse struct {
	ChatId    uuid.UUID `json:"chat_id"`
	Threshold float64   `json:"threshold"`
	IsDefault bool      `json:"is_default"`
}

type UpdateThresholdRequest struct {
	Threshold *float64 `json:"threshold" validate:"required,gte=0,lte=2"`
}

type UpdateThresholdResponse struct {
	ChatId       uuid.UUID `json:"chat_id"`
	Threshold    float64   `json:"threshold"`
	UpdatedCount int64     `json:"updated_count"`
}
