package dto

import (
	"github.com/google/uuid"
)

type QueryRequest struct {
	ChatId   uuid.UUID `json:"chat_id" validate:"required"`
	Question string    `json:"question" validate:"required"`
}

type QueryResponse struct {
	Answer          string   `json:"answer"`
	WebSearchUsed   bool     `json:"web_search_used"`
	WebSearchReason *string  `json:"web_search_reason,omitempty"`
	Distance        *float64 `json:"debug_distance,omitempty"`
	Threshold       float64  `json:"threshold"`
}
