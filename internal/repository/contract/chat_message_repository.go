package contract

import (
	"context"
	"time"

	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatSummary aggregates the message history of a single chat session,
// including the most recent exchange for listing previews.
type ChatSummary struct {
	ChatId         uuid.UUID
	MessageCount   int64
	LastActivity   time.Time
	LatestQuestion string
	LatestAnswer   string
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	Update(ctx context.Context, message *entity.ChatMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindLatestByChatId returns the most recent message for a chat, or nil.
	FindLatestByChatId(ctx context.Context, chatId uuid.UUID) (*entity.ChatMessage, error)

	// UpdateAllThresholds overwrites the stored threshold of every message
	// for a chat and returns the number of rows touched.
	UpdateAllThresholds(ctx context.Context, chatId uuid.UUID, threshold float64) (int64, error)

	// DeleteByChatId removes all messages of a chat and returns the count.
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) (int64, error)

	// ListSummaries aggregates all chat sessions from their messages,
	// most recently active first.
	ListSummaries(ctx context.Context) ([]*ChatSummary, error)
}
