package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	ChatId     uuid.UUID `json:"chat_id"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"` // "processing" until chunks are embedded
}

type DocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	ChatId      uuid.UUID `json:"chat_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublishEmbedDocumentMessage is the async embedding job payload.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
