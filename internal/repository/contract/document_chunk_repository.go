package contract

import (
	"context"

	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk pairs a chunk with its cosine distance to a query vector.
// Lower distance means more similar.
type ScoredChunk struct {
	Chunk    *entity.DocumentChunk
	Distance float64
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// NearestWithDistance returns the chunks of a chat's documents closest to
	// the query embedding, ordered by ascending cosine distance.
	NearestWithDistance(ctx context.Context, chatId uuid.UUID, embedding []float32, limit int) ([]*ScoredChunk, error)
}
