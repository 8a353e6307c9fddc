package retrieval

import (
	"context"
	"fmt"
	"strings"

	"doc-qa-be/internal/pkg/logger"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/pkg/composer"
	"doc-qa-be/pkg/embedding"
	"doc-qa-be/pkg/llm"

	"github.com/google/uuid"
)

// answerPrompt constrains the model to the retrieved chunks. "Empty Response"
// is the sentinel the composer recognizes as an unusable answer.
const answerPrompt = `You are a helpful assistant answering questions about a document.
Use ONLY the document excerpts below to answer. Do not use outside knowledge.
If the excerpts do not contain the answer, reply with exactly: Empty Response

Document excerpts:
%s

Question: %s`

// ProbeResult is the outcome of a similarity probe against a chat's documents.
type ProbeResult struct {
	// Distance is the cosine distance of the closest chunk. Lower is more similar.
	Distance float64
	// Found is false when the chat has no embedded chunks at all.
	Found bool
	// QueryEmbedding is reused by the retriever to avoid embedding twice.
	QueryEmbedding []float32
}

type Service struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	llm        llm.LLMProvider
	topK       int
	log        logger.ILogger
}

func NewService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	topK int,
	log logger.ILogger,
) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		uowFactory: uowFactory,
		embedder:   embedder,
		llm:        llmProvider,
		topK:       topK,
		log:        log,
	}
}

// Probe embeds the question and measures the distance to the nearest chunk
// of the chat's documents.
func (s *Service) Probe(ctx context.Context, chatId uuid.UUID, question string) (*ProbeResult, error) {
	queryEmbedding, err := s.embedder.Generate(ctx, question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().NearestWithDistance(ctx, chatId, queryEmbedding, 1)
	if err != nil {
		return nil, fmt.Errorf("similarity probe: %w", err)
	}

	if len(scored) == 0 {
		return &ProbeResult{Found: false, QueryEmbedding: queryEmbedding}, nil
	}

	return &ProbeResult{
		Distance:       scored[0].Distance,
		Found:          true,
		QueryEmbedding: queryEmbedding,
	}, nil
}

// Retriever binds the service to a chat and a precomputed query embedding,
// yielding a document answerer for the composer.
func (s *Service) Retriever(chatId uuid.UUID, queryEmbedding []float32) composer.DocumentRetriever {
	return &boundRetriever{service: s, chatId: chatId, queryEmbedding: queryEmbedding}
}

type boundRetriever struct {
	service        *Service
	chatId         uuid.UUID
	queryEmbedding []float32
}

func (r *boundRetriever) Answer(ctx context.Context, question string) (string, error) {
	s := r.service

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().NearestWithDistance(ctx, r.chatId, r.queryEmbedding, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve chunks: %w", err)
	}

	if len(scored) == 0 {
		return "", nil
	}

	var excerpts strings.Builder
	for i, sc := range scored {
		fmt.Fprintf(&excerpts, "[%d] %s\n\n", i+1, sc.Chunk.Content)
	}

	s.log.Debug("retrieval", "Answering from document chunks", map[string]interface{}{
		"chat_id":      r.chatId.String(),
		"chunk_count":  len(scored),
		"top_distance": scored[0].Distance,
	})

	prompt := fmt.Sprintf(answerPrompt, excerpts.String(), question)
	answer, err := s.llm.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(answer), nil
}
