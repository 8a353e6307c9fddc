package service

import (
	"context"
	"time"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	seedQuestion = "Chat started"
	seedAnswer   = "Ready to ask questions about your document"
)

type IChatService interface {
	Create(ctx context.Context) (*dto.CreateChatResponse, error)
	GetAll(ctx context.Context) ([]*dto.ChatSummaryResponse, error)
	GetMessages(ctx context.Context, chatId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	Delete(ctx context.Context, chatId uuid.UUID) (*dto.DeleteChatResponse, error)
	GetThreshold(ctx context.Context, chatId uuid.UUID) (*dto.GetThresholdResponse, error)
	UpdateThreshold(ctx context.Context, chatId uuid.UUID, req *dto.UpdateThresholdRequest) (*dto.UpdateThresholdResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessionThreshold float64
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, sessionThreshold float64) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		sessionThreshold: sessionThreshold,
	}
}

// Create seeds a first message so the chat immediately carries a threshold
// and shows up in session listings.
func (s *chatService) Create(ctx context.Context) (*dto.CreateChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chatId := uuid.New()
	seed := &entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    chatId,
		Question:  seedQuestion,
		Answer:    seedAnswer,
		Threshold: s.sessionThreshold,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatMessageRepository().Create(ctx, seed); err != nil {
		return nil, err
	}

	return &dto.CreateChatResponse{ChatId: chatId}, nil
}

func (s *chatService) GetAll(ctx context.Context) ([]*dto.ChatSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	summaries, err := uow.ChatMessageRepository().ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		result = append(result, &dto.ChatSummaryResponse{
			ChatId:         summary.ChatId,
			MessageCount:   summary.MessageCount,
			LastActivity:   summary.LastActivity,
			LatestQuestion: summary.LatestQuestion,
			LatestAnswer:   summary.LatestAnswer,
		})
	}
	return result, nil
}

func (s *chatService) GetMessages(ctx context.Context, chatId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		result = append(result, &dto.ChatMessageResponse{
			Id:              msg.Id,
			Question:        msg.Question,
			Answer:          msg.Answer,
			WebSearchUsed:   msg.WebSearchUsed,
			WebSearchReason: msg.WebSearchReason,
			Distance:        msg.Distance,
			Threshold:       msg.Threshold,
			CreatedAt:       msg.CreatedAt,
		})
	}
	return result, nil
}

// Delete removes the chat's messages, documents and chunks in one transaction.
func (s *chatService) Delete(ctx context.Context, chatId uuid.UUID) (*dto.DeleteChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	documents, err := uow.DocumentRepository().FindAll(ctx, specification.ByChatID{ChatID: chatId})
	if err != nil {
		return nil, err
	}
	for _, doc := range documents {
		if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
			return nil, err
		}
	}

	if err := uow.DocumentRepository().DeleteByChatId(ctx, chatId); err != nil {
		return nil, err
	}

	deleted, err := uow.ChatMessageRepository().DeleteByChatId(ctx, chatId)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.DeleteChatResponse{
		ChatId:       chatId,
		DeletedCount: deleted,
	}, nil
}

func (s *chatService) GetThreshold(ctx context.Context, chatId uuid.UUID) (*dto.GetThresholdResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	latest, err := uow.ChatMessageRepository().FindLatestByChatId(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &dto.GetThresholdResponse{
			ChatId:    chatId,
			Threshold: s.sessionThreshold,
			IsDefault: true,
		}, nil
	}

	return &dto.GetThresholdResponse{
		ChatId:    chatId,
		Threshold: latest.Threshold,
	}, nil
}

// UpdateThreshold overwrites the threshold on every stored message of the
// chat so the new value survives as the session override. An unknown chat is
// not an error, the response just carries a zero count.
func (s *chatService) UpdateThreshold(ctx context.Context, chatId uuid.UUID, req *dto.UpdateThresholdRequest) (*dto.UpdateThresholdResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	updated, err := uow.ChatMessageRepository().UpdateAllThresholds(ctx, chatId, *req.Threshold)
	if err != nil {
		return nil, err
	}

	return &dto.UpdateThresholdResponse{
		ChatId:       chatId,
		Threshold:    *req.Threshold,
		UpdatedCount: updated,
	}, nil
}
