package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"doc-qa-be/internal/config"
	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, chatId uuid.UUID, file *multipart.FileHeader) (*dto.UploadDocumentResponse, error)
	GetAll(ctx context.Context) ([]*dto.DocumentResponse, error)
	GetByChatId(ctx context.Context, chatId uuid.UUID) ([]*dto.DocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	uploadCfg        config.UploadConfig
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	uploadCfg config.UploadConfig,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		uploadCfg:        uploadCfg,
	}
}

// Upload stores the document text and queues the embedding job. Chunking and
// embedding happen asynchronously in the consumer worker.
func (s *documentService) Upload(ctx context.Context, chatId uuid.UUID, file *multipart.FileHeader) (*dto.UploadDocumentResponse, error) {
	maxBytes := int64(s.uploadCfg.MaxFileSizeMB) * 1024 * 1024
	if file.Size > maxBytes {
		return nil, fiber.NewError(
			fiber.StatusBadRequest,
			fmt.Sprintf("File too large. Maximum size is %d MB.", s.uploadCfg.MaxFileSizeMB),
		)
	}

	contentType := file.Header.Get("Content-Type")
	if !isSupportedContentType(contentType, file.Filename) {
		return nil, fiber.NewError(
			fiber.StatusBadRequest,
			"Unsupported file type. Please upload a plain text or markdown file.",
		)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, maxBytes))
	if err != nil {
		return nil, err
	}

	text := string(raw)
	if !utf8.ValidString(text) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File content is not valid UTF-8 text.")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File is empty.")
	}

	// Oversized text is truncated, not rejected
	text = truncateText(text, s.uploadCfg.MaxTextLength)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	document := &entity.Document{
		Id:          uuid.New(),
		ChatId:      chatId,
		Filename:    file.Filename,
		ContentType: contentType,
		Text:        text,
		CreatedAt:   time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	msg := dto.PublishEmbedDocumentMessage{DocumentId: document.Id}
	msgJson, _ := json.Marshal(msg)
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{
		DocumentId: document.Id,
		ChatId:     chatId,
		Filename:   document.Filename,
		Status:     "processing",
	}, nil
}

func (s *documentService) GetAll(ctx context.Context) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toDocumentResponses(documents), nil
}

func (s *documentService) GetByChatId(ctx context.Context, chatId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toDocumentResponses(documents), nil
}

func toDocumentResponses(documents []*entity.Document) []*dto.DocumentResponse {
	result := make([]*dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		result = append(result, &dto.DocumentResponse{
			Id:          doc.Id,
			ChatId:      doc.ChatId,
			Filename:    doc.Filename,
			ContentType: doc.ContentType,
			ChunkCount:  doc.ChunkCount,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return result
}

// truncateText cuts at most max bytes without splitting a multibyte rune.
func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

func isSupportedContentType(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "text/") {
		return true
	}
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".md")
}
