package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/pkg/logger"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/pkg/composer"
	"doc-qa-be/pkg/events"
	pkgNats "doc-qa-be/pkg/nats"
	"doc-qa-be/pkg/retrieval"
	"doc-qa-be/pkg/router"
	"doc-qa-be/pkg/websearch"

	"github.com/google/uuid"
)

const refusalAnswerFormat = "I couldn't find relevant information in the document for this question. (Similarity: %.3f, Threshold: %g)"

type IQueryService interface {
	Query(ctx context.Context, req *dto.QueryRequest, explicitThreshold *float64, useWebSearch bool) (*dto.QueryResponse, error)
}

// IRetrievalService is the slice of retrieval.Service the query flow needs.
type IRetrievalService interface {
	Probe(ctx context.Context, chatId uuid.UUID, question string) (*retrieval.ProbeResult, error)
	Retriever(chatId uuid.UUID, queryEmbedding []float32) composer.DocumentRetriever
}

// IAnswerComposer is satisfied by composer.Composer.
type IAnswerComposer interface {
	Compose(ctx context.Context, question string, retriever composer.DocumentRetriever, searcher composer.WebSearcher, decision router.Decision) (*composer.ComposedAnswer, error)
}

type queryService struct {
	uowFactory       unitofwork.RepositoryFactory
	retrieval        IRetrievalService
	gate             router.Gate
	policy           *router.Policy
	composer         IAnswerComposer
	searcher         websearch.Searcher
	natsPub          *pkgNats.Publisher
	defaultThreshold float64
	sysLogger        logger.ILogger
}

func NewQueryService(
	uowFactory unitofwork.RepositoryFactory,
	retrievalService IRetrievalService,
	policy *router.Policy,
	answerComposer IAnswerComposer,
	searcher websearch.Searcher,
	natsPub *pkgNats.Publisher,
	defaultThreshold float64,
	sysLogger logger.ILogger,
) IQueryService {
	return &queryService{
		uowFactory:       uowFactory,
		retrieval:        retrievalService,
		gate:             router.Gate{},
		policy:           policy,
		composer:         answerComposer,
		searcher:         searcher,
		natsPub:          natsPub,
		defaultThreshold: defaultThreshold,
		sysLogger:        sysLogger,
	}
}

func (s *queryService) Query(ctx context.Context, req *dto.QueryRequest, explicitThreshold *float64, useWebSearch bool) (*dto.QueryResponse, error) {
	threshold, err := s.resolveThreshold(ctx, req.ChatId, explicitThreshold)
	if err != nil {
		return nil, err
	}

	probe, err := s.retrieval.Probe(ctx, req.ChatId, req.Question)
	if err != nil {
		return nil, err
	}
	if !probe.Found {
		// A chat without indexed chunks gets a soft answer, not an error
		return &dto.QueryResponse{
			Answer:    "No documents have been indexed for this chat yet. Please upload a document first.",
			Threshold: threshold,
		}, nil
	}

	// Web search is only available when a searcher is actually configured
	webSearchEnabled := useWebSearch && s.searcher != nil

	gatePassed := s.gate.Evaluate(probe.Distance, threshold)
	decision := s.policy.Decide(gatePassed, probe.Distance, req.Question, webSearchEnabled)

	s.sysLogger.Info("query", "Routing decision", map[string]interface{}{
		"chat_id":            req.ChatId.String(),
		"distance":           probe.Distance,
		"threshold":          threshold,
		"gate_passed":        gatePassed,
		"web_search_enabled": webSearchEnabled,
		"use_web_fallback":   decision.UseWebFallback,
		"reason":             decision.Reason,
	})

	if decision.ShortCircuit() {
		return s.refuse(ctx, req, probe.Distance, threshold, decision)
	}

	retriever := s.retrieval.Retriever(req.ChatId, probe.QueryEmbedding)
	composed, err := s.composer.Compose(ctx, req.Question, retriever, s.searcher, decision)
	if err != nil {
		return nil, err
	}

	distance := probe.Distance
	message := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatId:        req.ChatId,
		Question:      req.Question,
		Answer:        composed.Text,
		Distance:      &distance,
		Threshold:     threshold,
		WebSearchUsed: composed.WebSearchUsed,
		CreatedAt:     time.Now(),
	}
	if composed.WebSearchUsed && composed.Reason != "" {
		reason := composed.Reason
		message.WebSearchReason = &reason
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	if s.natsPub != nil {
		event := events.NewQueryAnswered(req.ChatId.String(), req.Question, probe.Distance, threshold, composed.WebSearchUsed)
		if err := s.natsPub.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish QUERY_ANSWERED event: %v", err)
		}
	}

	return &dto.QueryResponse{
		Answer:          composed.Text,
		WebSearchUsed:   composed.WebSearchUsed,
		WebSearchReason: message.WebSearchReason,
		Distance:        &distance,
		Threshold:       threshold,
	}, nil
}

// refuse answers without invoking any generative backend. The stored message
// still records the distance and reason for later inspection.
func (s *queryService) refuse(ctx context.Context, req *dto.QueryRequest, distance, threshold float64, decision router.Decision) (*dto.QueryResponse, error) {
	answer := fmt.Sprintf(refusalAnswerFormat, distance, threshold)

	var reason *string
	if decision.Reason != "" {
		r := decision.Reason
		reason = &r
	}

	message := &entity.ChatMessage{
		Id:              uuid.New(),
		ChatId:          req.ChatId,
		Question:        req.Question,
		Answer:          answer,
		Distance:        &distance,
		Threshold:       threshold,
		WebSearchUsed:   false,
		WebSearchReason: reason,
		CreatedAt:       time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	if s.natsPub != nil {
		event := events.NewQueryRefused(req.ChatId.String(), req.Question, decision.Reason, distance, threshold)
		if err := s.natsPub.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish QUERY_REFUSED event: %v", err)
		}
	}

	return &dto.QueryResponse{
		Answer:          answer,
		WebSearchUsed:   false,
		WebSearchReason: reason,
		Distance:        &distance,
		Threshold:       threshold,
	}, nil
}

// resolveThreshold prefers an explicit request threshold over the chat's
// stored one, falling back to the service default for fresh chats.
func (s *queryService) resolveThreshold(ctx context.Context, chatId uuid.UUID, explicit *float64) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	latest, err := uow.ChatMessageRepository().FindLatestByChatId(ctx, chatId)
	if err != nil {
		return 0, err
	}
	if latest != nil {
		return latest.Threshold, nil
	}
	return s.defaultThreshold, nil
}
