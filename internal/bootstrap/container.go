package bootstrap

import (
	"log"
	"time"

	"doc-qa-be/internal/config"
	"doc-qa-be/internal/controller"
	"doc-qa-be/internal/pkg/logger"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/internal/service"
	"doc-qa-be/pkg/composer"
	"doc-qa-be/pkg/embedding"
	"doc-qa-be/pkg/llm/factory"
	pkgNats "doc-qa-be/pkg/nats"
	"doc-qa-be/pkg/retrieval"
	"doc-qa-be/pkg/router"
	"doc-qa-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	QueryController    controller.IQueryController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		ApiKey:   cfg.Keys.OpenAI,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Without a Dappier key the searcher stays nil and web fallback is off
	var searcher websearch.Searcher
	if cfg.Keys.Dappier != "" {
		searcher = websearch.NewDappierClient(cfg.Keys.Dappier, cfg.Ai.DappierModelId)
	} else {
		log.Printf("[WARN] DAPPIER_API_KEY not set, web search fallback disabled")
	}

	// 3.5 Infrastructure
	// NATS is optional, the app runs without it
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 4. Routing Core
	policy := router.NewPolicy(
		router.NewLexiconDetector(),
		cfg.Query.RecencyCutoff,
		cfg.Query.RelevanceCutoff,
	)
	answerComposer := composer.NewComposer(
		time.Duration(cfg.Query.WebTimeoutSec)*time.Second,
		log.Default(),
	)
	retrievalService := retrieval.NewService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		cfg.Query.TopK,
		sysLogger,
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
		cfg.Upload,
	)

	queryService := service.NewQueryService(
		uowFactory,
		retrievalService,
		policy,
		answerComposer,
		searcher,
		natsPub,
		cfg.Query.DefaultThreshold,
		sysLogger,
	)
	chatService := service.NewChatService(uowFactory, cfg.Query.SessionThreshold)
	documentService := service.NewDocumentService(uowFactory, publisherService, cfg.Upload)

	// 6. Controllers
	return &Container{
		QueryController:    controller.NewQueryController(queryService),
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),

		ConsumerService: consumerService,
	}
}
