package bootstrap

import (
	"log"

	"faq-agentic-be/internal/config"
	"faq-agentic-be/internal/controller"
	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/internal/pkg/mailer"
	"faq-agentic-be/internal/repository/memory"
	"faq-agentic-be/internal/repository/unitofwork"
	"faq-agentic-be/internal/service"
	"faq-agentic-be/pkg/embedding"
	"faq-agentic-be/pkg/faq/grader"
	"faq-agentic-be/pkg/faq/responder"
	"faq-agentic-be/pkg/faq/retriever"
	"faq-agentic-be/pkg/faq/scrapper"
	"faq-agentic-be/pkg/faq/workflow"
	"faq-agentic-be/pkg/llm/factory"
	pktNats "faq-agentic-be/pkg/nats"
	"faq-agentic-be/pkg/scraper"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FaqController controller.IFaqController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for the ingest and cleanup commands
	IngestService  service.IIngestService
	SessionService service.ISessionService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.Workflow.SupportEmail,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (optional: escalation events are skipped when unavailable)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		log.Fatalf("[FATAL] Unknown embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session Storage
	sessionCache := memory.NewSessionCache(cfg.Session.CacheCapacity, cfg.Session.CacheWindow)
	sessionService := service.NewSessionService(uowFactory, sessionCache, cfg.Session.CacheWindow, sysLogger)

	// 5. Workflow Agents
	// Agent-stage logging is chatty; keep it out of the main log.
	agentLogger := logger.NewIsolatedLogger("logs/agents.log")
	gradingAgent := grader.NewAgent(llmProvider, agentLogger)
	vectorRetriever := retriever.NewVectorRetriever(embeddingProvider, uowFactory, cfg.Workflow.RetrievalTopK)
	respondingAgent := responder.NewAgent(llmProvider, sessionService, cfg.Workflow.HistoryLimit, agentLogger)

	pageScraper := scraper.New()
	escalationNotifiers := []scrapper.EscalationNotifier{
		mailer.NewEscalationNotifier(emailService),
	}
	if natsPub != nil {
		escalationNotifiers = append(escalationNotifiers, pktNats.NewEscalationNotifier(natsPub))
	}
	escalationAgent := scrapper.NewAgent(
		pageScraper,
		scrapper.Config{
			OverlapThreshold: cfg.Workflow.OverlapThreshold,
			MaxSources:       cfg.Workflow.MaxScrapeSources,
			SupportEmail:     cfg.Workflow.SupportEmail,
			SearchURLs:       cfg.Workflow.SearchURLs,
		},
		sysLogger,
		escalationNotifiers...,
	)

	router := workflow.NewRouter(
		gradingAgent,
		vectorRetriever,
		respondingAgent,
		escalationAgent,
		workflow.Config{SufficiencyThreshold: cfg.Workflow.SufficiencyThreshold},
		sysLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ingest.Topic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ingest.Topic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)
	ingestService := service.NewIngestService(
		pageScraper,
		publisherService,
		uowFactory,
		cfg.Ingest.ChunkSize,
		sysLogger,
	)

	faqService := service.NewFaqService(
		router,
		sessionService,
		uowFactory,
		cfg.Workflow.RunTimeout,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		FaqController:   controller.NewFaqController(faqService),
		ConsumerService: consumerService,
		IngestService:   ingestService,
		SessionService:  sessionService,
		Logger:          sysLogger,
	}
}
