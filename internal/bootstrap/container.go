package bootstrap

import (
	"context"
	"log"

	"ai-career-counselor-be/internal/config"
	"ai-career-counselor-be/internal/controller"
	"ai-career-counselor-be/internal/pkg/logger"
	"ai-career-counselor-be/internal/repository/memory"
	"ai-career-counselor-be/internal/repository/unitofwork"
	"ai-career-counselor-be/internal/service"
	"ai-career-counselor-be/pkg/counselor"
	"ai-career-counselor-be/pkg/llm/factory"
	"ai-career-counselor-be/pkg/quota"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM provider
	llmProvider, err := factory.NewLLMProvider(
		context.Background(),
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	generator := counselor.NewGenerator(llmProvider, sysLogger)

	// 4. Redis backed daily quota
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	limiter := quota.NewLimiter(rdb, cfg.Quota.DailyMessageLimit)

	// 5. Preview cache and session events
	previews := memory.NewSessionPreviewCache()

	eventLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
	publisherService := service.NewPublisherService(pubSub, cfg.App.SessionEventTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.SessionEventTopic,
		previews,
		eventLogger,
	)

	// 6. Services
	conversationService := service.NewConversationService(
		uowFactory,
		generator,
		limiter,
		previews,
		publisherService,
		sysLogger,
	)

	return &Container{
		ChatController:  controller.NewChatController(conversationService),
		ConsumerService: consumerService,
	}
}
