package bootstrap

import (
	"context"
	"log"

	"vidnotes-be/internal/config"
	"vidnotes-be/internal/controller"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/pkg/metrics"
	"vidnotes-be/internal/pkg/oauthstate"
	"vidnotes-be/internal/pkg/serverutils"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/internal/service"
	"vidnotes-be/pkg/events"

	pktNats "vidnotes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const forkAuditTopic = "FORK_AUDIT"

type Container struct {
	// Controllers
	ShareController    controller.IShareController
	OAuthController    controller.IOAuthController
	ProfileController  controller.IProfileController
	NotebookController controller.INotebookController
	PageController     controller.IPageController
	NoteController     controller.INoteController

	JwtMiddleware fiber.Handler
	TokenSigner   *serverutils.TokenSigner
	Metrics       *metrics.Metrics
	Logger        logger.ILogger

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func()
}

// NewContainer wires every service. Identity providers default to Google from cfg;
// tests pass their own.
func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger, providers ...service.IdentityProvider) *Container {
	c := &Container{Logger: sysLogger}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	c.Metrics = metrics.New()
	c.TokenSigner = serverutils.NewTokenSigner(cfg.Auth.JwtSecret, cfg.Auth.JwtTTL)
	c.JwtMiddleware = serverutils.NewJwtMiddleware(c.TokenSigner)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 2.5 Infrastructure
	var eventPublisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	// 3. Services
	publisherService := service.NewPublisherService(forkAuditTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		forkAuditTopic,
		uowFactory,
		auditLogger(cfg),
		sysLogger,
		service.RetryPolicy{MaxAttempts: cfg.Audit.MaxAttempts, Delay: cfg.Audit.RetryDelay},
	)

	if len(providers) == 0 {
		providers = []service.IdentityProvider{
			service.NewGoogleProvider(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURL),
		}
	}

	shareService := service.NewShareService(uowFactory, cfg.Share.TokenTTL, eventPublisher, c.Metrics, sysLogger)
	forkService := service.NewForkService(uowFactory, shareService, eventPublisher, publisherService, c.Metrics, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, c.stateStore(cfg), c.TokenSigner, sysLogger, providers...)
	profileService := service.NewProfileService(uowFactory)
	callbackRouter := service.NewAuthCallbackRouter(oauthService, profileService, forkService, cfg.App.ClientURL, c.Metrics, sysLogger)

	// 4. Controllers
	c.ShareController = controller.NewShareController(shareService, forkService)
	c.OAuthController = controller.NewOAuthController(oauthService, callbackRouter)
	c.ProfileController = controller.NewProfileController(profileService)
	c.NotebookController = controller.NewNotebookController(service.NewNotebookService(uowFactory))
	c.PageController = controller.NewPageController(service.NewPageService(uowFactory))
	c.NoteController = controller.NewNoteController(service.NewNoteService(uowFactory))

	return c
}

// stateStore keeps OAuth state in Redis when configured and reachable, in memory otherwise.
func (c *Container) stateStore(cfg *config.Config) oauthstate.Store {
	if cfg.App.RedisURL == "" {
		return oauthstate.NewMemoryStore(cfg.Auth.StateTTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. OAuth state stays in memory", err)
		_ = rdb.Close()
		return oauthstate.NewMemoryStore(cfg.Auth.StateTTL)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return oauthstate.NewRedisStore(rdb, cfg.Auth.StateTTL)
}

func auditLogger(cfg *config.Config) logger.ILogger {
	if cfg.App.AuditLogFilePath == "" {
		return logger.NewNopLogger()
	}
	return logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
