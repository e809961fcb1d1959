package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sakashimaa/go-pet-project/storefront/internal/notify"
	"github.com/sakashimaa/go-pet-project/storefront/internal/repository"
	"github.com/sakashimaa/go-pet-project/storefront/internal/service"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http/handler"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http/middleware"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/config"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/kafka"
	outboxRepo "github.com/sakashimaa/go-pet-project/storefront/pkg/outbox/repository"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/outbox/worker"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger, err := config.NewLogger(cfg.LoggerConfig())
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = utils.InitTracer(ctx, utils.TracerOptions{
			ServiceName: "storefront",
			Endpoint:    cfg.Tracing.Endpoint,
			Env:         cfg.Env,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			logger.Fatal("Failed to init tracer", zap.Error(err))
		}
	}

	products := repository.NewProductRepository(repository.SeedProducts(), logger)

	inbox := notify.NewInbox(notify.DefaultInboxSize, cfg.Session.TTL)
	sweepers := []utils.Sweeper{inbox}

	var carts repository.CartStore
	var redisClient *redis.Client
	switch cfg.Cart.Store {
	case config.CartStoreRedis:
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		carts = repository.NewRedisCartStore(redisClient, cfg.Session.TTL, logger)
	default:
		memoryCarts := repository.NewMemoryCartStore(cfg.Session.TTL)
		sweepers = append(sweepers, memoryCarts)
		carts = memoryCarts
	}

	var producer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.Fatal("Failed to create kafka producer", zap.Error(err))
		}
	} else {
		producer = kafka.NewLogProducer(logger)
	}

	outbox := outboxRepo.NewMemoryOutboxRepository(outboxRepo.DefaultMaxAttempts)
	processor := worker.NewOutboxProcessor(outbox, producer, logger)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		processor.Start(workerCtx)
	}()
	go utils.RunJanitor(workerCtx, cfg.Session.SweepInterval, logger, sweepers...)

	svc := service.NewStorefrontService(
		products,
		carts,
		outbox,
		notify.Multi(inbox, notify.NewLogNotifier(logger)),
		service.Options{
			SubmissionDelay: cfg.Submission.Delay,
			Topic:           cfg.Kafka.Topic,
		},
		logger,
	)

	app := fiber.New()

	app.Use(otelfiber.Middleware())

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
			})
		},
	}))

	handlers := &http.Handlers{
		Product:      handler.NewProductHandler(svc, inbox, logger, cfg.HTTP.Timeout, cfg.Submission.Timeout),
		Cart:         handler.NewCartHandler(svc, inbox, logger, cfg.HTTP.Timeout),
		Notification: handler.NewNotificationHandler(inbox),
	}
	if cfg.Env != config.EnvProd {
		handlers.Auth = handler.NewAuthHandler(cfg.Auth.Secret, logger)
	}

	http.RegisterRoutes(
		app,
		handlers,
		middleware.NewSessionMiddleware(cfg.Session.Cookie, cfg.Session.TTL),
		middleware.NewAuthMiddleware(cfg.Auth.Secret),
	)

	go func() {
		logger.Info("HTTP Service listening", zap.String("port", cfg.HTTP.Port))
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			logger.Fatal("Error listening on HTTP port", zap.String("port", cfg.HTTP.Port), zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down gracefully...")
	shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownContext); err != nil {
		logger.Error("Error shutting down HTTP app", zap.Error(err))
	} else {
		logger.Info("HTTP App stopped gracefully")
	}

	// one last pass so events of late submissions are not lost
	cancelWorker()
	<-workerDone
	if _, err := processor.ProcessBatch(shutdownContext); err != nil {
		logger.Error("Error flushing outbox", zap.Error(err))
	}

	if err := producer.Close(); err != nil {
		logger.Error("Error closing kafka producer", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing redis client", zap.Error(err))
		}
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownContext); err != nil {
			logger.Error("Error shutting down telemetry", zap.Error(err))
		} else {
			logger.Info("Telemetry stopped correctly")
		}
	}
}
