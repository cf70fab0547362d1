package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/wekeepgrowing/institute-backend/pkg/logger"
	"github.com/wekeepgrowing/institute-backend/pkg/messaging"
	grpcHandler "github.com/wekeepgrowing/institute-backend/services/payment/internal/adapter/handler/grpc"
	httpHandler "github.com/wekeepgrowing/institute-backend/services/payment/internal/adapter/handler/http"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/config"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/event"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/schedule"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/cache"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/crypto"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/http"
	eventMessaging "github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/messaging"
	providerFactory "github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/provider"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/provider/sandbox"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthPollInterval = 10 * time.Second
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger = zapLogger.With(zap.String("service", cfg.Service.Name))

	db, err := database.NewConnection(&cfg.Database, cfg.Log.SQLLevel, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	repos := database.NewRepositories(db, zapLogger)

	intents, publisher, closeRedis := buildEphemeralStores(cfg, zapLogger)
	defer closeRedis()

	signer := crypto.NewHMACSignatureVerifier(cfg.Gateway.KeySecret)
	factory := providerFactory.NewFactory(&cfg.Gateway, signer, zapLogger)

	var (
		gateway      provider.PaymentGateway
		sandboxOrder *sandbox.SandboxProvider
	)
	if cfg.Gateway.Provider == config.GatewaySandbox {
		sandboxOrder = factory.CreateSandboxProvider()
		gateway = sandboxOrder
	} else {
		gateway, err = factory.GetProviderFromString(cfg.Gateway.Provider)
		if err != nil {
			zapLogger.Fatal("Failed to create payment gateway", zap.Error(err))
		}
	}
	zapLogger.Info("Payment gateway configured", zap.String("gateway", gateway.GetProviderName()))

	scriptURL := cfg.Gateway.CheckoutScriptURL
	if sandboxOrder != nil {
		scriptURL = "/sandbox/checkout.js"
	}

	scheduleOpts := schedule.Options{IntervalMonths: cfg.Payment.InstallmentIntervalMonths}

	admissionService := usecase.NewAdmissionService(repos.Admission, repos.Installment, repos.Payment, scheduleOpts, cfg.Gateway.Currency, zapLogger)
	scheduleService := usecase.NewScheduleService(repos.Admission, repos.Installment, scheduleOpts, zapLogger)
	orderService := usecase.NewOrderService(repos.Admission, repos.Installment, intents, gateway, usecase.OrderServiceConfig{
		Currency:     cfg.Gateway.Currency,
		MerchantName: cfg.Gateway.MerchantName,
		ScriptURL:    scriptURL,
		IntentTTL:    cfg.Payment.OrderIntentTTL,
	}, zapLogger)
	verificationService := usecase.NewVerificationService(repos.Admission, repos.Payment, intents, signer,
		usecase.NewReceiptNumberGenerator(cfg.Payment.ReceiptPrefix), publisher, zapLogger)

	handlers := httpServer.Handlers{
		Admission:   httpHandler.NewAdmissionHandler(admissionService, zapLogger),
		Payment:     httpHandler.NewPaymentHandler(orderService, verificationService, zapLogger),
		Installment: httpHandler.NewInstallmentHandler(scheduleService, zapLogger),
	}
	if sandboxOrder != nil && cfg.Service.EnableSandbox {
		handlers.Sandbox = httpHandler.NewSandboxHandler(sandboxOrder, zapLogger)
	}

	dbPing := func(ctx context.Context) error { return database.Ping(ctx, db) }
	health := grpcHandler.NewHealthHandler(dbPing, zapLogger)

	httpSrv := httpServer.NewServer(cfg, zapLogger, handlers, dbPing)
	grpcSrv := grpcServer.NewServer(health,
		grpcServer.WithAddr(cfg.Server.GRPC.Addr()),
		grpcServer.WithLogger(zapLogger),
		grpcServer.WithReflection(!cfg.IsProduction()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health.Refresh(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	g.Go(grpcSrv.Start)
	g.Go(func() error { return health.Poll(gctx, healthPollInterval) })
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
		if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("Server stopped with error", zap.Error(err))
	}
	zapLogger.Info("Servers shut down successfully")
}

// buildEphemeralStores picks redis-backed intents and events when redis is
// enabled, and the in-process fallbacks otherwise.
func buildEphemeralStores(cfg *config.Config, log *zap.Logger) (domainRepo.OrderIntentStore, event.Publisher, func()) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled; using in-memory order intents and log event publisher")
		return cache.NewMemoryOrderIntentStore(), eventMessaging.NewLogEventPublisher(log), func() {}
	}

	client, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}

	intents := cache.NewRedisOrderIntentStore(client, cfg.Redis.KeyPrefix, log)
	publisher := eventMessaging.NewRedisEventPublisher(messaging.NewRedisClientFrom(client), cfg.Redis.EventChannel)

	return intents, publisher, func() { closeRedis(client, log) }
}

func closeRedis(client *redis.Client, log *zap.Logger) {
	if err := client.Close(); err != nil {
		log.Error("Failed to close redis client", zap.Error(err))
	}
}

