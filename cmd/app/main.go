// File: cmd/app/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"restaurant-order-bot/internal/application"
	"restaurant-order-bot/internal/config"
	"restaurant-order-bot/internal/dialogue"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
	aiAdapters "restaurant-order-bot/internal/infra/adapters/ai"
	"restaurant-order-bot/internal/infra/adapters/geo"
	ordAdapters "restaurant-order-bot/internal/infra/adapters/orders"
	tele "restaurant-order-bot/internal/infra/adapters/telegram"
	pg "restaurant-order-bot/internal/infra/db/postgres"
	httpapi "restaurant-order-bot/internal/infra/http"
	"restaurant-order-bot/internal/infra/logging"
	"restaurant-order-bot/internal/infra/metrics"
	red "restaurant-order-bot/internal/infra/redis"
	"restaurant-order-bot/internal/infra/worker"
	"restaurant-order-bot/internal/intent"
	"restaurant-order-bot/internal/lexicon"
	"restaurant-order-bot/internal/search"
	"restaurant-order-bot/internal/translate"
	"restaurant-order-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool := pg.MustConnect(cfg.Database.URL)
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	stateCache := red.NewStateCache(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	customerRepo := pg.NewPostgresCustomerRepo(pool)
	catalogRepo := pg.NewPostgresCatalogRepo(pool)

	// ---- Language core ----
	lex := lexicon.MustLoad()
	cls := intent.NewClassifier(lex)

	// ---- AI Adapter (OpenAI primary, Gemini fallback) ----
	var providers []adapter.AITranslator
	if cfg.AI.OpenAIKey != "" {
		oa, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		providers = append(providers, oa)
		logger.Info().Str("model", cfg.AI.OpenAIModel).Msg("AI provider: OpenAI")
	}
	if cfg.AI.GeminiKey != "" {
		gm, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.GeminiModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		providers = append(providers, gm)
		logger.Info().Str("model", cfg.AI.GeminiModel).Msg("AI provider: Gemini")
	}
	var ai adapter.AITranslator
	switch len(providers) {
	case 0:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("no AI provider configured; translation relies on static fallbacks")
	case 1:
		ai = providers[0]
	default:
		ai = aiAdapters.NewMultiAIAdapter(providers...)
	}

	pipeline := translate.NewPipeline(ai, lex, logger)
	engine := search.NewEngine(pipeline, cls, lex, logger)

	// ---- Collaborators ----
	geocoder := geo.NewNominatimGeocoder(cfg.Geo.BaseURL, cfg.Geo.UserAgent, logger)
	var orderSvc adapter.OrderService
	if cfg.Runtime.Dev {
		// Dev orders stay in process memory and vanish on restart.
		orderSvc = ordAdapters.NewMemoryOrderService(catalogRepo)
		logger.Warn().Msg("dev mode: orders kept in memory")
	} else {
		orderSvc = ordAdapters.NewPostgresOrderService(pool, catalogRepo, cfg.Restaurant.UPIID, cfg.Restaurant.PayeeName)
	}

	// ---- Use cases ----
	customerUC := usecase.NewCustomerUseCase(customerRepo, stateCache)
	cartUC := usecase.NewCartUseCase(customerRepo)
	checkoutUC := usecase.NewCheckoutUseCase(customerRepo, orderSvc)

	// ---- Dialogue ----
	controller := dialogue.NewController(
		dialogue.Config{
			RestaurantName: cfg.Restaurant.Name,
			Currency:       cfg.Restaurant.Currency,
			ServiceType:    model.ServiceType(cfg.Restaurant.ServiceType),
		},
		customerUC, cartUC, checkoutUC, catalogRepo, engine, cls, geocoder, orderSvc, logger,
	)

	// ---- Workers ----
	pool2 := worker.NewPool(cfg.Bot.Workers, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	// ---- Gateway + turn processor ----
	var messenger adapter.Messenger
	var gateway *tele.RealTelegramGateway
	if cfg.Bot.Token != "" {
		gateway, err = tele.NewRealTelegramGateway(&cfg.Bot, pool2, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
		messenger = gateway
	} else {
		messenger = tele.NewNoopGateway(logger)
		logger.Warn().Msg("no bot token; outbound messages are logged, not delivered")
	}
	processor := application.NewTurnProcessor(controller, customerUC, messenger, locker, logger)

	if gateway != nil {
		gateway.SetProcessor(processor)
		if strings.ToLower(cfg.Bot.Mode) != "polling" {
			logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
		}
		go func() {
			if err := gateway.StartPolling(ctx); err != nil && err != context.Canceled {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- HTTP (health, metrics, generic webhook) ----
	srv := httpapi.NewServer(cfg, processor, pool2, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	if gateway != nil {
		gateway.StopPolling()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
}
