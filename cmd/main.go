package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hermes/internal/adapters/config"
	"hermes/internal/adapters/errors/noop"
	"hermes/internal/adapters/errors/sentry"
	redisadapter "hermes/internal/adapters/redis"
	"hermes/internal/adapters/scrapingant"
	"hermes/internal/adapters/telegram"
	"hermes/internal/adapters/tradingview"
	domaincalendar "hermes/internal/domain/calendar"
	"hermes/internal/metrics"
	redisrepo "hermes/internal/repository/redis"
	calendarservice "hermes/internal/services/calendar"
	"hermes/internal/workers"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cache is optional: without Redis the service fetches per request
	cache, redisClient := initCache(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	service := calendarservice.NewService(
		calendarservice.Config{
			TimezoneOffset: cfg.Calendar.TimezoneOffset,
			ForceFallback:  cfg.Calendar.ForceFallback,
			CacheTTL:       cfg.Calendar.CacheTTL,
		},
		initFetcher(cfg, log),
		cache,
		log,
	)

	bot := initTelegramBot(ctx, cfg, service, log)

	scheduler := workers.NewScheduler()
	if cfg.Workers.CalendarDigestEnabled && bot != nil {
		scheduler.RegisterWorker(workers.NewCalendarDigestWorker(
			service,
			bot,
			cfg.Telegram.DigestChatIDs,
			cfg.Workers.CalendarDigestInterval,
			true,
		))
	}
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Addr)
		log.Infow("Metrics server started", "addr", cfg.Metrics.Addr)
	}

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, scheduler, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initFetcher selects the upstream data path: direct, or through the
// scraping proxy when access to the provider is blocked
func initFetcher(cfg *config.Config, log *logger.Logger) domaincalendar.Fetcher {
	if cfg.Calendar.UseProxy && cfg.Calendar.ProxyAPIKey != "" {
		log.Info("Calendar fetcher: scrapingant proxy")
		return scrapingant.NewClient(cfg.Calendar.ProxyAPIKey, log)
	}
	log.Info("Calendar fetcher: direct")
	return tradingview.NewClient(log)
}

// initCache connects to Redis when configured. A connection failure is
// not fatal: the service simply runs without a cache.
func initCache(cfg *config.Config, log *logger.Logger) (domaincalendar.Cache, *redisadapter.Client) {
	if !cfg.Redis.Enabled() {
		log.Info("Redis not configured, calendar cache disabled")
		return nil, nil
	}

	client, err := redisadapter.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Failed to connect to Redis, calendar cache disabled: %v", err)
		return nil, nil
	}

	log.Infow("Redis connected", "addr", cfg.Redis.Addr())
	return redisrepo.NewCalendarCache(client.Client()), client
}

// initTelegramBot starts the bot in polling mode when a token is
// configured. Returns nil for headless operation.
func initTelegramBot(ctx context.Context, cfg *config.Config, service *calendarservice.Service, log *logger.Logger) *telegram.Bot {
	if cfg.Telegram.BotToken == "" {
		log.Info("Telegram bot token not configured, running headless")
		return nil
	}

	bot, err := telegram.NewBot(telegram.Config{
		Token: cfg.Telegram.BotToken,
		Debug: cfg.App.Debug,
	}, log)
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}

	telegram.NewCalendarHandler(bot, service, log).Register()

	go func() {
		if err := bot.Start(ctx); err != nil {
			log.Errorf("Telegram bot stopped with error: %v", err)
		}
	}()

	return bot
}

// waitForShutdown waits for a shutdown signal and performs graceful shutdown
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, scheduler *workers.Scheduler, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	if scheduler.IsRunning() {
		if err := scheduler.Stop(); err != nil {
			log.Warnf("Scheduler shutdown: %v", err)
		}
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(context.Background()); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
