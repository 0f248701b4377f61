package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"playeasy/internal/api"
	"playeasy/internal/auth"
	"playeasy/internal/catalog"
	"playeasy/internal/config"
	"playeasy/internal/domain"
	"playeasy/internal/events"
	"playeasy/internal/logging"
	"playeasy/internal/metrics"
	"playeasy/internal/notify"
	"playeasy/internal/repository"
	"playeasy/internal/schedule"
	"playeasy/internal/store"
	"playeasy/internal/wizard"
	"playeasy/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, cat, logger, closer, loadErr := loadConfigAndCatalog()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer closer.Close()
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	persistence, drafts, closeDB, err := initStorage(cfg, redisClient, &logger)
	if err != nil {
		return err
	}
	defer closeDB()

	eventBus := events.NewEventBus()

	bookings := store.NewBookingStore(persistence, nil, eventBus, &logger)
	bookings.SetSeed(store.DemoSeed)

	// Запускаем воркер отложенного сохранения
	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
	saveWorker := worker.NewSaveWorker(bookings, persistence, retryPolicy, &logger)
	bookings.SetSaver(saveWorker)
	go saveWorker.Start(ctx)

	if cfg.Notifications.Telegram.Enabled {
		if err := subscribeTelegram(cfg.Notifications.Telegram, eventBus, &logger); err != nil {
			return err
		}
	}

	oracle := schedule.NewMockOracle()
	provider := auth.NewMockProvider(&logger)
	inbox := notify.NewInbox(&logger)
	inbox.SeedDemo()
	wizards := wizard.NewManager(cfg.Booking, oracle, cat, provider, inbox, drafts, bookings, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	apiServer := api.NewHTTPServer(cfg.API, cfg.Booking, wizards, bookings, oracle, cat, provider, inbox, cfg.Exports.Path, &logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
			stop()
		}
	}()

	logger.Info().Int("port", cfg.API.Port).Msg("Сервер запущен...")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndCatalog() (*config.Config, *catalog.Catalog, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "server-main").Logger()

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = cfg.Catalog.Path
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		logger.Error().Err(err).Msgf("Ошибка чтения %s", catalogPath)
		return nil, nil, zerolog.Logger{}, closer, err
	}

	return cfg, cat, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if cfg.Database.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
			return err
		}
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}
	return client
}

// initStorage picks the booking persistence chain and the draft repository.
// With Redis enabled, Redis is the fast primary and SQLite the durable
// fallback; otherwise SQLite is primary with an in-memory fallback.
func initStorage(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) (domain.PersistenceAdapter, domain.DraftRepository, func(), error) {
	closeDB := func() {}

	var durable domain.PersistenceAdapter
	if cfg.Database.Path != "" {
		sqlitePers, err := repository.NewSQLitePersistence(cfg.Database.Path)
		if err != nil {
			logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
			return nil, nil, closeDB, err
		}
		durable = sqlitePers
		closeDB = func() { _ = sqlitePers.CloseDB() }
	} else {
		durable = repository.NewMemoryPersistence()
	}

	draftTTL := time.Duration(cfg.Booking.DraftTTL) * time.Second

	if redisClient != nil {
		primary := repository.NewRedisPersistence(redisClient, 0)
		persistence := repository.NewFailoverPersistence(primary, durable, logger)
		drafts := repository.NewRedisDraftRepository(redisClient, draftTTL)
		return persistence, drafts, closeDB, nil
	}

	persistence := repository.NewFailoverPersistence(durable, repository.NewMemoryPersistence(), logger)
	return persistence, repository.NewMemoryDraftRepository(), closeDB, nil
}

func subscribeTelegram(cfg config.TelegramConfig, bus *events.EventBus, logger *zerolog.Logger) error {
	bot, err := notify.NewTelegramBot(cfg.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}

	notifier := notify.NewTelegramNotifier(bot, cfg.ChatID, logger)
	notifier.Subscribe(bus)
	logger.Info().Msg("Telegram notifications enabled")
	return nil
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("Metrics server error")
	}
}
