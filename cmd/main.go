package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"berrymarket/internal/app/marketplace/config"
	"berrymarket/internal/app/marketplace/handler"
	"berrymarket/internal/app/marketplace/repository"
	"berrymarket/internal/app/marketplace/service"
	"berrymarket/internal/app/marketplace/util"
	"berrymarket/internal/app/marketplace/worker"
	"berrymarket/pkg/logger"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === ИНИЦИАЛИЗАЦИЯ ЛОГГЕРА ===
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("marketplace", logLevel)
	if logstashAddr := os.Getenv("LOGSTASH_ADDR"); logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "marketplace", logLevel); err != nil {
			logger.Warn().Err(err).Msg("failed to connect to Logstash, using stdout only")
		}
	}

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL (pgx pool) ===
	// pgx pool используется репозиторием категорий
	pool, err := connectPool(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pool.Close()
	logger.Info().Msg("connected to PostgreSQL (pgx pool)")

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL (GORM) ===
	// GORM используется репозиториями товаров, отзывов и пользователей
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open GORM connection")
	}
	logger.Info().Msg("connected to PostgreSQL (GORM)")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis кеширует список активных категорий
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	// События REVIEW_CREATED/REVIEW_DELETED уходят в топик review_events
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("initialized Kafka producer")

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	jwtManager := util.NewJWTManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenMinutes)*time.Minute,
	)

	categoryService := service.NewCategoryService(categoryRepo, redisClient)
	productService := service.NewProductService(productRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo, kafkaProducer)
	authService := service.NewAuthService(userRepo, jwtManager)

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := handler.NewAuthMiddleware(jwtManager)

	router := handler.SetupRoutes(
		categoryHandler,
		productHandler,
		reviewHandler,
		authHandler,
		authMiddleware,
	)

	// === ФОНОВЫЙ ПЕРЕСЧЁТ РЕЙТИНГОВ ===
	reconciler := worker.NewRatingReconciler(productRepo)
	if err := reconciler.Start(context.Background(), cfg.Worker.ReconcileSchedule); err != nil {
		logger.Fatal().Err(err).Msg("failed to start rating reconciler")
	}
	defer reconciler.Stop()

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	// Production-ready настройки с таймаутами
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	// Запускаем сервер в отдельной горутине для graceful shutdown
	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("starting Marketplace Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down Marketplace Service")

	// Даем серверу 30 секунд на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("Marketplace Service stopped gracefully")
}

// connectPool устанавливает соединение с PostgreSQL через pgx connection pool.
// Retry logic с 10 попытками для устойчивости при запуске в Docker.
func connectPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// PostgreSQL в Docker может подниматься дольше сервиса
	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
	}

	return pool, nil
}
