package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/app"
	"github.com/tvcampos/availability_bot/internal/config"
	"github.com/tvcampos/availability_bot/internal/controller"
	"github.com/tvcampos/availability_bot/internal/repository"
	"github.com/tvcampos/availability_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting availability bot",
		"environment", cfg.Environment,
		"token_length", len(cfg.TelegramToken))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if version, err := migrator.Version(ctx); err == nil {
		logger.Info("Database migrated", zap.Int64("version", version))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	periodRepo := repository.NewPeriodRepository(pool)
	configRepo := repository.NewConfigRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)

	userService := service.NewUserService(userRepo, cfg.AdminIDs, logger)
	periodService := service.NewPeriodService(periodRepo, logger)
	configService := service.NewConfigService(configRepo, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, configRepo, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		b,
		userService,
		periodService,
		configService,
		availabilityService,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Drops intervals of periods that already ended.
	sweeper := app.NewSweeper(availabilityRepo, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
