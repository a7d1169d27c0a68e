package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	api "timebeing-backend/cmd/api"
	authdomain "timebeing-backend/internal/auth/domain"
	"timebeing-backend/internal/auth/provider"
	authUsecase "timebeing-backend/internal/auth/usecase"
	habitRepo "timebeing-backend/internal/habit/repository"
	habitUsecase "timebeing-backend/internal/habit/usecase"
	"timebeing-backend/internal/notification/dispatcher"
	notifRepo "timebeing-backend/internal/notification/repository"
	"timebeing-backend/internal/notification/scheduler"
	projectRepo "timebeing-backend/internal/project/repository"
	projectUsecase "timebeing-backend/internal/project/usecase"
	taskRepo "timebeing-backend/internal/task/repository"
	taskUsecase "timebeing-backend/internal/task/usecase"
	"timebeing-backend/pkg/civiltime"
	"timebeing-backend/pkg/config"
	"timebeing-backend/pkg/database"
	"timebeing-backend/pkg/logger"
	"timebeing-backend/pkg/queue"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, level, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, level); err != nil {
		log.Fatal("Server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, level zap.AtomicLevel) error {
	clock, err := civiltime.Load(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Initialize repositories; each migrates its own table
	tasks, err := taskRepo.NewGormTaskRepository(db)
	if err != nil {
		return fmt.Errorf("migrate tasks: %w", err)
	}
	projects, err := projectRepo.NewGormProjectRepository(db)
	if err != nil {
		return fmt.Errorf("migrate projects: %w", err)
	}
	habits, err := habitRepo.NewGormHabitRepository(db)
	if err != nil {
		return fmt.Errorf("migrate habits: %w", err)
	}
	store, err := notifRepo.NewGormScheduleStore(db)
	if err != nil {
		return fmt.Errorf("migrate scheduled jobs: %w", err)
	}

	identity, err := newIdentityProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("identity provider: %w", err)
	}
	auth := authUsecase.NewAuthUsecase(identity, log.Named("auth"))

	publisher, err := queue.New(ctx, queue.Config{
		Driver:            cfg.QueueDriver,
		Name:              cfg.QueueName,
		GoogleProjectID:   cfg.GoogleProjectID,
		GoogleCredentials: cfg.GoogleCredentials,
		NATSURL:           cfg.NATSURL,
		RabbitMQURL:       cfg.RabbitMQURL,
		RedisAddr:         cfg.RedisAddr,
	}, log.Named("queue"))
	if err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("Failed to close publisher", zap.Error(err))
		}
	}()

	// Reminder scheduler: fires durable jobs, resolves the contact and publishes
	reminders := scheduler.New(
		store,
		dispatcher.New(auth, publisher, log.Named("dispatcher")),
		tasks,
		scheduler.Config{
			ReconcileSpec: cfg.ReconcileSpec,
			PruneSpec:     cfg.PruneSpec,
			Retention:     cfg.Retention,
			Location:      clock.Location(),
		},
		log.Named("task-scheduler"),
	)
	if err := reminders.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		reminders.Stop(stopCtx)
	}()

	// Initialize use cases (dependency injection)
	taskUc := taskUsecase.NewTaskUsecase(tasks, projects, reminders, clock, log.Named("tasks"))
	projectUc := projectUsecase.NewProjectUsecase(projects, taskUc, log.Named("projects"))
	habitUc := habitUsecase.NewHabitUsecase(habits, log.Named("habits"))

	handler := api.NewHandler(auth, taskUc, projectUc, habitUc, reminders, level, log.Named("http"))
	return handler.Start(ctx, ":"+cfg.Port)
}

func newIdentityProvider(ctx context.Context, cfg *config.Config) (authdomain.IdentityProvider, error) {
	switch cfg.IdentityProvider {
	case "", "clerk":
		clerk, err := provider.NewClerk(provider.ClerkConfig{
			SecretKey:         cfg.ClerkSecretKey,
			JWTKey:            cfg.ClerkJWTKey,
			HMACSecret:        cfg.JWTSecret,
			APIURL:            cfg.ClerkAPIURL,
			AuthorizedParties: cfg.AuthorizedParties,
		})
		if err != nil {
			return nil, err
		}
		return clerk, nil
	case "firebase":
		fb, err := provider.NewFirebase(ctx, cfg.FirebaseCredentials, cfg.GoogleProjectID)
		if err != nil {
			return nil, err
		}
		return fb, nil
	default:
		return nil, fmt.Errorf("unsupported IDENTITY_PROVIDER %q", cfg.IdentityProvider)
	}
}
