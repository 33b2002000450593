package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/workout_tracker/internal/config"
	"github.com/Skotchmaster/workout_tracker/internal/httpserver"
	"github.com/Skotchmaster/workout_tracker/internal/migrations"
	"github.com/Skotchmaster/workout_tracker/internal/repo"
	"github.com/Skotchmaster/workout_tracker/internal/search"
	"github.com/Skotchmaster/workout_tracker/internal/service"
	"github.com/Skotchmaster/workout_tracker/pkg/db"
	"github.com/Skotchmaster/workout_tracker/pkg/hash"
	"github.com/Skotchmaster/workout_tracker/pkg/logging"
	"github.com/Skotchmaster/workout_tracker/pkg/mykafka"
	"github.com/Skotchmaster/workout_tracker/pkg/observability"
	"github.com/Skotchmaster/workout_tracker/pkg/tokens"
)

var version = "dev"

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.Environment)
	slog.SetDefault(logger)

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Environment, version); err != nil {
		logger.Warn("sentry_init_failed", "error", err)
	}
	defer observability.FlushSentry()

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = migrations.Apply(initCtx, gdb, db.DialectOf(cfg.DatabaseURL))
	}
	cancel()
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}

	engine, err := tokens.NewEngine(cfg.JWTSecret)
	if err != nil {
		logger.Error("token_engine_init_failed", "error", err)
		os.Exit(1)
	}

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		events = mykafka.NewBackground(p, mykafka.DefaultPublishBudget)
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	store := repo.New(gdb)
	workouts := &service.WorkoutService{Repo: store}
	if idx := exerciseIndex(cfg, store, logger); idx != nil {
		workouts.Search = idx
	}

	e := httpserver.New(logger)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:   store,
				Hasher: hash.New(cfg.BcryptCost),
				Tokens: engine,
			},
			Events: events,
		},
		WorkoutHandler: &httpserver.WorkoutHTTP{Svc: workouts, Events: events},
		Tokens:         engine,
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	go func() {
		logger.Info("http_server_started", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}

// exerciseIndex connects to Elasticsearch and loads the exercise catalog into
// it. Search falls back to the database when this returns nil.
func exerciseIndex(cfg config.ServiceConfig, store *repo.GormRepo, logger *slog.Logger) *search.ExerciseIndex {
	if cfg.ESURL == "" {
		logger.Info("search_index_disabled", "reason", "ES_URL not set")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := search.NewClient(ctx, search.ClientConfig{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
	})
	if err != nil {
		logger.Warn("search_index_unavailable", "error", err)
		return nil
	}

	idx := search.NewExerciseIndex(client, cfg.ESIndex)
	exercises, err := store.AllExercises(ctx)
	if err == nil {
		err = idx.IndexAll(ctx, exercises)
	}
	if err != nil {
		logger.Warn("search_index_load_failed", "error", err)
		return nil
	}

	logger.Info("search_index_ready", "index", cfg.ESIndex, "documents", len(exercises))
	return idx
}
