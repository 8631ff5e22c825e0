// Package main is the entry point for the horarios CLI, a local-first
// client for the UTEQ class schedule backend.
//
// Wiring follows Clean Architecture layering:
// - Domain: slot codec, grid builder, session model
// - Application: auth/sync orchestrator, schedule views
// - Infrastructure: persistence backends, backend HTTP client
// - Interface: cobra commands and terminal rendering
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/uteq-hub/uteq-schedule-hub/config"
	"github.com/uteq-hub/uteq-schedule-hub/internal/application"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/external/uteq"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence/inmem"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence/postgres"
	redisstore "github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence/redis"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence/sqlite"
	"github.com/uteq-hub/uteq-schedule-hub/internal/interface/cli"
	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		level = logger.LevelDebug
	}
	log := logger.New(os.Stderr, level).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage (%s): %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close storage", logger.Err(err))
		}
	}()

	clientCfg := uteq.DefaultConfig(cfg.Backend.BaseURL)
	clientCfg.Timeout = cfg.Backend.RequestTimeout
	clientCfg.Logger = log
	client := uteq.NewClient(clientCfg, store)

	codec := schedule.NewCodec(cfg.Schedule.Days, cfg.Schedule.Hours)
	builder := schedule.NewBuilder(codec, log)

	app := &cli.App{
		Orchestrator: application.NewOrchestrator(client, store, store, log),
		Views:        application.NewViews(store, builder),
		Sessions:     store,
		Codec:        codec,
		Log:          log,
		Version:      cfg.App.Version,
	}

	root := cli.NewRootCommand(app, os.Stdin, os.Stdout)
	return root.ExecuteContext(ctx)
}

// openStore builds the persistence backend selected by STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (persistence.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return inmem.NewStore(), nil

	case config.DriverSQLite:
		return sqlite.Open(cfg.Storage.SQLitePath)

	case config.DriverRedis:
		rc := redisstore.DefaultConfig()
		rc.Host = cfg.Storage.RedisHost
		rc.Port = cfg.Storage.RedisPort
		rc.Password = cfg.Storage.RedisPassword
		rc.DB = cfg.Storage.RedisDB
		return redisstore.NewStore(rc)

	case config.DriverPostgres:
		pc := postgres.DefaultConfig()
		pc.Host = cfg.Storage.PostgresHost
		pc.Port = cfg.Storage.PostgresPort
		pc.Database = cfg.Storage.PostgresDatabase
		pc.User = cfg.Storage.PostgresUser
		pc.Password = cfg.Storage.PostgresPassword
		pc.SSLMode = cfg.Storage.PostgresSSLMode
		return postgres.NewStore(ctx, pc)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
