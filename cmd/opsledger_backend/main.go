package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/opsledger/ops_ledger_app/internal/adapters/store/ledgerkv"
	memstore "github.com/opsledger/ops_ledger_app/internal/adapters/store/memory"
	pgstore "github.com/opsledger/ops_ledger_app/internal/adapters/store/pg"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/core/services"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/handlers"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
	"github.com/opsledger/ops_ledger_app/internal/platform/config"
	"github.com/opsledger/ops_ledger_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	remoteStore, cleanup, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	repos := portsrepo.RepositoryProvider{
		SalesRepo:      ledgerkv.NewSalesStore(remoteStore),
		InventoryRepo:  ledgerkv.NewInventoryStore(remoteStore),
		CompetitorRepo: ledgerkv.NewCompetitorStore(remoteStore),
		LeaveRepo:      ledgerkv.NewLeaveStore(remoteStore),
		CatalogRepo:    ledgerkv.NewCatalogStore(remoteStore),
		SettingsRepo:   ledgerkv.NewSettingsStore(remoteStore),
		UserRepo:       ledgerkv.NewUserStore(remoteStore),
	}
	serviceContainer := services.NewServiceContainer(repos, nil)

	// Seed the admin account so a fresh store is reachable.
	if err := serviceContainer.User.EnsureSeedAdmin(context.Background(),
		cfg.SeedAdminUsername, cfg.SeedAdminPassword, cfg.SeedAdminName); err != nil {
		logger.Error("Failed to seed admin account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS for the terminals)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dto.RegisterValidations()

	handlers.RegisterRoutes(r, cfg, serviceContainer, remoteStore)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store_driver", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildStore selects the synchronized store backend from config. The
// returned cleanup releases whatever the backend holds open.
func buildStore(cfg *config.Config, logger *slog.Logger) (store.RemoteStore, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection pool established.")
		s := pgstore.New(pool, logger)
		return s, func() {
			s.Close()
			database.ClosePgxPool(pool)
		}, nil
	default:
		logger.Info("Using in-memory store; data does not survive restarts.")
		return memstore.NewStore(), func() {}, nil
	}
}

// runMigrations applies pending schema migrations over a short-lived
// database/sql connection, compatible with the pgx pool used at runtime.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		if sourceErr != nil {
			return sourceErr
		}
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
