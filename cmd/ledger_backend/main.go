package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/corebank/ledger_engine/internal/adapters/database/memory"
	"github.com/corebank/ledger_engine/internal/adapters/database/pgsql"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/core/services"
	"github.com/corebank/ledger_engine/internal/handlers"
	"github.com/corebank/ledger_engine/internal/middleware"
	"github.com/corebank/ledger_engine/internal/utils/identifier"
	"github.com/corebank/ledger_engine/pkg/config"
	"github.com/corebank/ledger_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/corebank/ledger_engine/internal/adapters/xmlaudit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	accountRepo, txnRepo, userRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	auditMirror := xmlaudit.NewMirror(cfg.AuditXMLPath)
	idGen := identifier.New()

	svcContainer := &portssvc.ServiceContainer{
		Account:    services.NewAccountService(accountRepo, userRepo, idGen),
		Transfer:   services.NewTransferService(accountRepo, txnRepo, auditMirror, idGen),
		Query:      services.NewQueryService(accountRepo, txnRepo, auditMirror),
		Onboarding: services.NewOnboardingService(userRepo, accountRepo, idGen),
	}

	if cfg.SeedDefaultAccounts {
		if err := svcContainer.Onboarding.SeedDefaultAccounts(ctx); err != nil {
			logger.Error("Failed to seed default accounts", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(rateLimitMiddleware(cfg, logger))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, svcContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories selects the storage backend. With PGSQL_URL set the
// repositories run on PostgreSQL after applying migrations; without it the
// process falls back to the in-memory store, which is suitable for local
// development only.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.AccountRepository, portsrepo.TransactionRepository, portsrepo.UserRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("Using in-memory store")
		store := memory.NewStore()
		return store, store, store, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		dbPool.Close()
		return nil, nil, nil, nil, err
	}

	accountRepo := pgsql.NewAccountRepository(dbPool)
	txnRepo := pgsql.NewTransactionRepository(dbPool, accountRepo)
	userRepo := pgsql.NewUserRepository(dbPool)
	cleanup := func() { database.ClosePgxPool(dbPool) }
	return accountRepo, txnRepo, userRepo, cleanup, nil
}

// runMigrations applies all pending "up" migrations using a standard sql.DB
// connection via the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}

func rateLimitMiddleware(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT value, defaulting to 100-M", slog.String("value", cfg.RateLimit))
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	return middleware.RateLimit(limiter.New(limitermem.NewStore(), rate))
}
