package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	httpadapter "github.com/anybank/anybank-backend/internal/adapter/http"
	"github.com/anybank/anybank-backend/internal/adapter/repository/memory"
	"github.com/anybank/anybank-backend/internal/adapter/repository/postgres"
	"github.com/anybank/anybank-backend/internal/common"
	"github.com/anybank/anybank-backend/internal/domain"
	"github.com/anybank/anybank-backend/internal/usecase/accountlock"
	"github.com/anybank/anybank-backend/internal/usecase/ledger"
	"github.com/anybank/anybank-backend/internal/usecase/position"
	"github.com/anybank/anybank-backend/internal/usecase/reporting"
	"github.com/anybank/anybank-backend/internal/usecase/seeder"
	"github.com/anybank/anybank-backend/internal/usecase/trading"
)

const defaultAPIToken = "dev-token"

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// repositories bundles the persistence surface behind one storage choice
type repositories struct {
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	positions    domain.PositionRepository
	assets       domain.AssetRepository
}

func openMemory() repositories {
	store := memory.NewStore()
	return repositories{
		accounts:     memory.NewAccountRepository(store),
		transactions: memory.NewTransactionRepository(store),
		positions:    memory.NewPositionRepository(store),
		assets:       memory.NewAssetRepository(store),
	}
}

func openPostgres(log *common.Logger) (repositories, func() error) {
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "anybank"),
		)
	}

	// Simple wait so Postgres in docker compose is up before the first ping
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	return repositories{
		accounts:     postgres.NewAccountRepository(db),
		transactions: postgres.NewTransactionRepository(db),
		positions:    postgres.NewPositionRepository(db),
		assets:       postgres.NewAssetRepository(db),
	}, db.Close
}

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	log := common.NewLogger(envOr("LOG_LEVEL", "info"))

	// 1. Storage
	storage := envOr("STORAGE", "postgres")
	var repos repositories
	switch storage {
	case "memory":
		repos = openMemory()
	case "postgres":
		var closeDB func() error
		repos, closeDB = openPostgres(log)
		defer closeDB()
	default:
		log.Fatal().Str("storage", storage).Msg("unknown STORAGE value")
	}
	log.Info().Str("storage", storage).Msg("storage initialized")

	// 2. Services
	locks := accountlock.NewRegistry()
	ledgerService := ledger.NewService(repos.accounts, repos.transactions, locks, log)
	tracker := position.NewTracker(repos.positions, log)
	engine := trading.NewEngine(repos.accounts, ledgerService, tracker, repos.assets, locks, log)
	reports := reporting.NewService(repos.accounts, repos.transactions, repos.positions, repos.assets)

	// 3. Seed the asset catalogue, plus demo accounts in memory mode
	ctx := context.Background()
	catalog := seeder.NewCatalogSeeder(repos.assets, repos.accounts)
	if err := catalog.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed asset catalogue")
	}
	if storage == "memory" {
		if err := catalog.SeedDemoAccounts(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo accounts")
		}
	}
	log.Info().Msg("asset catalogue seeded")

	// 4. REST server
	app := fiber.New()
	app.Use(httpadapter.BearerAuth(envOr("API_TOKEN", defaultAPIToken)))

	server := httpadapter.NewServer(repos.accounts, ledgerService, engine, reports, repos.assets, log)
	server.RegisterRoutes(app)

	addr := ":" + envOr("PORT", "8080")
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(app, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(app *fiber.App, log *common.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("http server stopped")
}
