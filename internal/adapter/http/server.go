// Package http exposes the banking core over a fiber REST surface.
package http

import (
	"github.com/gofiber/fiber/v3"

	"github.com/anybank/anybank-backend/internal/common"
	"github.com/anybank/anybank-backend/internal/domain"
	"github.com/anybank/anybank-backend/internal/usecase/ledger"
	"github.com/anybank/anybank-backend/internal/usecase/reporting"
	"github.com/anybank/anybank-backend/internal/usecase/trading"
)

// Server holds the usecase services behind the REST routes
type Server struct {
	AccountRepo domain.AccountRepository
	Ledger      *ledger.Service
	Engine      *trading.Engine
	Reports     *reporting.Service
	Market      domain.MarketDataProvider
	Log         *common.Logger
}

// NewServer creates a new REST server instance
func NewServer(
	accountRepo domain.AccountRepository,
	ledgerService *ledger.Service,
	engine *trading.Engine,
	reports *reporting.Service,
	market domain.MarketDataProvider,
	log *common.Logger,
) *Server {
	return &Server{
		AccountRepo: accountRepo,
		Ledger:      ledgerService,
		Engine:      engine,
		Reports:     reports,
		Market:      market,
		Log:         log,
	}
}

// RegisterRoutes mounts all v1 routes on the app
func (s *Server) RegisterRoutes(app *fiber.App) {
	app.Get("/v1/assets", s.ListAssets)
	app.Get("/v1/owners/:ownerId/accounts", s.ListAccountsByOwner)

	app.Get("/v1/accounts/:id", s.GetAccount)
	app.Get("/v1/accounts/:id/balance", s.GetBalance)
	app.Get("/v1/accounts/:id/transactions", s.ListTransactions)
	app.Get("/v1/accounts/:id/positions", s.ListPositions)
	app.Get("/v1/accounts/:id/statement", s.GetStatement)
	app.Get("/v1/accounts/:id/portfolio", s.GetPortfolio)
	app.Get("/v1/accounts/:id/tax-report", s.GetTaxReport)

	app.Post("/v1/accounts/:id/deposit", s.Deposit)
	app.Post("/v1/accounts/:id/withdraw", s.Withdraw)
	app.Post("/v1/accounts/:id/transfer", s.Transfer)
	app.Post("/v1/accounts/:id/buy", s.Buy)
	app.Post("/v1/accounts/:id/sell", s.Sell)
}
