package http

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/domain"
)

func parseAccountID(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}

// parseDate accepts RFC 3339 timestamps and plain dates
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

func getPagination(c fiber.Ctx) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	size, _ = strconv.Atoi(c.Query("size", "50"))
	if size < 1 {
		size = 1
	} else if size > 100 {
		size = 100
	}
	return page, size
}

// GetAccount handles GET /v1/accounts/:id
func (s *Server) GetAccount(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	account, err := s.AccountRepo.GetByID(context.Background(), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(accountToSchema(account))
}

// ListAccountsByOwner handles GET /v1/owners/:ownerId/accounts
func (s *Server) ListAccountsByOwner(c fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("ownerId"))
	if err != nil {
		return badRequest(c, "invalid owner id")
	}

	accounts, err := s.AccountRepo.ListByOwner(context.Background(), ownerID)
	if err != nil {
		return mapError(c, err)
	}

	schemas := make([]AccountSchema, 0, len(accounts))
	for _, account := range accounts {
		schemas = append(schemas, accountToSchema(account))
	}
	return c.JSON(schemas)
}

// GetBalance handles GET /v1/accounts/:id/balance
func (s *Server) GetBalance(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	balance, err := s.Ledger.GetBalance(context.Background(), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(BalanceSchema{
		AccountID: id.String(),
		Balance:   balance.String(),
	})
}

// Deposit handles POST /v1/accounts/:id/deposit
func (s *Server) Deposit(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	var body MoneyMovementSchema
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return unprocessable(c, err)
	}

	amount, err := parseAmount(body.Amount)
	if err != nil {
		return badRequest(c, "invalid amount format")
	}

	tx, err := s.Ledger.Deposit(context.Background(), id, amount, body.Description)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transactionToSchema(tx))
}

// Withdraw handles POST /v1/accounts/:id/withdraw
func (s *Server) Withdraw(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	var body MoneyMovementSchema
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return unprocessable(c, err)
	}

	amount, err := parseAmount(body.Amount)
	if err != nil {
		return badRequest(c, "invalid amount format")
	}

	tx, err := s.Ledger.Withdraw(context.Background(), id, amount, body.Description)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transactionToSchema(tx))
}

// Transfer handles POST /v1/accounts/:id/transfer
func (s *Server) Transfer(c fiber.Ctx) error {
	fromID, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	var body TransferSchema
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return unprocessable(c, err)
	}

	toID, err := uuid.Parse(body.ToAccountID)
	if err != nil {
		return badRequest(c, "invalid to_account_id format")
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return badRequest(c, "invalid amount format")
	}

	legs, err := s.Ledger.Transfer(context.Background(), fromID, toID, amount, body.Description)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transactionsToSchema(legs))
}

// ListTransactions handles GET /v1/accounts/:id/transactions
func (s *Server) ListTransactions(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	page, size := getPagination(c)
	filter := domain.TransactionFilter{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if raw := c.Query("kind"); raw != "" {
		for _, kind := range strings.Split(raw, ",") {
			filter.Kinds = append(filter.Kinds, domain.TransactionKind(strings.TrimSpace(kind)))
		}
	}
	if raw := c.Query("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "invalid from date")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "invalid to date")
		}
		filter.To = &to
	}

	ctx := context.Background()
	txs, err := s.Ledger.GetTransactions(ctx, id, filter)
	if err != nil {
		return mapError(c, err)
	}
	total, err := s.Ledger.CountTransactions(ctx, id)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(Pagination[TransactionSchema]{
		Page:  page,
		Size:  size,
		Total: total,
		Items: transactionsToSchema(txs),
	})
}
