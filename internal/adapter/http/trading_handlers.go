package http

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/domain"
)

type tradeFunc func(ctx context.Context, accountID, assetID uuid.UUID, quantity decimal.Decimal) (*domain.Transaction, error)

// ListAssets handles GET /v1/assets
func (s *Server) ListAssets(c fiber.Ctx) error {
	assets, err := s.Market.ListAssets(context.Background())
	if err != nil {
		return mapError(c, err)
	}

	schemas := make([]AssetSchema, 0, len(assets))
	for _, asset := range assets {
		schemas = append(schemas, assetToSchema(asset))
	}
	return c.JSON(schemas)
}

// ListPositions handles GET /v1/accounts/:id/positions
func (s *Server) ListPositions(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	positions, err := s.Engine.Positions.ListPositions(context.Background(), id)
	if err != nil {
		return mapError(c, err)
	}

	schemas := make([]PositionSchema, 0, len(positions))
	for _, position := range positions {
		schemas = append(schemas, positionToSchema(position))
	}
	return c.JSON(schemas)
}

// Buy handles POST /v1/accounts/:id/buy
func (s *Server) Buy(c fiber.Ctx) error {
	return s.trade(c, s.Engine.Buy)
}

// Sell handles POST /v1/accounts/:id/sell
func (s *Server) Sell(c fiber.Ctx) error {
	return s.trade(c, s.Engine.Sell)
}

func (s *Server) trade(c fiber.Ctx, settle tradeFunc) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	var body TradeSchema
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return unprocessable(c, err)
	}

	quantity, err := decimal.NewFromString(body.Quantity)
	if err != nil {
		return badRequest(c, "invalid quantity format")
	}

	ctx := context.Background()
	asset, err := s.Market.GetBySymbol(ctx, body.AssetSymbol)
	if err != nil {
		return mapError(c, err)
	}

	tx, err := settle(ctx, id, asset.ID, quantity)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transactionToSchema(tx))
}
