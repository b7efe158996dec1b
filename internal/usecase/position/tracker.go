package position

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/common"
	"github.com/anybank/anybank-backend/internal/domain"
)

// Tracker maintains quantity and weighted-average cost per (account, asset)
// pair. Mutations come only from the trading engine, which holds the
// account's lock around them; the tracker itself takes none.
type Tracker struct {
	PositionRepo domain.PositionRepository
	Log          *common.Logger
}

// NewTracker creates a new Tracker instance
func NewTracker(positionRepo domain.PositionRepository, log *common.Logger) *Tracker {
	return &Tracker{
		PositionRepo: positionRepo,
		Log:          log,
	}
}

// ApplyBuy folds a purchase into the pair's position, creating it on the
// first buy.
func (t *Tracker) ApplyBuy(ctx context.Context, accountID, assetID uuid.UUID, quantity, unitPrice decimal.Decimal) (*domain.Position, error) {
	if quantity.LessThanOrEqual(decimal.Zero) || unitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	pos, err := t.PositionRepo.Get(ctx, accountID, assetID)
	if errors.Is(err, domain.ErrPositionNotFound) {
		pos = &domain.Position{AccountID: accountID, AssetID: assetID}
	} else if err != nil {
		return nil, err
	}

	pos.AddLot(quantity, unitPrice)

	if err := t.PositionRepo.Save(ctx, pos); err != nil {
		return nil, err
	}

	t.Log.Debug().
		Str("account_id", accountID.String()).
		Str("asset_id", assetID.String()).
		Str("quantity", pos.Quantity.String()).
		Str("average_cost", pos.AverageCost.String()).
		Msg("position increased")
	return pos, nil
}

// ApplySell takes a sale out of the pair's position and returns the updated
// position together with the realized gain per unit (currentPrice minus
// average cost) for tax computation by the caller. The average cost is
// unchanged; a fully sold position is kept at quantity zero.
func (t *Tracker) ApplySell(ctx context.Context, accountID, assetID uuid.UUID, quantity, currentPrice decimal.Decimal) (*domain.Position, decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, domain.ErrInvalidAmount
	}

	pos, err := t.PositionRepo.Get(ctx, accountID, assetID)
	if errors.Is(err, domain.ErrPositionNotFound) {
		return nil, decimal.Zero, domain.ErrInsufficientPosition
	} else if err != nil {
		return nil, decimal.Zero, err
	}

	gainPerUnit := currentPrice.Sub(pos.AverageCost)

	if err := pos.RemoveLot(quantity); err != nil {
		return nil, decimal.Zero, err
	}

	if err := t.PositionRepo.Save(ctx, pos); err != nil {
		return nil, decimal.Zero, err
	}

	t.Log.Debug().
		Str("account_id", accountID.String()).
		Str("asset_id", assetID.String()).
		Str("quantity", pos.Quantity.String()).
		Msg("position decreased")
	return pos, gainPerUnit, nil
}

// Restore writes a previously captured position snapshot back. The trading
// engine uses it as the compensating update when a ledger commit fails
// after the position already moved.
func (t *Tracker) Restore(ctx context.Context, snapshot *domain.Position) error {
	return t.PositionRepo.Save(ctx, snapshot)
}

// GetPosition retrieves the position for an (account, asset) pair
func (t *Tracker) GetPosition(ctx context.Context, accountID, assetID uuid.UUID) (*domain.Position, error) {
	return t.PositionRepo.Get(ctx, accountID, assetID)
}

// ListPositions retrieves all positions held by an account
func (t *Tracker) ListPositions(ctx context.Context, accountID uuid.UUID) ([]*domain.Position, error) {
	return t.PositionRepo.ListByAccount(ctx, accountID)
}
