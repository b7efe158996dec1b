package trading

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/common"
	"github.com/anybank/anybank-backend/internal/domain"
	"github.com/anybank/anybank-backend/internal/usecase/accountlock"
	"github.com/anybank/anybank-backend/internal/usecase/ledger"
	"github.com/anybank/anybank-backend/internal/usecase/position"
	"github.com/anybank/anybank-backend/internal/usecase/pricing"
)

// Engine orchestrates asset buys and sells against an investment account.
// Settlement order is validate, compute amounts, mutate position, mutate
// ledger; when the ledger commit fails after the position moved, the
// position snapshot is restored as a compensating update.
type Engine struct {
	AccountRepo domain.AccountRepository
	Ledger      *ledger.Service
	Positions   *position.Tracker
	Market      domain.MarketDataProvider
	Locks       *accountlock.Registry
	Log         *common.Logger
}

// NewEngine creates a new trading Engine instance
func NewEngine(
	accountRepo domain.AccountRepository,
	ledgerService *ledger.Service,
	tracker *position.Tracker,
	market domain.MarketDataProvider,
	locks *accountlock.Registry,
	log *common.Logger,
) *Engine {
	return &Engine{
		AccountRepo: accountRepo,
		Ledger:      ledgerService,
		Positions:   tracker,
		Market:      market,
		Locks:       locks,
		Log:         log,
	}
}

// Buy settles a purchase of quantity units of an asset at the current
// market price, debiting gross value plus brokerage fee from the account
// and folding the lot into the position.
func (e *Engine) Buy(ctx context.Context, accountID, assetID uuid.UUID, quantity decimal.Decimal) (*domain.Transaction, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	asset, err := e.Market.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	grossValue := quantity.Mul(asset.CurrentPrice)
	quote := pricing.QuoteBuy(asset.Kind, grossValue)

	if asset.Kind == domain.AssetKindFixedIncome &&
		asset.MinInvestment != nil &&
		grossValue.LessThan(*asset.MinInvestment) {
		return nil, domain.ErrBelowMinimumInvestment
	}

	unlock := e.Locks.Lock(accountID)
	defer unlock()

	account, err := e.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Kind != domain.AccountKindInvestment {
		return nil, domain.ErrInvalidAccount
	}
	if !account.CanDebit(quote.TotalCost) {
		return nil, domain.ErrInsufficientFunds
	}

	snapshot, err := e.positionSnapshot(ctx, accountID, assetID)
	if err != nil {
		return nil, err
	}

	if _, err := e.Positions.ApplyBuy(ctx, accountID, assetID, quantity, asset.CurrentPrice); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      domain.KindBuy,
		Entry:     domain.EntryDebit,
		Amount:    quote.TotalCost,
		Trade: &domain.TradeDetails{
			AssetID:    asset.ID,
			AssetKind:  asset.Kind,
			Quantity:   quantity,
			UnitPrice:  asset.CurrentPrice,
			GrossValue: quote.GrossValue,
			Fee:        quote.Fee,
		},
		Date:        time.Now(),
		Description: "Buy " + asset.Symbol,
	}

	if err := e.Ledger.Settle(ctx, account, quote.TotalCost.Neg(), tx); err != nil {
		if restoreErr := e.Positions.Restore(ctx, snapshot); restoreErr != nil {
			e.Log.Error().
				Err(restoreErr).
				Str("account_id", accountID.String()).
				Str("asset_id", assetID.String()).
				Msg("position rollback failed after ledger error")
		}
		return nil, err
	}

	e.Log.Info().
		Str("account_id", accountID.String()).
		Str("asset", asset.Symbol).
		Str("quantity", quantity.String()).
		Str("total_cost", quote.TotalCost.String()).
		Msg("buy order settled")
	return tx, nil
}

// Sell settles a sale of quantity units of an asset at the current market
// price, crediting the net proceeds (gross minus fee minus tax on the
// realized gain) and reducing the position.
func (e *Engine) Sell(ctx context.Context, accountID, assetID uuid.UUID, quantity decimal.Decimal) (*domain.Transaction, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	asset, err := e.Market.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	unlock := e.Locks.Lock(accountID)
	defer unlock()

	account, err := e.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Kind != domain.AccountKindInvestment {
		return nil, domain.ErrInvalidAccount
	}

	pos, err := e.Positions.GetPosition(ctx, accountID, assetID)
	if errors.Is(err, domain.ErrPositionNotFound) {
		return nil, domain.ErrInsufficientPosition
	} else if err != nil {
		return nil, err
	}
	if quantity.GreaterThan(pos.Quantity) {
		return nil, domain.ErrInsufficientPosition
	}

	grossValue := quantity.Mul(asset.CurrentPrice)
	gainAmount := asset.CurrentPrice.Sub(pos.AverageCost).Mul(quantity)
	quote := pricing.QuoteSell(asset.Kind, grossValue, gainAmount)

	snapshot := *pos

	if _, _, err := e.Positions.ApplySell(ctx, accountID, assetID, quantity, asset.CurrentPrice); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      domain.KindSell,
		Entry:     domain.EntryCredit,
		Amount:    quote.NetValue,
		Trade: &domain.TradeDetails{
			AssetID:      asset.ID,
			AssetKind:    asset.Kind,
			Quantity:     quantity,
			UnitPrice:    asset.CurrentPrice,
			GrossValue:   quote.GrossValue,
			Fee:          quote.Fee,
			Tax:          quote.Tax,
			RealizedGain: gainAmount,
		},
		Date:        time.Now(),
		Description: "Sell " + asset.Symbol,
	}

	if err := e.Ledger.Settle(ctx, account, quote.NetValue, tx); err != nil {
		if restoreErr := e.Positions.Restore(ctx, &snapshot); restoreErr != nil {
			e.Log.Error().
				Err(restoreErr).
				Str("account_id", accountID.String()).
				Str("asset_id", assetID.String()).
				Msg("position rollback failed after ledger error")
		}
		return nil, err
	}

	e.Log.Info().
		Str("account_id", accountID.String()).
		Str("asset", asset.Symbol).
		Str("quantity", quantity.String()).
		Str("net_value", quote.NetValue.String()).
		Msg("sell order settled")
	return tx, nil
}

// positionSnapshot captures the pair's position before a buy so the engine
// can rewind it. An absent position snapshots as an empty one, matching the
// closed-positions-are-retained storage choice.
func (e *Engine) positionSnapshot(ctx context.Context, accountID, assetID uuid.UUID) (*domain.Position, error) {
	pos, err := e.Positions.GetPosition(ctx, accountID, assetID)
	if errors.Is(err, domain.ErrPositionNotFound) {
		return &domain.Position{AccountID: accountID, AssetID: assetID}, nil
	} else if err != nil {
		return nil, err
	}
	return pos, nil
}
