package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetKind represents the kind of tradable asset
type AssetKind string

const (
	AssetKindStock       AssetKind = "stock"
	AssetKindFixedIncome AssetKind = "fixed_income"
)

// Asset represents a tradable asset. Prices come from the market-data
// collaborator; the core never writes to an asset.
type Asset struct {
	ID            uuid.UUID
	Symbol        string
	Name          string
	Kind          AssetKind
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
	InterestRate  *decimal.Decimal // fixed income: annual rate as a fraction
	MinInvestment *decimal.Decimal // fixed income: minimum gross value per buy
	MaturityDate  *time.Time       // fixed income
}

// Validate checks if the asset fields are valid
func (a *Asset) Validate() error {
	if a.ID == uuid.Nil {
		return errors.New("asset ID is required")
	}
	if a.Symbol == "" {
		return errors.New("asset symbol is required")
	}
	if a.Name == "" {
		return errors.New("asset name is required")
	}
	if a.Kind != AssetKindStock && a.Kind != AssetKindFixedIncome {
		return errors.New("invalid asset kind")
	}
	if a.CurrentPrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("asset price must be positive")
	}
	if a.Kind == AssetKindFixedIncome && a.MinInvestment != nil && a.MinInvestment.IsNegative() {
		return errors.New("minimum investment cannot be negative")
	}
	return nil
}

var oneHundred = decimal.NewFromInt(100)

// DailyVariation returns the price change from the previous close in
// percent, or zero when no previous price is known.
func (a *Asset) DailyVariation() decimal.Decimal {
	if a.PreviousPrice.IsZero() {
		return decimal.Zero
	}
	return a.CurrentPrice.Sub(a.PreviousPrice).Div(a.PreviousPrice).Mul(oneHundred)
}
