package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position tracks, per (account, asset) pair, the quantity held and the
// weighted-average cost basis. A fully sold position is retained with
// Quantity zero and AverageCost frozen at its last value.
type Position struct {
	AccountID   uuid.UUID
	AssetID     uuid.UUID
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// AddLot folds a purchase into the position. The new weighted average is
// (oldQty*oldAvg + quantity*unitPrice) / (oldQty + quantity).
func (p *Position) AddLot(quantity, unitPrice decimal.Decimal) {
	newQuantity := p.Quantity.Add(quantity)
	invested := p.Quantity.Mul(p.AverageCost).Add(quantity.Mul(unitPrice))
	p.AverageCost = invested.Div(newQuantity)
	p.Quantity = newQuantity
}

// RemoveLot takes a sale out of the position. AverageCost is invariant under
// sells.
func (p *Position) RemoveLot(quantity decimal.Decimal) error {
	if quantity.GreaterThan(p.Quantity) {
		return ErrInsufficientPosition
	}
	p.Quantity = p.Quantity.Sub(quantity)
	return nil
}

// IsOpen reports whether the position still holds any quantity.
func (p *Position) IsOpen() bool {
	return p.Quantity.IsPositive()
}

// InvestedValue returns quantity * averageCost.
func (p *Position) InvestedValue() decimal.Decimal {
	return p.Quantity.Mul(p.AverageCost)
}
