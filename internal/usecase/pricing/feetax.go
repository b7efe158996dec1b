// Package pricing computes brokerage fees and capital-gains tax for trades.
// It is a pure numeric transform with no knowledge of accounts or positions.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/domain"
)

var (
	stockFeeRate       = decimal.RequireFromString("0.01")
	stockTaxRate       = decimal.RequireFromString("0.15")
	fixedIncomeTaxRate = decimal.RequireFromString("0.22")
)

// BuyQuote is the cost breakdown of a prospective or settled purchase.
type BuyQuote struct {
	GrossValue decimal.Decimal
	Fee        decimal.Decimal
	TotalCost  decimal.Decimal
}

// SellQuote is the proceeds breakdown of a prospective or settled sale.
type SellQuote struct {
	GrossValue decimal.Decimal
	Fee        decimal.Decimal
	Tax        decimal.Decimal
	NetValue   decimal.Decimal
}

// BrokerageFee returns 1% of the gross value for stocks and zero for fixed
// income.
func BrokerageFee(kind domain.AssetKind, grossValue decimal.Decimal) decimal.Decimal {
	if kind == domain.AssetKindStock {
		return grossValue.Mul(stockFeeRate)
	}
	return decimal.Zero
}

// CapitalGainsTax returns the tax withheld on a realized gain: 15% for
// stocks, 22% for fixed income, and zero when there is no gain.
func CapitalGainsTax(kind domain.AssetKind, gainAmount decimal.Decimal) decimal.Decimal {
	if gainAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if kind == domain.AssetKindFixedIncome {
		return gainAmount.Mul(fixedIncomeTaxRate)
	}
	return gainAmount.Mul(stockTaxRate)
}

// QuoteBuy computes the total cost of a purchase: gross value plus fee.
func QuoteBuy(kind domain.AssetKind, grossValue decimal.Decimal) BuyQuote {
	fee := BrokerageFee(kind, grossValue)
	return BuyQuote{
		GrossValue: grossValue,
		Fee:        fee,
		TotalCost:  grossValue.Add(fee),
	}
}

// QuoteSell computes the net proceeds of a sale: gross value minus fee and
// tax on the realized gain.
func QuoteSell(kind domain.AssetKind, grossValue, gainAmount decimal.Decimal) SellQuote {
	fee := BrokerageFee(kind, grossValue)
	tax := CapitalGainsTax(kind, gainAmount)
	return SellQuote{
		GrossValue: grossValue,
		Fee:        fee,
		Tax:        tax,
		NetValue:   grossValue.Sub(fee).Sub(tax),
	}
}
