// Package reporting derives statements, portfolio summaries, and tax
// reports from the ledger history and current positions. It is pure
// read-side: nothing here mutates state, and re-running any report over
// unchanged data yields identical output.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/domain"
)

// Service aggregates the read-side reports
type Service struct {
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	PositionRepo    domain.PositionRepository
	Market          domain.MarketDataProvider
}

// NewService creates a new reporting Service instance
func NewService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	positionRepo domain.PositionRepository,
	market domain.MarketDataProvider,
) *Service {
	return &Service{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		PositionRepo:    positionRepo,
		Market:          market,
	}
}

// Statement is an account's activity over a period
type Statement struct {
	AccountID        uuid.UUID
	PeriodStart      time.Time
	PeriodEnd        time.Time
	Transactions     []*domain.Transaction // newest first
	TotalDeposits    decimal.Decimal
	TotalWithdrawals decimal.Decimal
	TransferCount    int
	NetFlow          decimal.Decimal
}

// Statement filters the account's history to [from, to] inclusive and sums
// deposits, withdrawals, and transfer legs.
func (s *Service) Statement(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*Statement, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("statement period end %s before start %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	txs, err := s.TransactionRepo.List(ctx, accountID, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	statement := &Statement{
		AccountID:    accountID,
		PeriodStart:  from,
		PeriodEnd:    to,
		Transactions: txs,
	}
	for _, tx := range txs {
		switch tx.Kind {
		case domain.KindDeposit:
			statement.TotalDeposits = statement.TotalDeposits.Add(tx.Amount)
		case domain.KindWithdraw:
			statement.TotalWithdrawals = statement.TotalWithdrawals.Add(tx.Amount)
		case domain.KindTransfer:
			statement.TransferCount++
		}
		statement.NetFlow = statement.NetFlow.Add(tx.Signed())
	}
	return statement, nil
}

// PositionSummary is one open position valued at the current market price
type PositionSummary struct {
	Asset           *domain.Asset
	Quantity        decimal.Decimal
	AverageCost     decimal.Decimal
	CurrentValue    decimal.Decimal
	InvestedValue   decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent decimal.Decimal
}

// KindTotals aggregates position values per asset kind
type KindTotals struct {
	CurrentValue  decimal.Decimal
	InvestedValue decimal.Decimal
	GainLoss      decimal.Decimal
}

// PortfolioSummary is the valuation of all open positions of an account
type PortfolioSummary struct {
	AccountID            uuid.UUID
	Positions            []PositionSummary
	TotalCurrentValue    decimal.Decimal
	TotalInvestedValue   decimal.Decimal
	TotalGainLoss        decimal.Decimal
	TotalGainLossPercent decimal.Decimal
	ByKind               map[domain.AssetKind]*KindTotals
}

var oneHundred = decimal.NewFromInt(100)

func gainLossPercent(gainLoss, investedValue decimal.Decimal) decimal.Decimal {
	if investedValue.IsZero() {
		return decimal.Zero
	}
	return gainLoss.Div(investedValue).Mul(oneHundred)
}

// PortfolioSummary values every open position at the current market price
// and aggregates totals overall and per asset kind.
func (s *Service) PortfolioSummary(ctx context.Context, accountID uuid.UUID) (*PortfolioSummary, error) {
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	positions, err := s.PositionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		AccountID: accountID,
		Positions: make([]PositionSummary, 0, len(positions)),
		ByKind:    make(map[domain.AssetKind]*KindTotals),
	}

	for _, pos := range positions {
		if !pos.IsOpen() {
			continue
		}

		asset, err := s.Market.GetAsset(ctx, pos.AssetID)
		if err != nil {
			return nil, err
		}

		currentValue := pos.Quantity.Mul(asset.CurrentPrice)
		investedValue := pos.InvestedValue()
		gainLoss := currentValue.Sub(investedValue)

		summary.Positions = append(summary.Positions, PositionSummary{
			Asset:           asset,
			Quantity:        pos.Quantity,
			AverageCost:     pos.AverageCost,
			CurrentValue:    currentValue,
			InvestedValue:   investedValue,
			GainLoss:        gainLoss,
			GainLossPercent: gainLossPercent(gainLoss, investedValue),
		})

		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(currentValue)
		summary.TotalInvestedValue = summary.TotalInvestedValue.Add(investedValue)
		summary.TotalGainLoss = summary.TotalGainLoss.Add(gainLoss)

		totals, ok := summary.ByKind[asset.Kind]
		if !ok {
			totals = &KindTotals{}
			summary.ByKind[asset.Kind] = totals
		}
		totals.CurrentValue = totals.CurrentValue.Add(currentValue)
		totals.InvestedValue = totals.InvestedValue.Add(investedValue)
		totals.GainLoss = totals.GainLoss.Add(gainLoss)
	}

	summary.TotalGainLossPercent = gainLossPercent(summary.TotalGainLoss, summary.TotalInvestedValue)
	return summary, nil
}

// KindTaxSummary is the realized and unrealized tax picture for one asset kind
type KindTaxSummary struct {
	RealizedGain   decimal.Decimal // net of losses
	TaxWithheld    decimal.Decimal
	SalesCount     int
	UnrealizedGain decimal.Decimal // informational, no tax due
}

// TaxReport covers one calendar year of an account's trading
type TaxReport struct {
	AccountID           uuid.UUID
	Year                int
	Stock               KindTaxSummary
	FixedIncome         KindTaxSummary
	TotalRealizedGain   decimal.Decimal
	TotalTaxWithheld    decimal.Decimal
	TotalUnrealizedGain decimal.Decimal
	SalesCount          int
}

// TaxReport sums realized gains and the tax already withheld at settlement
// over the calendar year's sells, per asset kind, plus the unrealized gain
// on currently open positions. Withheld tax comes from the transaction
// metadata; it is never recomputed here.
func (s *Service) TaxReport(ctx context.Context, accountID uuid.UUID, year int) (*TaxReport, error) {
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0).Add(-time.Nanosecond)

	sells, err := s.TransactionRepo.List(ctx, accountID, domain.TransactionFilter{
		Kinds: []domain.TransactionKind{domain.KindSell},
		From:  &from,
		To:    &to,
	})
	if err != nil {
		return nil, err
	}

	report := &TaxReport{AccountID: accountID, Year: year}
	for _, sale := range sells {
		summary := &report.Stock
		if sale.Trade.AssetKind == domain.AssetKindFixedIncome {
			summary = &report.FixedIncome
		}
		summary.RealizedGain = summary.RealizedGain.Add(sale.Trade.RealizedGain)
		summary.TaxWithheld = summary.TaxWithheld.Add(sale.Trade.Tax)
		summary.SalesCount++

		report.TotalRealizedGain = report.TotalRealizedGain.Add(sale.Trade.RealizedGain)
		report.TotalTaxWithheld = report.TotalTaxWithheld.Add(sale.Trade.Tax)
		report.SalesCount++
	}

	positions, err := s.PositionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, pos := range positions {
		if !pos.IsOpen() {
			continue
		}
		asset, err := s.Market.GetAsset(ctx, pos.AssetID)
		if err != nil {
			return nil, err
		}
		gain := pos.Quantity.Mul(asset.CurrentPrice).Sub(pos.InvestedValue())
		if !gain.IsPositive() {
			continue
		}
		if asset.Kind == domain.AssetKindFixedIncome {
			report.FixedIncome.UnrealizedGain = report.FixedIncome.UnrealizedGain.Add(gain)
		} else {
			report.Stock.UnrealizedGain = report.Stock.UnrealizedGain.Add(gain)
		}
		report.TotalUnrealizedGain = report.TotalUnrealizedGain.Add(gain)
	}

	return report, nil
}
