package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
)

// GetStatement handles GET /v1/accounts/:id/statement
// The period defaults to the last 30 days.
func (s *Server) GetStatement(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "invalid from date")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "invalid to date")
		}
		to = parsed
	}

	statement, err := s.Reports.Statement(context.Background(), id, from, to)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(StatementSchema{
		AccountID:        statement.AccountID.String(),
		PeriodStart:      statement.PeriodStart,
		PeriodEnd:        statement.PeriodEnd,
		Transactions:     transactionsToSchema(statement.Transactions),
		TotalDeposits:    statement.TotalDeposits.String(),
		TotalWithdrawals: statement.TotalWithdrawals.String(),
		TransferCount:    statement.TransferCount,
		NetFlow:          statement.NetFlow.String(),
	})
}

// GetPortfolio handles GET /v1/accounts/:id/portfolio
func (s *Server) GetPortfolio(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	summary, err := s.Reports.PortfolioSummary(context.Background(), id)
	if err != nil {
		return mapError(c, err)
	}

	positions := make([]PositionSummarySchema, 0, len(summary.Positions))
	for _, position := range summary.Positions {
		positions = append(positions, PositionSummarySchema{
			Asset:           assetToSchema(position.Asset),
			Quantity:        position.Quantity.String(),
			AverageCost:     position.AverageCost.String(),
			CurrentValue:    position.CurrentValue.String(),
			InvestedValue:   position.InvestedValue.String(),
			GainLoss:        position.GainLoss.String(),
			GainLossPercent: position.GainLossPercent.String(),
		})
	}

	byKind := make(map[string]KindTotalsSchema, len(summary.ByKind))
	for kind, totals := range summary.ByKind {
		byKind[string(kind)] = KindTotalsSchema{
			CurrentValue:  totals.CurrentValue.String(),
			InvestedValue: totals.InvestedValue.String(),
			GainLoss:      totals.GainLoss.String(),
		}
	}

	return c.JSON(PortfolioSchema{
		AccountID:            summary.AccountID.String(),
		Positions:            positions,
		TotalCurrentValue:    summary.TotalCurrentValue.String(),
		TotalInvestedValue:   summary.TotalInvestedValue.String(),
		TotalGainLoss:        summary.TotalGainLoss.String(),
		TotalGainLossPercent: summary.TotalGainLossPercent.String(),
		ByKind:               byKind,
	})
}

// GetTaxReport handles GET /v1/accounts/:id/tax-report
// The year defaults to the current calendar year.
func (s *Server) GetTaxReport(c fiber.Ctx) error {
	id, ok := parseAccountID(c)
	if !ok {
		return badRequest(c, "invalid account id")
	}

	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid year")
		}
		year = parsed
	}

	report, err := s.Reports.TaxReport(context.Background(), id, year)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(TaxReportSchema{
		AccountID:           report.AccountID.String(),
		Year:                report.Year,
		Stock:               kindTaxSummaryToSchema(report.Stock),
		FixedIncome:         kindTaxSummaryToSchema(report.FixedIncome),
		TotalRealizedGain:   report.TotalRealizedGain.String(),
		TotalTaxWithheld:    report.TotalTaxWithheld.String(),
		TotalUnrealizedGain: report.TotalUnrealizedGain.String(),
		SalesCount:          report.SalesCount,
	})
}
