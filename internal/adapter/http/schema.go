package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/anybank/anybank-backend/internal/domain"
	"github.com/anybank/anybank-backend/internal/usecase/reporting"
)

var validate = validator.New()

type MoneyMovementSchema struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description"`
}

type TransferSchema struct {
	ToAccountID string `json:"to_account_id" validate:"required,uuid"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description"`
}

type TradeSchema struct {
	AssetSymbol string `json:"asset_symbol" validate:"required"`
	Quantity    string `json:"quantity" validate:"required"`
}

type AccountSchema struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Kind    string `json:"kind"`
	Balance string `json:"balance"`
}

type TradeDetailsSchema struct {
	AssetID      string `json:"asset_id"`
	AssetKind    string `json:"asset_kind"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	GrossValue   string `json:"gross_value"`
	Fee          string `json:"fee"`
	Tax          string `json:"tax"`
	RealizedGain string `json:"realized_gain"`
}

type TransactionSchema struct {
	ID                    string              `json:"id"`
	AccountID             string              `json:"account_id"`
	Kind                  string              `json:"kind"`
	Entry                 string              `json:"entry"`
	Amount                string              `json:"amount"`
	CounterpartyAccountID *string             `json:"counterparty_account_id,omitempty"`
	TransferID            *string             `json:"transfer_id,omitempty"`
	Trade                 *TradeDetailsSchema `json:"trade,omitempty"`
	Date                  time.Time           `json:"date"`
	Description           string              `json:"description"`
}

type BalanceSchema struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type PositionSchema struct {
	AssetID     string `json:"asset_id"`
	Quantity    string `json:"quantity"`
	AverageCost string `json:"average_cost"`
}

type AssetSchema struct {
	ID             string     `json:"id"`
	Symbol         string     `json:"symbol"`
	Name           string     `json:"name"`
	Kind           string     `json:"kind"`
	CurrentPrice   string     `json:"current_price"`
	PreviousPrice  string     `json:"previous_price"`
	DailyVariation string     `json:"daily_variation"`
	InterestRate   *string    `json:"interest_rate,omitempty"`
	MinInvestment  *string    `json:"min_investment,omitempty"`
	MaturityDate   *time.Time `json:"maturity_date,omitempty"`
}

type Pagination[T any] struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Items []T `json:"items"`
}

type StatementSchema struct {
	AccountID        string              `json:"account_id"`
	PeriodStart      time.Time           `json:"period_start"`
	PeriodEnd        time.Time           `json:"period_end"`
	Transactions     []TransactionSchema `json:"transactions"`
	TotalDeposits    string              `json:"total_deposits"`
	TotalWithdrawals string              `json:"total_withdrawals"`
	TransferCount    int                 `json:"transfer_count"`
	NetFlow          string              `json:"net_flow"`
}

type PositionSummarySchema struct {
	Asset           AssetSchema `json:"asset"`
	Quantity        string      `json:"quantity"`
	AverageCost     string      `json:"average_cost"`
	CurrentValue    string      `json:"current_value"`
	InvestedValue   string      `json:"invested_value"`
	GainLoss        string      `json:"gain_loss"`
	GainLossPercent string      `json:"gain_loss_percent"`
}

type KindTotalsSchema struct {
	CurrentValue  string `json:"current_value"`
	InvestedValue string `json:"invested_value"`
	GainLoss      string `json:"gain_loss"`
}

type PortfolioSchema struct {
	AccountID            string                      `json:"account_id"`
	Positions            []PositionSummarySchema     `json:"positions"`
	TotalCurrentValue    string                      `json:"total_current_value"`
	TotalInvestedValue   string                      `json:"total_invested_value"`
	TotalGainLoss        string                      `json:"total_gain_loss"`
	TotalGainLossPercent string                      `json:"total_gain_loss_percent"`
	ByKind               map[string]KindTotalsSchema `json:"by_kind"`
}

type KindTaxSummarySchema struct {
	RealizedGain   string `json:"realized_gain"`
	TaxWithheld    string `json:"tax_withheld"`
	SalesCount     int    `json:"sales_count"`
	UnrealizedGain string `json:"unrealized_gain"`
}

type TaxReportSchema struct {
	AccountID           string               `json:"account_id"`
	Year                int                  `json:"year"`
	Stock               KindTaxSummarySchema `json:"stock"`
	FixedIncome         KindTaxSummarySchema `json:"fixed_income"`
	TotalRealizedGain   string               `json:"total_realized_gain"`
	TotalTaxWithheld    string               `json:"total_tax_withheld"`
	TotalUnrealizedGain string               `json:"total_unrealized_gain"`
	SalesCount          int                  `json:"sales_count"`
}

func accountToSchema(account *domain.Account) AccountSchema {
	return AccountSchema{
		ID:      account.ID.String(),
		OwnerID: account.OwnerID.String(),
		Kind:    string(account.Kind),
		Balance: account.Balance.String(),
	}
}

func transactionToSchema(tx *domain.Transaction) TransactionSchema {
	schema := TransactionSchema{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Kind:        string(tx.Kind),
		Entry:       string(tx.Entry),
		Amount:      tx.Amount.String(),
		Date:        tx.Date,
		Description: tx.Description,
	}
	if tx.CounterpartyAccountID != nil {
		counterparty := tx.CounterpartyAccountID.String()
		schema.CounterpartyAccountID = &counterparty
	}
	if tx.TransferID != nil {
		transferID := tx.TransferID.String()
		schema.TransferID = &transferID
	}
	if tx.Trade != nil {
		schema.Trade = &TradeDetailsSchema{
			AssetID:      tx.Trade.AssetID.String(),
			AssetKind:    string(tx.Trade.AssetKind),
			Quantity:     tx.Trade.Quantity.String(),
			UnitPrice:    tx.Trade.UnitPrice.String(),
			GrossValue:   tx.Trade.GrossValue.String(),
			Fee:          tx.Trade.Fee.String(),
			Tax:          tx.Trade.Tax.String(),
			RealizedGain: tx.Trade.RealizedGain.String(),
		}
	}
	return schema
}

func transactionsToSchema(txs []*domain.Transaction) []TransactionSchema {
	schemas := make([]TransactionSchema, 0, len(txs))
	for _, tx := range txs {
		schemas = append(schemas, transactionToSchema(tx))
	}
	return schemas
}

func positionToSchema(position *domain.Position) PositionSchema {
	return PositionSchema{
		AssetID:     position.AssetID.String(),
		Quantity:    position.Quantity.String(),
		AverageCost: position.AverageCost.String(),
	}
}

func assetToSchema(asset *domain.Asset) AssetSchema {
	schema := AssetSchema{
		ID:             asset.ID.String(),
		Symbol:         asset.Symbol,
		Name:           asset.Name,
		Kind:           string(asset.Kind),
		CurrentPrice:   asset.CurrentPrice.String(),
		PreviousPrice:  asset.PreviousPrice.String(),
		DailyVariation: asset.DailyVariation().String(),
		MaturityDate:   asset.MaturityDate,
	}
	if asset.InterestRate != nil {
		rate := asset.InterestRate.String()
		schema.InterestRate = &rate
	}
	if asset.MinInvestment != nil {
		minimum := asset.MinInvestment.String()
		schema.MinInvestment = &minimum
	}
	return schema
}

func kindTaxSummaryToSchema(summary reporting.KindTaxSummary) KindTaxSummarySchema {
	return KindTaxSummarySchema{
		RealizedGain:   summary.RealizedGain.String(),
		TaxWithheld:    summary.TaxWithheld.String(),
		SalesCount:     summary.SalesCount,
		UnrealizedGain: summary.UnrealizedGain.String(),
	}
}
