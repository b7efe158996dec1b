package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of ledger transaction
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
	KindTransfer TransactionKind = "transfer"
	KindBuy      TransactionKind = "buy"
	KindSell     TransactionKind = "sell"
)

// EntryType represents the direction of a transaction against its account
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// TradeDetails carries the settlement metadata recorded on buy/sell
// transactions. Reports read fee, tax, and realized gain from here instead
// of recomputing them.
type TradeDetails struct {
	AssetID      uuid.UUID
	AssetKind    AssetKind
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	GrossValue   decimal.Decimal
	Fee          decimal.Decimal
	Tax          decimal.Decimal
	RealizedGain decimal.Decimal // sell only, may be negative
}

// Transaction represents an immutable ledger record. Once committed it is
// never mutated or deleted; corrections are new compensating transactions.
type Transaction struct {
	ID                    uuid.UUID
	AccountID             uuid.UUID
	Kind                  TransactionKind
	Entry                 EntryType
	Amount                decimal.Decimal // ABSOLUTE VALUE (always positive)
	CounterpartyAccountID *uuid.UUID      // transfer legs only
	TransferID            *uuid.UUID      // shared by both legs of one transfer
	Trade                 *TradeDetails   // buy/sell only
	Date                  time.Time
	Description           string
}

// Signed returns the amount with its direction applied: credits are
// positive, debits negative. The sum of Signed over an account's history
// equals its balance.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Entry == EntryDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive (absolute value)")
	}

	if t.Entry != EntryDebit && t.Entry != EntryCredit {
		return errors.New("transaction entry must be DEBIT or CREDIT")
	}

	switch t.Kind {
	case KindDeposit, KindSell:
		if t.Entry != EntryCredit {
			return errors.New(string(t.Kind) + " transaction must be a CREDIT entry")
		}
	case KindWithdraw, KindBuy:
		if t.Entry != EntryDebit {
			return errors.New(string(t.Kind) + " transaction must be a DEBIT entry")
		}
	case KindTransfer:
		if t.CounterpartyAccountID == nil {
			return errors.New("transfer transaction must reference a counterparty account")
		}
		if t.TransferID == nil {
			return errors.New("transfer transaction must carry the shared transfer id")
		}
	default:
		return errors.New("transaction kind must be deposit, withdraw, transfer, buy, or sell")
	}

	if t.Kind == KindBuy || t.Kind == KindSell {
		if t.Trade == nil {
			return errors.New(string(t.Kind) + " transaction must carry trade details")
		}
		if t.Trade.Quantity.LessThanOrEqual(decimal.Zero) {
			return errors.New("trade quantity must be positive")
		}
		if t.Trade.AssetID == uuid.Nil {
			return errors.New("trade details must reference an asset")
		}
	}

	return nil
}
