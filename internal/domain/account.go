package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind represents the kind of bank account
type AccountKind string

const (
	AccountKindCurrent    AccountKind = "current"
	AccountKindInvestment AccountKind = "investment"
)

// Account represents a bank account entity in the domain layer.
// Balance is authoritative only through ledger commits; reports never set it.
type Account struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Kind    AccountKind
	Balance decimal.Decimal
}

// Validate ensures the account adheres to domain rules
// Returns an error if validation fails
func (a *Account) Validate() error {
	if a.Kind != AccountKindCurrent && a.Kind != AccountKindInvestment {
		return errors.New("account kind must be current or investment")
	}

	if a.OwnerID == uuid.Nil {
		return errors.New("account must have an owner")
	}

	// Balance never goes negative as a direct effect of a ledger operation
	if a.Balance.IsNegative() {
		return errors.New("account balance cannot be negative")
	}

	return nil
}

// CanDebit reports whether the account holds at least amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(a.Balance)
}
