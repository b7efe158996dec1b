package domain

import "errors"

// Sentinel errors returned by the core services. All of them are recoverable
// at the caller: the attempted operation simply does not commit.
var (
	// ErrInvalidAmount is returned when an operation amount or quantity is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal, transfer, or buy exceeds the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientPosition is returned when a sell exceeds the held quantity.
	ErrInsufficientPosition = errors.New("insufficient position")

	// ErrBelowMinimumInvestment is returned when a fixed-income buy is under the asset's minimum.
	ErrBelowMinimumInvestment = errors.New("gross value below minimum investment")

	// ErrInvalidAccount is returned for an unknown account id or the wrong account kind for an operation.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrSameAccount is returned when a transfer names the same account on both sides.
	ErrSameAccount = errors.New("transfer requires two distinct accounts")

	// ErrAssetNotFound is returned for an unknown asset id or symbol.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrPositionNotFound is returned by position storage when no row exists
	// for an (account, asset) pair.
	ErrPositionNotFound = errors.New("position not found")
)
