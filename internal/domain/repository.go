package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// ListByOwner retrieves all accounts held by an owner
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Account, error)

	// Create creates a new account
	Create(ctx context.Context, account *Account) error
}

// TransactionFilter narrows a transaction listing. Zero values mean "no
// constraint"; results are always ordered by date descending.
type TransactionFilter struct {
	Kinds  []TransactionKind
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Matches reports whether a transaction passes the kind and period
// constraints (pagination is the store's concern).
func (f TransactionFilter) Matches(t *Transaction) bool {
	if len(f.Kinds) > 0 {
		found := false
		for _, kind := range f.Kinds {
			if t.Kind == kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && t.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && t.Date.After(*f.To) {
		return false
	}
	return true
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Commit atomically persists updated account balances together with the
	// appended transactions. Either everything commits or nothing does.
	Commit(ctx context.Context, accounts []*Account, txs []*Transaction) error

	// List retrieves an account's transactions, newest first, narrowed by filter
	List(ctx context.Context, accountID uuid.UUID, filter TransactionFilter) ([]*Transaction, error)

	// Count returns the number of transactions recorded for an account
	Count(ctx context.Context, accountID uuid.UUID) (int, error)
}

// PositionRepository defines the interface for position persistence operations
type PositionRepository interface {
	// Get retrieves the position for an (account, asset) pair.
	// Returns ErrPositionNotFound when no position exists.
	Get(ctx context.Context, accountID, assetID uuid.UUID) (*Position, error)

	// ListByAccount retrieves all positions held by an account, closed ones included
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Position, error)

	// Save upserts a position
	Save(ctx context.Context, position *Position) error
}

// MarketDataProvider is the read-side market-data collaborator: asset
// metadata and current prices.
type MarketDataProvider interface {
	// GetAsset retrieves an asset by its ID
	GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error)

	// GetBySymbol retrieves an asset by its trading symbol
	GetBySymbol(ctx context.Context, symbol string) (*Asset, error)

	// ListAssets retrieves the asset catalogue
	ListAssets(ctx context.Context) ([]*Asset, error)
}

// AssetRepository extends the market-data surface with the write operation
// the price feed and the seeder use.
type AssetRepository interface {
	MarketDataProvider

	// Create creates a new asset
	Create(ctx context.Context, asset *Asset) error

	// Update rewrites an asset's metadata and prices
	Update(ctx context.Context, asset *Asset) error
}
