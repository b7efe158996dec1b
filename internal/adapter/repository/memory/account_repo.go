package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anybank/anybank-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	store *Store
}

// NewAccountRepository creates a new in-memory account repository
func NewAccountRepository(store *Store) domain.AccountRepository {
	return &accountRepository{store: store}
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrInvalidAccount)
	}
	return copyAccount(account), nil
}

// ListByOwner retrieves all accounts held by an owner
func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0)
	for _, account := range r.store.accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, copyAccount(account))
		}
	}
	return accounts, nil
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[account.ID]; ok {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	r.store.accounts[account.ID] = copyAccount(account)
	return nil
}
