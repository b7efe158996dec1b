package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/anybank/anybank-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new in-memory transaction repository
func NewTransactionRepository(store *Store) domain.TransactionRepository {
	return &transactionRepository{store: store}
}

// Commit atomically persists updated balances and appended transactions.
// The store lock makes the pair visible together or not at all.
func (r *transactionRepository) Commit(ctx context.Context, accounts []*domain.Account, txs []*domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, account := range accounts {
		if _, ok := r.store.accounts[account.ID]; !ok {
			return fmt.Errorf("account %s: %w", account.ID, domain.ErrInvalidAccount)
		}
	}

	for _, account := range accounts {
		r.store.accounts[account.ID] = copyAccount(account)
	}
	for _, tx := range txs {
		r.store.transactions[tx.AccountID] = append(r.store.transactions[tx.AccountID], copyTransaction(tx))
	}
	return nil
}

// List retrieves an account's transactions, newest first, narrowed by filter
func (r *transactionRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*domain.Transaction, 0)
	for _, tx := range r.store.transactions[accountID] {
		if filter.Matches(tx) {
			matched = append(matched, copyTransaction(tx))
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*domain.Transaction{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Count returns the number of transactions recorded for an account
func (r *transactionRepository) Count(ctx context.Context, accountID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.transactions[accountID]), nil
}
