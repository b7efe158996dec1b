// Package memory provides mutex-guarded in-memory repositories. They back
// unit tests and the server's local development mode.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/anybank/anybank-backend/internal/domain"
)

type positionKey struct {
	accountID uuid.UUID
	assetID   uuid.UUID
}

// Store holds all in-memory state shared by the repositories
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*domain.Account
	transactions map[uuid.UUID][]*domain.Transaction // accountID -> append-ordered records
	positions    map[positionKey]*domain.Position
	assets       map[uuid.UUID]*domain.Asset
	symbols      map[string]uuid.UUID
}

// NewStore creates a new empty store
func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*domain.Account),
		transactions: make(map[uuid.UUID][]*domain.Transaction),
		positions:    make(map[positionKey]*domain.Position),
		assets:       make(map[uuid.UUID]*domain.Asset),
		symbols:      make(map[string]uuid.UUID),
	}
}

func copyAccount(a *domain.Account) *domain.Account {
	clone := *a
	return &clone
}

func copyTransaction(t *domain.Transaction) *domain.Transaction {
	clone := *t
	if t.Trade != nil {
		trade := *t.Trade
		clone.Trade = &trade
	}
	if t.CounterpartyAccountID != nil {
		id := *t.CounterpartyAccountID
		clone.CounterpartyAccountID = &id
	}
	if t.TransferID != nil {
		id := *t.TransferID
		clone.TransferID = &id
	}
	return &clone
}

func copyPosition(p *domain.Position) *domain.Position {
	clone := *p
	return &clone
}

func copyAsset(a *domain.Asset) *domain.Asset {
	clone := *a
	if a.InterestRate != nil {
		rate := *a.InterestRate
		clone.InterestRate = &rate
	}
	if a.MinInvestment != nil {
		min := *a.MinInvestment
		clone.MinInvestment = &min
	}
	if a.MaturityDate != nil {
		date := *a.MaturityDate
		clone.MaturityDate = &date
	}
	return &clone
}
