package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/anybank/anybank-backend/internal/domain"
)

// positionRepository implements domain.PositionRepository
type positionRepository struct {
	store *Store
}

// NewPositionRepository creates a new in-memory position repository
func NewPositionRepository(store *Store) domain.PositionRepository {
	return &positionRepository{store: store}
}

// Get retrieves the position for an (account, asset) pair
func (r *positionRepository) Get(ctx context.Context, accountID, assetID uuid.UUID) (*domain.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	position, ok := r.store.positions[positionKey{accountID: accountID, assetID: assetID}]
	if !ok {
		return nil, fmt.Errorf("account %s asset %s: %w", accountID, assetID, domain.ErrPositionNotFound)
	}
	return copyPosition(position), nil
}

// ListByAccount retrieves all positions held by an account, sorted by asset
// id so repeated listings come back in the same order
func (r *positionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	positions := make([]*domain.Position, 0)
	for key, position := range r.store.positions {
		if key.accountID == accountID {
			positions = append(positions, copyPosition(position))
		}
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].AssetID.String() < positions[j].AssetID.String()
	})
	return positions, nil
}

// Save upserts a position
func (r *positionRepository) Save(ctx context.Context, position *domain.Position) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := positionKey{accountID: position.AccountID, assetID: position.AssetID}
	r.store.positions[key] = copyPosition(position)
	return nil
}
