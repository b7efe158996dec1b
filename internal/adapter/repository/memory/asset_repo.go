package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/anybank/anybank-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	store *Store
}

// NewAssetRepository creates a new in-memory asset repository
func NewAssetRepository(store *Store) domain.AssetRepository {
	return &assetRepository{store: store}
}

// GetAsset retrieves an asset by its ID
func (r *assetRepository) GetAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	asset, ok := r.store.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
	}
	return copyAsset(asset), nil
}

// GetBySymbol retrieves an asset by its trading symbol
func (r *assetRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.symbols[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("asset %q: %w", symbol, domain.ErrAssetNotFound)
	}
	return copyAsset(r.store.assets[id]), nil
}

// ListAssets retrieves the asset catalogue sorted by symbol
func (r *assetRepository) ListAssets(ctx context.Context) ([]*domain.Asset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	assets := make([]*domain.Asset, 0, len(r.store.assets))
	for _, asset := range r.store.assets {
		assets = append(assets, copyAsset(asset))
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Symbol < assets[j].Symbol
	})
	return assets, nil
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.assets[asset.ID]; ok {
		return fmt.Errorf("asset %s already exists", asset.ID)
	}
	r.store.assets[asset.ID] = copyAsset(asset)
	r.store.symbols[strings.ToUpper(asset.Symbol)] = asset.ID
	return nil
}

// Update rewrites an asset's metadata and prices
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.assets[asset.ID]; !ok {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrAssetNotFound)
	}
	r.store.assets[asset.ID] = copyAsset(asset)
	r.store.symbols[strings.ToUpper(asset.Symbol)] = asset.ID
	return nil
}
