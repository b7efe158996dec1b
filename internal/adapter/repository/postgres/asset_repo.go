package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, symbol, name, kind, current_price, previous_price, interest_rate, min_investment, maturity_date`

// GetAsset retrieves an asset by its ID
func (r *assetRepository) GetAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}
	return asset, nil
}

// GetBySymbol retrieves an asset by its trading symbol
func (r *assetRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE UPPER(symbol) = UPPER($1)`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, symbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %s: %w", symbol, domain.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to get asset by symbol: %w", err)
	}
	return asset, nil
}

// ListAssets retrieves the asset catalogue
func (r *assetRepository) ListAssets(ctx context.Context) ([]*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}
	return assets, nil
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query, assetArgs(asset)...)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// Update rewrites an asset's metadata and prices
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET symbol = $2, name = $3, kind = $4,
		    current_price = $5, previous_price = $6,
		    interest_rate = $7, min_investment = $8, maturity_date = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, assetArgs(asset)...)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check asset update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrAssetNotFound)
	}
	return nil
}

func assetArgs(asset *domain.Asset) []interface{} {
	var interestRate, minInvestment interface{}
	if asset.InterestRate != nil {
		interestRate = asset.InterestRate.String()
	}
	if asset.MinInvestment != nil {
		minInvestment = asset.MinInvestment.String()
	}

	return []interface{}{
		asset.ID,
		asset.Symbol,
		asset.Name,
		string(asset.Kind),
		asset.CurrentPrice.String(),
		asset.PreviousPrice.String(),
		interestRate,
		minInvestment,
		asset.MaturityDate,
	}
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var currentStr, previousStr string
	var interestRate, minInvestment sql.NullString
	var maturityDate sql.NullTime

	err := row.Scan(
		&asset.ID,
		&asset.Symbol,
		&asset.Name,
		&asset.Kind,
		&currentStr,
		&previousStr,
		&interestRate,
		&minInvestment,
		&maturityDate,
	)
	if err != nil {
		return nil, err
	}

	current, err := decimal.NewFromString(currentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_price: %w", err)
	}
	asset.CurrentPrice = current

	previous, err := decimal.NewFromString(previousStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse previous_price: %w", err)
	}
	asset.PreviousPrice = previous

	if interestRate.Valid {
		rate, err := decimal.NewFromString(interestRate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse interest_rate: %w", err)
		}
		asset.InterestRate = &rate
	}
	if minInvestment.Valid {
		minimum, err := decimal.NewFromString(minInvestment.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse min_investment: %w", err)
		}
		asset.MinInvestment = &minimum
	}
	if maturityDate.Valid {
		asset.MaturityDate = &maturityDate.Time
	}

	return &asset, nil
}
