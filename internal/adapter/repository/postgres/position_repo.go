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

// positionRepository implements domain.PositionRepository
type positionRepository struct {
	db *DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *DB) domain.PositionRepository {
	return &positionRepository{db: db}
}

// Get retrieves the position for an (account, asset) pair
func (r *positionRepository) Get(ctx context.Context, accountID, assetID uuid.UUID) (*domain.Position, error) {
	query := `
		SELECT account_id, asset_id, quantity, average_cost
		FROM positions
		WHERE account_id = $1 AND asset_id = $2
	`

	position, err := scanPosition(r.db.QueryRowContext(ctx, query, accountID, assetID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return position, nil
}

// ListByAccount retrieves all positions held by an account, closed ones
// included, sorted by asset id so repeated listings come back in the same order
func (r *positionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Position, error) {
	query := `
		SELECT account_id, asset_id, quantity, average_cost
		FROM positions
		WHERE account_id = $1
		ORDER BY asset_id
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate positions: %w", err)
	}
	return positions, nil
}

// Save upserts a position
func (r *positionRepository) Save(ctx context.Context, position *domain.Position) error {
	query := `
		INSERT INTO positions (account_id, asset_id, quantity, average_cost)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, asset_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, average_cost = EXCLUDED.average_cost
	`

	_, err := r.db.ExecContext(ctx, query,
		position.AccountID,
		position.AssetID,
		position.Quantity.String(),
		position.AverageCost.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}

func scanPosition(row rowScanner) (*domain.Position, error) {
	var position domain.Position
	var quantityStr, averageCostStr string

	if err := row.Scan(&position.AccountID, &position.AssetID, &quantityStr, &averageCostStr); err != nil {
		return nil, err
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	position.Quantity = quantity

	averageCost, err := decimal.NewFromString(averageCostStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse average_cost: %w", err)
	}
	position.AverageCost = averageCost

	return &position, nil
}
