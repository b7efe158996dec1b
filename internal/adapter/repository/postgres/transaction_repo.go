package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Commit persists the updated account balances together with the appended
// transactions inside one database transaction
func (r *transactionRepository) Commit(ctx context.Context, accounts []*domain.Account, txs []*domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	updateBalanceQuery := `
		UPDATE accounts
		SET balance = $2
		WHERE id = $1
	`

	for _, account := range accounts {
		result, err := dbTx.ExecContext(ctx, updateBalanceQuery, account.ID, account.Balance.String())
		if err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check balance update: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("account %s: %w", account.ID, domain.ErrInvalidAccount)
		}
	}

	insertTxQuery := `
		INSERT INTO transactions (
			id, account_id, kind, entry, amount,
			counterparty_account_id, transfer_id,
			asset_id, asset_kind, quantity, unit_price, gross_value, fee, tax, realized_gain,
			date, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	for _, tx := range txs {
		var assetID, assetKind, quantity, unitPrice, grossValue, fee, tax, realizedGain interface{}
		if tx.Trade != nil {
			assetID = tx.Trade.AssetID
			assetKind = string(tx.Trade.AssetKind)
			quantity = tx.Trade.Quantity.String()
			unitPrice = tx.Trade.UnitPrice.String()
			grossValue = tx.Trade.GrossValue.String()
			fee = tx.Trade.Fee.String()
			tax = tx.Trade.Tax.String()
			realizedGain = tx.Trade.RealizedGain.String()
		}

		var counterparty, transferID interface{}
		if tx.CounterpartyAccountID != nil {
			counterparty = *tx.CounterpartyAccountID
		}
		if tx.TransferID != nil {
			transferID = *tx.TransferID
		}

		_, err = dbTx.ExecContext(ctx, insertTxQuery,
			tx.ID,
			tx.AccountID,
			string(tx.Kind),
			string(tx.Entry),
			tx.Amount.String(),
			counterparty,
			transferID,
			assetID,
			assetKind,
			quantity,
			unitPrice,
			grossValue,
			fee,
			tax,
			realizedGain,
			tx.Date,
			tx.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List retrieves an account's transactions, newest first, narrowed by filter
func (r *transactionRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, account_id, kind, entry, amount,
		       counterparty_account_id, transfer_id,
		       asset_id, asset_kind, quantity, unit_price, gross_value, fee, tax, realized_gain,
		       date, description
		FROM transactions
		WHERE account_id = $1
	`)

	args := []interface{}{accountID}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, kind := range filter.Kinds {
			kinds[i] = string(kind)
		}
		args = append(args, pq.Array(kinds))
		fmt.Fprintf(&query, " AND kind = ANY($%d)", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&query, " AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&query, " AND date <= $%d", len(args))
	}

	query.WriteString(" ORDER BY date DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// Count returns the number of transactions recorded for an account
func (r *transactionRepository) Count(ctx context.Context, accountID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransaction(rows *sql.Rows) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amountStr string
	var counterparty, transferID uuid.NullUUID
	var assetID uuid.NullUUID
	var assetKind, quantity, unitPrice, grossValue, fee, tax, realizedGain sql.NullString

	err := rows.Scan(
		&tx.ID,
		&tx.AccountID,
		&tx.Kind,
		&tx.Entry,
		&amountStr,
		&counterparty,
		&transferID,
		&assetID,
		&assetKind,
		&quantity,
		&unitPrice,
		&grossValue,
		&fee,
		&tax,
		&realizedGain,
		&tx.Date,
		&tx.Description,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	tx.Amount = amount

	if counterparty.Valid {
		tx.CounterpartyAccountID = &counterparty.UUID
	}
	if transferID.Valid {
		tx.TransferID = &transferID.UUID
	}

	if assetID.Valid {
		trade := &domain.TradeDetails{
			AssetID:   assetID.UUID,
			AssetKind: domain.AssetKind(assetKind.String),
		}
		for _, field := range []struct {
			src sql.NullString
			dst *decimal.Decimal
		}{
			{quantity, &trade.Quantity},
			{unitPrice, &trade.UnitPrice},
			{grossValue, &trade.GrossValue},
			{fee, &trade.Fee},
			{tax, &trade.Tax},
			{realizedGain, &trade.RealizedGain},
		} {
			value, err := decimal.NewFromString(field.src.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse trade details: %w", err)
			}
			*field.dst = value
		}
		tx.Trade = trade
	}

	return &tx, nil
}
