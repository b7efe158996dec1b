package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestTransaction_Validate(t *testing.T) {
	accountID := uuid.New()
	counterpartyID := uuid.New()
	transferID := uuid.New()
	assetID := uuid.New()

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "Deposit credit should pass",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: accountID,
				Kind:      KindDeposit,
				Entry:     EntryCredit,
				Amount:    decimal.NewFromInt(100),
				Date:      time.Now(),
			},
			wantErr: false,
		},
		{
			name: "Deposit recorded as debit should fail",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: accountID,
				Kind:      KindDeposit,
				Entry:     EntryDebit,
				Amount:    decimal.NewFromInt(100),
				Date:      time.Now(),
			},
			wantErr: true,
			errMsg:  "deposit transaction must be a CREDIT entry",
		},
		{
			name: "Zero amount should fail",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: accountID,
				Kind:      KindWithdraw,
				Entry:     EntryDebit,
				Amount:    decimal.Zero,
				Date:      time.Now(),
			},
			wantErr: true,
			errMsg:  "transaction amount must be positive",
		},
		{
			name: "Transfer without counterparty should fail",
			tx: Transaction{
				ID:         uuid.New(),
				AccountID:  accountID,
				Kind:       KindTransfer,
				Entry:      EntryDebit,
				Amount:     decimal.NewFromInt(50),
				TransferID: ptr(transferID),
				Date:       time.Now(),
			},
			wantErr: true,
			errMsg:  "transfer transaction must reference a counterparty account",
		},
		{
			name: "Transfer without shared id should fail",
			tx: Transaction{
				ID:                    uuid.New(),
				AccountID:             accountID,
				Kind:                  KindTransfer,
				Entry:                 EntryCredit,
				Amount:                decimal.NewFromInt(50),
				CounterpartyAccountID: ptr(counterpartyID),
				Date:                  time.Now(),
			},
			wantErr: true,
			errMsg:  "transfer transaction must carry the shared transfer id",
		},
		{
			name: "Transfer leg with both references should pass",
			tx: Transaction{
				ID:                    uuid.New(),
				AccountID:             accountID,
				Kind:                  KindTransfer,
				Entry:                 EntryDebit,
				Amount:                decimal.NewFromInt(50),
				CounterpartyAccountID: ptr(counterpartyID),
				TransferID:            ptr(transferID),
				Date:                  time.Now(),
			},
			wantErr: false,
		},
		{
			name: "Buy without trade details should fail",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: accountID,
				Kind:      KindBuy,
				Entry:     EntryDebit,
				Amount:    decimal.NewFromInt(1010),
				Date:      time.Now(),
			},
			wantErr: true,
			errMsg:  "buy transaction must carry trade details",
		},
		{
			name: "Buy with zero quantity should fail",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: accountID,
				Kind:      KindBuy,
				Entry:     EntryDebit,
				Amount:    decimal.NewFromInt(1010),
				Trade: &TradeDetails{
					AssetID:  assetID,
					Quantity: decimal.Zero,
				},
				Date: time.Now(),
			},
			wantErr: true,
			errMsg:  "trade quantity must be positive",
		},
		{
			name: "Sell with trade details should pass",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: accountID,
				Kind:      KindSell,
				Entry:     EntryCredit,
				Amount:    decimal.NewFromInt(1410),
				Trade: &TradeDetails{
					AssetID:    assetID,
					AssetKind:  AssetKindStock,
					Quantity:   decimal.NewFromInt(10),
					UnitPrice:  decimal.NewFromInt(150),
					GrossValue: decimal.NewFromInt(1500),
					Fee:        decimal.NewFromInt(15),
					Tax:        decimal.NewFromInt(75),
				},
				Date: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "Unknown kind should fail",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: accountID,
				Kind:      "dividend",
				Entry:     EntryCredit,
				Amount:    decimal.NewFromInt(10),
				Date:      time.Now(),
			},
			wantErr: true,
			errMsg:  "transaction kind must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_Signed(t *testing.T) {
	deposit := Transaction{Kind: KindDeposit, Entry: EntryCredit, Amount: decimal.NewFromInt(100)}
	withdraw := Transaction{Kind: KindWithdraw, Entry: EntryDebit, Amount: decimal.NewFromInt(40)}

	assert.True(t, deposit.Signed().Equal(decimal.NewFromInt(100)))
	assert.True(t, withdraw.Signed().Equal(decimal.NewFromInt(-40)))

	// Balance equals the sum of signed amounts
	sum := deposit.Signed().Add(withdraw.Signed())
	assert.True(t, sum.Equal(decimal.NewFromInt(60)))
}
