package memory

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anybank/anybank-backend/internal/domain"
)

func TestPositionListByAccountOrderIsStable(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewPositionRepository(store)

	accountID := uuid.New()
	otherAccountID := uuid.New()

	for i := 0; i < 8; i++ {
		require.NoError(t, repo.Save(ctx, &domain.Position{
			AccountID:   accountID,
			AssetID:     uuid.New(),
			Quantity:    decimal.NewFromInt(int64(i + 1)),
			AverageCost: decimal.NewFromInt(100),
		}))
	}
	require.NoError(t, repo.Save(ctx, &domain.Position{
		AccountID:   otherAccountID,
		AssetID:     uuid.New(),
		Quantity:    decimal.NewFromInt(1),
		AverageCost: decimal.NewFromInt(50),
	}))

	first, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, first, 8)

	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool {
		return first[i].AssetID.String() < first[j].AssetID.String()
	}), "positions must come back sorted by asset id")

	for i := 0; i < 50; i++ {
		again, err := repo.ListByAccount(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, again, 8)
		for j := range again {
			assert.Equal(t, first[j].AssetID, again[j].AssetID, "ordering changed between identical calls")
		}
	}
}
