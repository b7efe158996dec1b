package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/domain"
)

// Fixed UUIDs so re-seeding never duplicates catalogue entries
var (
	ASSET_PETR4     = uuid.MustParse("10000000-0000-0000-0000-000000000001")
	ASSET_VALE3     = uuid.MustParse("10000000-0000-0000-0000-000000000002")
	ASSET_ITUB4     = uuid.MustParse("10000000-0000-0000-0000-000000000003")
	ASSET_CDB_PRIME = uuid.MustParse("20000000-0000-0000-0000-000000000001")
	ASSET_TESOURO   = uuid.MustParse("20000000-0000-0000-0000-000000000002")

	DEMO_OWNER              = uuid.MustParse("30000000-0000-0000-0000-000000000001")
	DEMO_CURRENT_ACCOUNT    = uuid.MustParse("30000000-0000-0000-0000-000000000002")
	DEMO_INVESTMENT_ACCOUNT = uuid.MustParse("30000000-0000-0000-0000-000000000003")
)

// CatalogSeeder ensures the tradable asset catalogue exists
type CatalogSeeder struct {
	assetRepo   domain.AssetRepository
	accountRepo domain.AccountRepository
}

// NewCatalogSeeder creates a new CatalogSeeder instance
func NewCatalogSeeder(assetRepo domain.AssetRepository, accountRepo domain.AccountRepository) *CatalogSeeder {
	return &CatalogSeeder{
		assetRepo:   assetRepo,
		accountRepo: accountRepo,
	}
}

func ratePtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func moneyPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func catalogAssets() []*domain.Asset {
	return []*domain.Asset{
		{
			ID:            ASSET_PETR4,
			Symbol:        "PETR4",
			Name:          "Petrobras PN",
			Kind:          domain.AssetKindStock,
			CurrentPrice:  decimal.RequireFromString("38.52"),
			PreviousPrice: decimal.RequireFromString("37.90"),
		},
		{
			ID:            ASSET_VALE3,
			Symbol:        "VALE3",
			Name:          "Vale ON",
			Kind:          domain.AssetKindStock,
			CurrentPrice:  decimal.RequireFromString("61.15"),
			PreviousPrice: decimal.RequireFromString("62.03"),
		},
		{
			ID:            ASSET_ITUB4,
			Symbol:        "ITUB4",
			Name:          "Itau Unibanco PN",
			Kind:          domain.AssetKindStock,
			CurrentPrice:  decimal.RequireFromString("34.27"),
			PreviousPrice: decimal.RequireFromString("34.05"),
		},
		{
			ID:            ASSET_CDB_PRIME,
			Symbol:        "CDB-PRIME",
			Name:          "CDB Prime Bank 2030",
			Kind:          domain.AssetKindFixedIncome,
			CurrentPrice:  decimal.NewFromInt(1000),
			PreviousPrice: decimal.NewFromInt(1000),
			InterestRate:  ratePtr("0.125"),
			MinInvestment: moneyPtr(5000),
			MaturityDate:  datePtr(2030, time.June, 30),
		},
		{
			ID:            ASSET_TESOURO,
			Symbol:        "TESOURO-IPCA",
			Name:          "Tesouro IPCA+ 2029",
			Kind:          domain.AssetKindFixedIncome,
			CurrentPrice:  decimal.RequireFromString("100"),
			PreviousPrice: decimal.RequireFromString("100"),
			InterestRate:  ratePtr("0.061"),
			MinInvestment: moneyPtr(100),
			MaturityDate:  datePtr(2029, time.May, 15),
		},
	}
}

// Seed ensures every catalogue asset exists
// If an asset doesn't exist, it creates it
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	for _, asset := range catalogAssets() {
		_, err := s.assetRepo.GetAsset(ctx, asset.ID)
		if err == nil {
			continue
		}

		if err := asset.Validate(); err != nil {
			return err
		}
		if err := s.assetRepo.Create(ctx, asset); err != nil {
			return err
		}
	}
	return nil
}

// SeedDemoAccounts creates a demo owner with a current and an investment
// account. Used with the in-memory store so the API is usable out of the box.
func (s *CatalogSeeder) SeedDemoAccounts(ctx context.Context) error {
	accounts := []*domain.Account{
		{
			ID:      DEMO_CURRENT_ACCOUNT,
			OwnerID: DEMO_OWNER,
			Kind:    domain.AccountKindCurrent,
			Balance: decimal.NewFromInt(10000),
		},
		{
			ID:      DEMO_INVESTMENT_ACCOUNT,
			OwnerID: DEMO_OWNER,
			Kind:    domain.AccountKindInvestment,
			Balance: decimal.NewFromInt(50000),
		},
	}

	for _, account := range accounts {
		_, err := s.accountRepo.GetByID(ctx, account.ID)
		if err == nil {
			continue
		}

		if err := account.Validate(); err != nil {
			return err
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return err
		}
	}
	return nil
}
