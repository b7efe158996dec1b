package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anybank/anybank-backend/internal/adapter/repository/memory"
	"github.com/anybank/anybank-backend/internal/common"
	"github.com/anybank/anybank-backend/internal/domain"
	"github.com/anybank/anybank-backend/internal/usecase/accountlock"
	"github.com/anybank/anybank-backend/internal/usecase/ledger"
	"github.com/anybank/anybank-backend/internal/usecase/position"
	"github.com/anybank/anybank-backend/internal/usecase/reporting"
	"github.com/anybank/anybank-backend/internal/usecase/seeder"
	"github.com/anybank/anybank-backend/internal/usecase/trading"
)

type apiFixture struct {
	app       *fiber.App
	accountID uuid.UUID
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	txRepo := memory.NewTransactionRepository(store)
	positionRepo := memory.NewPositionRepository(store)
	assetRepo := memory.NewAssetRepository(store)
	locks := accountlock.NewRegistry()
	log := common.NewSilentLogger()

	ctx := context.Background()
	catalog := seeder.NewCatalogSeeder(assetRepo, accountRepo)
	require.NoError(t, catalog.Seed(ctx))
	require.NoError(t, catalog.SeedDemoAccounts(ctx))

	ledgerSvc := ledger.NewService(accountRepo, txRepo, locks, log)
	tracker := position.NewTracker(positionRepo, log)
	engine := trading.NewEngine(accountRepo, ledgerSvc, tracker, assetRepo, locks, log)
	reports := reporting.NewService(accountRepo, txRepo, positionRepo, assetRepo)

	app := fiber.New()
	server := NewServer(accountRepo, ledgerSvc, engine, reports, assetRepo, log)
	server.RegisterRoutes(app)

	return &apiFixture{
		app:       app,
		accountID: seeder.DEMO_INVESTMENT_ACCOUNT,
	}
}

func (f *apiFixture) request(t *testing.T, method, path string, body interface{}) (*nethttp.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (f *apiFixture) requestList(t *testing.T, path string) (*nethttp.Response, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(nethttp.MethodGet, path, nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestDepositEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/deposit", fiber.Map{
		"amount":      "250.50",
		"description": "salary",
	})

	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	assert.Equal(t, "deposit", body["kind"])
	assert.Equal(t, "CREDIT", body["entry"])
	assert.Equal(t, "250.5", body["amount"])
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/deposit", fiber.Map{
		"amount": "-10",
	})
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDepositRejectsMissingAmount(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/deposit", fiber.Map{
		"description": "no amount",
	})
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/withdraw", fiber.Map{
		"amount": "99999999",
	})
	require.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "insufficient funds")
}

func TestUnknownAccountIs404(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+uuid.NewString()+"/deposit", fiber.Map{
		"amount": "10",
	})
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestMalformedAccountIDIs400(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodGet, "/v1/accounts/not-a-uuid/balance", nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestTransferEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/transfer",
		bytes.NewReader(mustJSON(t, fiber.Map{
			"to_account_id": seeder.DEMO_CURRENT_ACCOUNT.String(),
			"amount":        "1000",
		})))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var legs []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&legs))
	require.Len(t, legs, 2)
	assert.Equal(t, "DEBIT", legs[0]["entry"])
	assert.Equal(t, "CREDIT", legs[1]["entry"])
	assert.Equal(t, legs[0]["transfer_id"], legs[1]["transfer_id"])
}

func TestTransferToSelfIs422(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/transfer", fiber.Map{
		"to_account_id": f.accountID.String(),
		"amount":        "10",
	})
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestBuyAndPositionsEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/buy", fiber.Map{
		"asset_symbol": "PETR4",
		"quantity":     "10",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	assert.Equal(t, "buy", body["kind"])
	require.NotNil(t, body["trade"])

	resp, positions := f.requestList(t, "/v1/accounts/"+f.accountID.String()+"/positions")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Len(t, positions, 1)
	assert.Equal(t, "10", positions[0]["quantity"])
}

func TestBuyUnknownSymbolIs404(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/buy", fiber.Map{
		"asset_symbol": "NOPE11",
		"quantity":     "1",
	})
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestBuyOnCurrentAccountRejected(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+seeder.DEMO_CURRENT_ACCOUNT.String()+"/buy", fiber.Map{
		"asset_symbol": "PETR4",
		"quantity":     "1",
	})
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestSellWithoutPositionIs422(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/sell", fiber.Map{
		"asset_symbol": "PETR4",
		"quantity":     "5",
	})
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestBelowMinimumInvestmentIs422(t *testing.T) {
	f := newAPIFixture(t)

	// CDB-PRIME requires a 5000 minimum per purchase
	resp, body := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/buy", fiber.Map{
		"asset_symbol": "CDB-PRIME",
		"quantity":     "1",
	})
	require.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "minimum")
}

func TestListAssetsEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	resp, assets := f.requestList(t, "/v1/assets")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Len(t, assets, 5)

	for _, asset := range assets {
		assert.NotEmpty(t, asset["symbol"])
		assert.NotEmpty(t, asset["current_price"])
		assert.Contains(t, asset, "daily_variation")
	}
}

func TestTransactionsPagination(t *testing.T) {
	f := newAPIFixture(t)

	for i := 0; i < 5; i++ {
		resp, _ := f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/deposit", fiber.Map{
			"amount": "10",
		})
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	}

	resp, body := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String()+"/transactions?page=1&size=2", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), body["total"])
	assert.Equal(t, float64(2), body["size"])
	items, ok := body["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestTransactionsKindFilter(t *testing.T) {
	f := newAPIFixture(t)

	_, _ = f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/deposit", fiber.Map{"amount": "100"})
	_, _ = f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/withdraw", fiber.Map{"amount": "50"})

	resp, body := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String()+"/transactions?kind=withdraw", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	items, ok := body["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "withdraw", items[0].(map[string]interface{})["kind"])
}

func TestStatementEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	_, _ = f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/deposit", fiber.Map{"amount": "300"})
	_, _ = f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/withdraw", fiber.Map{"amount": "100"})

	resp, body := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String()+"/statement", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "300", body["total_deposits"])
	assert.Equal(t, "100", body["total_withdrawals"])
	assert.Equal(t, "200", body["net_flow"])
}

func TestPortfolioEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	_, _ = f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/buy", fiber.Map{
		"asset_symbol": "PETR4",
		"quantity":     "10",
	})

	resp, body := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String()+"/portfolio", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	positions, ok := body["positions"].([]interface{})
	require.True(t, ok)
	require.Len(t, positions, 1)
	byKind, ok := body["by_kind"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, byKind, "stock")
}

func TestTaxReportEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String()+"/tax-report", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["sales_count"])
	assert.Equal(t, "0", body["total_tax_withheld"])
}

func TestGetAccountAndOwnerListing(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String(), nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, string(domain.AccountKindInvestment), body["kind"])

	resp, accounts := f.requestList(t, "/v1/owners/"+seeder.DEMO_OWNER.String()+"/accounts")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, accounts, 2)
}

func TestBalanceReflectsMovements(t *testing.T) {
	f := newAPIFixture(t)

	_, before := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String()+"/balance", nil)
	start, err := decimal.NewFromString(before["balance"].(string))
	require.NoError(t, err)

	_, _ = f.request(t, nethttp.MethodPost, "/v1/accounts/"+f.accountID.String()+"/deposit", fiber.Map{"amount": "125"})

	_, after := f.request(t, nethttp.MethodGet, "/v1/accounts/"+f.accountID.String()+"/balance", nil)
	end, err := decimal.NewFromString(after["balance"].(string))
	require.NoError(t, err)
	assert.True(t, end.Sub(start).Equal(decimal.NewFromInt(125)))
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	return encoded
}
