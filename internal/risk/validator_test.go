package risk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
)

const testUserConfigJSON = `{
  "users": [
    {
      "user_id": "USER_A",
      "max_position_size": 1000000,
      "max_daily_volume": 5000000,
      "available_balance": 100000,
      "margin_requirement": 0.02,
      "is_active": true
    },
    {
      "user_id": "USER_INACTIVE",
      "max_position_size": 1000000,
      "max_daily_volume": 5000000,
      "available_balance": 100000,
      "margin_requirement": 0.02,
      "is_active": false
    },
    {
      "user_id": "DEFAULT",
      "max_position_size": 500000,
      "max_daily_volume": 1000000,
      "available_balance": 10000,
      "margin_requirement": 0.05,
      "is_active": true
    }
  ]
}`

const testSymbolConfigJSON = `{
  "symbols": [
    {
      "symbol": "EURUSD",
      "min_quantity": 100,
      "max_quantity": 1000000,
      "tick_size": 0.0001,
      "margin_rate": 0.02,
      "is_tradeable": true,
      "max_order_value": 10000000
    },
    {
      "symbol": "GBPJPY",
      "min_quantity": 100,
      "max_quantity": 1000000,
      "tick_size": 0.001,
      "margin_rate": 0.03,
      "is_tradeable": false,
      "max_order_value": 10000000
    }
  ]
}`

func newTestValidator(t *testing.T) *Validator {
	t.Helper()

	dir := t.TempDir()
	userFile := filepath.Join(dir, "user_config.json")
	symbolFile := filepath.Join(dir, "symbol_config.json")
	require.NoError(t, os.WriteFile(userFile, []byte(testUserConfigJSON), 0o644))
	require.NoError(t, os.WriteFile(symbolFile, []byte(testSymbolConfigJSON), 0o644))

	v := NewValidator(zap.NewNop())
	require.NoError(t, v.Initialize(userFile, symbolFile))
	return v
}

func validatorOrder() order.OrderRequest {
	return order.OrderRequest{
		OrderID:  "O1",
		ClientID: "CLIENT_A",
		UserID:   "USER_A",
		Symbol:   "EURUSD",
		Side:     order.SideBuy,
		Type:     order.TypeLimit,
		Quantity: 1000,
		Price:    1.10,
	}
}

func TestInitialize_MissingFile(t *testing.T) {
	v := NewValidator(zap.NewNop())
	err := v.Initialize("/nonexistent/users.json", "/nonexistent/symbols.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read user config")
}

func TestInitialize_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "user_config.json")
	require.NoError(t, os.WriteFile(userFile, []byte("{not json"), 0o644))

	v := NewValidator(zap.NewNop())
	err := v.LoadUserConfigs(userFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse user config")
}

func TestValidateOrder_Accepted(t *testing.T) {
	v := newTestValidator(t)

	reason, ok := v.ValidateOrder(validatorOrder())
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestValidateOrder_StructuralParameters(t *testing.T) {
	v := newTestValidator(t)

	cases := []struct {
		name   string
		mutate func(*order.OrderRequest)
		reason string
	}{
		{"empty order id", func(r *order.OrderRequest) { r.OrderID = "" }, "Order ID cannot be empty"},
		{"empty symbol", func(r *order.OrderRequest) { r.Symbol = "" }, "Symbol cannot be empty"},
		{"zero quantity", func(r *order.OrderRequest) { r.Quantity = 0 }, "Quantity must be positive"},
		{"limit without price", func(r *order.OrderRequest) { r.Price = 0 }, "Non-market orders must have positive price"},
		{"stop without stop price", func(r *order.OrderRequest) { r.Type = order.TypeStop }, "Stop orders must have positive stop price"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validatorOrder()
			tc.mutate(&req)

			reason, ok := v.ValidateOrder(req)
			assert.False(t, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestValidateOrder_UserLimits(t *testing.T) {
	v := newTestValidator(t)

	req := validatorOrder()
	req.UserID = "USER_INACTIVE"
	reason, ok := v.ValidateOrder(req)
	assert.False(t, ok)
	assert.Equal(t, "User account is inactive", reason)

	// 2,000,000 * 1.10 notional exceeds USER_A's 1,000,000 position size,
	// and would trip the symbol max quantity anyway, so the user check
	// must fire first
	req = validatorOrder()
	req.Quantity = 2_000_000
	reason, ok = v.ValidateOrder(req)
	assert.False(t, ok)
	assert.Equal(t, "Order value exceeds maximum position size limit", reason)

	// DEFAULT user: 400,000 * 1.10 * 0.05 margin overruns the 10,000
	// balance while the notional stays inside the position limit
	req = validatorOrder()
	req.UserID = "unknown-user"
	req.Quantity = 400_000
	reason, ok = v.ValidateOrder(req)
	assert.False(t, ok)
	assert.Equal(t, "Insufficient margin/balance for order", reason)
}

func TestValidateOrder_UserDefaultFallback(t *testing.T) {
	v := newTestValidator(t)

	// unknown user resolves to the DEFAULT record and passes with a
	// small order
	req := validatorOrder()
	req.UserID = "unknown-user"
	reason, ok := v.ValidateOrder(req)
	assert.True(t, ok, reason)
}

func TestValidateOrder_UserNotFound(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "user_config.json")
	symbolFile := filepath.Join(dir, "symbol_config.json")
	// no DEFAULT user entry
	require.NoError(t, os.WriteFile(userFile, []byte(`{"users":[]}`), 0o644))
	require.NoError(t, os.WriteFile(symbolFile, []byte(testSymbolConfigJSON), 0o644))

	v := NewValidator(zap.NewNop())
	require.NoError(t, v.Initialize(userFile, symbolFile))

	reason, ok := v.ValidateOrder(validatorOrder())
	assert.False(t, ok)
	assert.Equal(t, "User not found or not configured", reason)
}

func TestValidateOrder_SymbolLimits(t *testing.T) {
	v := newTestValidator(t)

	req := validatorOrder()
	req.Symbol = "GBPJPY"
	reason, ok := v.ValidateOrder(req)
	assert.False(t, ok)
	assert.Equal(t, "Symbol is not tradeable", reason)

	req = validatorOrder()
	req.Symbol = "USDCHF"
	reason, ok = v.ValidateOrder(req)
	assert.False(t, ok)
	assert.Equal(t, "Symbol not found or not configured", reason)

	req = validatorOrder()
	req.Quantity = 50
	reason, ok = v.ValidateOrder(req)
	assert.False(t, ok)
	assert.Equal(t, "Order quantity below minimum allowed", reason)
}

func TestValidateOrder_TickSize(t *testing.T) {
	v := newTestValidator(t)

	// 1.10 sits on the 0.0001 grid
	req := validatorOrder()
	req.Price = 1.10
	_, ok := v.ValidateOrder(req)
	assert.True(t, ok)

	// 1.10005 is half a tick off
	req.Price = 1.10005
	reason, ok := v.ValidateOrder(req)
	assert.False(t, ok)
	assert.Equal(t, "Order price does not conform to tick size", reason)

	// market orders skip the tick check entirely
	req.Type = order.TypeMarket
	req.Price = 0
	_, ok = v.ValidateOrder(req)
	assert.True(t, ok)
}

func TestUpdateConfigs(t *testing.T) {
	v := newTestValidator(t)

	v.UpdateSymbolConfig("USDCHF", SymbolConfig{
		Symbol:        "USDCHF",
		MinQuantity:   100,
		MaxQuantity:   1_000_000,
		TickSize:      0.0001,
		IsTradeable:   true,
		MaxOrderValue: 10_000_000,
	})

	req := validatorOrder()
	req.Symbol = "USDCHF"
	_, ok := v.ValidateOrder(req)
	assert.True(t, ok)

	cfg, found := v.User("USER_A")
	require.True(t, found)
	cfg.IsActive = false
	v.UpdateUserConfig("USER_A", cfg)

	reason, ok := v.ValidateOrder(validatorOrder())
	assert.False(t, ok)
	assert.Equal(t, "User account is inactive", reason)
}
