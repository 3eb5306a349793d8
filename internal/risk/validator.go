package risk

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
)

// tick-size conformance tolerance for floating point remainders
const tickEpsilon = 1e-8

// UserConfig is the static per-user limit record loaded at startup
type UserConfig struct {
	UserID            string  `json:"user_id"`
	MaxPositionSize   float64 `json:"max_position_size"`
	MaxDailyVolume    float64 `json:"max_daily_volume"`
	AvailableBalance  float64 `json:"available_balance"`
	MarginRequirement float64 `json:"margin_requirement"`
	IsActive          bool    `json:"is_active"`
}

// SymbolConfig is the static per-symbol limit record loaded at startup
type SymbolConfig struct {
	Symbol        string  `json:"symbol"`
	MinQuantity   float64 `json:"min_quantity"`
	MaxQuantity   float64 `json:"max_quantity"`
	TickSize      float64 `json:"tick_size"`
	MarginRate    float64 `json:"margin_rate"`
	IsTradeable   bool    `json:"is_tradeable"`
	MaxOrderValue float64 `json:"max_order_value"`
}

// Validator checks orders against the static user and symbol
// configuration. Configs are loaded once at startup and mutable
// afterwards only through the explicit update operations.
type Validator struct {
	logger *zap.Logger

	mu      sync.Mutex
	users   map[string]UserConfig
	symbols map[string]SymbolConfig
}

// NewValidator creates a validator with empty configuration maps
func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{
		logger:  logger,
		users:   make(map[string]UserConfig),
		symbols: make(map[string]SymbolConfig),
	}
}

// Initialize loads both configuration documents. Any load failure is a
// fatal startup error for the caller.
func (v *Validator) Initialize(userConfigFile, symbolConfigFile string) error {
	if err := v.LoadUserConfigs(userConfigFile); err != nil {
		return err
	}
	if err := v.LoadSymbolConfigs(symbolConfigFile); err != nil {
		return err
	}

	v.mu.Lock()
	users, symbols := len(v.users), len(v.symbols)
	v.mu.Unlock()

	v.logger.Info("risk validator initialized",
		zap.Int("users", users),
		zap.Int("symbols", symbols),
	)
	return nil
}

// ValidateOrder checks one order against its user and symbol
// configuration. Returns the rejection reason and false on the first
// violated rule.
func (v *Validator) ValidateOrder(req order.OrderRequest) (string, bool) {
	if reason, ok := validateOrderParameters(req); !ok {
		return reason, false
	}

	user, ok := v.User(req.UserID)
	if !ok {
		return "User not found or not configured", false
	}
	if reason, ok := validateUserLimits(req, user); !ok {
		return reason, false
	}

	sym, ok := v.Symbol(req.Symbol)
	if !ok {
		return "Symbol not found or not configured", false
	}
	if reason, ok := validateSymbolLimits(req, sym); !ok {
		return reason, false
	}

	return "", true
}

// User resolves a user config, falling back to the DEFAULT entry
func (v *Validator) User(userID string) (UserConfig, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if u, ok := v.users[userID]; ok {
		return u, true
	}
	u, ok := v.users[DefaultClientID]
	return u, ok
}

// Symbol resolves a symbol config, falling back to the DEFAULT entry
func (v *Validator) Symbol(symbol string) (SymbolConfig, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.symbols[symbol]; ok {
		return s, true
	}
	s, ok := v.symbols[DefaultClientID]
	return s, ok
}

// UpdateUserConfig replaces a user's configuration record
func (v *Validator) UpdateUserConfig(userID string, cfg UserConfig) {
	v.mu.Lock()
	v.users[userID] = cfg
	v.mu.Unlock()
	v.logger.Info("updated user config", zap.String("user_id", userID))
}

// UpdateSymbolConfig replaces a symbol's configuration record
func (v *Validator) UpdateSymbolConfig(symbol string, cfg SymbolConfig) {
	v.mu.Lock()
	v.symbols[symbol] = cfg
	v.mu.Unlock()
	v.logger.Info("updated symbol config", zap.String("symbol", symbol))
}

func validateOrderParameters(req order.OrderRequest) (string, bool) {
	if req.OrderID == "" {
		return "Order ID cannot be empty", false
	}
	if req.Symbol == "" {
		return "Symbol cannot be empty", false
	}
	if req.Quantity <= 0 {
		return "Quantity must be positive", false
	}
	if req.Type != order.TypeMarket && req.Price <= 0 {
		return "Non-market orders must have positive price", false
	}
	if (req.Type == order.TypeStop || req.Type == order.TypeStopLimit) && req.StopPrice <= 0 {
		return "Stop orders must have positive stop price", false
	}
	return "", true
}

func validateUserLimits(req order.OrderRequest, user UserConfig) (string, bool) {
	if !user.IsActive {
		return "User account is inactive", false
	}

	orderValue := notionalValue(req)
	if orderValue > user.MaxPositionSize {
		return "Order value exceeds maximum position size limit", false
	}
	if req.Quantity > user.MaxDailyVolume {
		return "Order quantity exceeds daily volume limit", false
	}

	requiredMargin := orderValue * user.MarginRequirement
	if requiredMargin > user.AvailableBalance {
		return "Insufficient margin/balance for order", false
	}

	return "", true
}

func validateSymbolLimits(req order.OrderRequest, sym SymbolConfig) (string, bool) {
	if !sym.IsTradeable {
		return "Symbol is not tradeable", false
	}
	if req.Quantity < sym.MinQuantity {
		return "Order quantity below minimum allowed", false
	}
	if req.Quantity > sym.MaxQuantity {
		return "Order quantity exceeds maximum allowed", false
	}
	if notionalValue(req) > sym.MaxOrderValue {
		return "Order value exceeds maximum allowed for symbol", false
	}

	if req.Type == order.TypeLimit && sym.TickSize > 0 {
		if remainder := math.Mod(req.Price, sym.TickSize); remainder > tickEpsilon {
			return "Order price does not conform to tick size", false
		}
	}

	return "", true
}

// notionalValue prices market orders at unit value since no price is known
func notionalValue(req order.OrderRequest) float64 {
	if req.Type == order.TypeMarket {
		return req.Quantity
	}
	return req.Quantity * req.Price
}
