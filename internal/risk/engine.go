package risk

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
)

// Engine evaluates orders against per-client limits and per-symbol
// configuration and tracks rolling daily volume.
//
// The limits map and the daily-volume state are guarded by independent
// locks held only across map access, never across a full evaluation, so
// unrelated clients do not serialize. Neither lock is ever held while
// acquiring the other.
type Engine struct {
	logger *zap.Logger

	limitsMu sync.Mutex
	limits   map[string]Limits

	volumeMu     sync.Mutex
	dailyVolumes map[string]float64
	lastReset    map[string]time.Time

	// optional user/symbol configuration checks
	validator *Validator

	// now is the wall clock, injectable for tests
	now func() time.Time
}

// NewEngine creates an engine seeded with the DEFAULT limits entry
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		logger:       logger,
		limits:       map[string]Limits{DefaultClientID: DefaultLimits()},
		dailyVolumes: make(map[string]float64),
		lastReset:    make(map[string]time.Time),
		now:          time.Now,
	}
}

// WithValidator attaches user/symbol configuration validation to the
// evaluation sequence
func (e *Engine) WithValidator(v *Validator) *Engine {
	e.validator = v
	return e
}

// WithClock overrides the engine's wall clock. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Evaluate runs the full validation sequence for one order, short-
// circuiting on the first failure. On acceptance the order's notional
// value has been charged against the client's daily volume; re-evaluating
// the same order charges it again.
func (e *Engine) Evaluate(req order.OrderRequest) Decision {
	e.logger.Debug("evaluating risk", zap.String("order_id", req.OrderID))

	if !validOrderParameters(req) {
		return reject("Invalid order parameters", 0, 0)
	}

	if !validSymbolFormat(req.Symbol) {
		return reject("Invalid symbol format: "+req.Symbol, 0, 0)
	}

	if e.validator != nil {
		if reason, ok := e.validator.ValidateOrder(req); !ok {
			e.riskEvent(req, "CONFIG_REJECTED", reason)
			return reject(reason, 0, 0)
		}
	}

	limits := e.Limits(req.ClientID)

	if !e.ValidatePositionLimits(req.Symbol, req.Quantity) {
		e.riskEvent(req, "POSITION_LIMIT_EXCEEDED",
			fmt.Sprintf("requested %v max %v", req.Quantity, limits.MaxPositionSize))
		return reject("Position limit exceeded for "+req.Symbol, 0, req.Quantity)
	}

	orderValue := math.Abs(req.Quantity * req.Price)
	if orderValue > limits.MaxOrderValue {
		e.riskEvent(req, "ORDER_VALUE_EXCEEDED",
			fmt.Sprintf("value $%v max $%v", orderValue, limits.MaxOrderValue))
		return reject(fmt.Sprintf("Order value exceeds maximum allowed: $%v", limits.MaxOrderValue), 0, orderValue)
	}

	if !e.ValidateDailyVolume(req.ClientID, orderValue) {
		e.riskEvent(req, "DAILY_VOLUME_EXCEEDED", fmt.Sprintf("order value $%v", orderValue))
		return reject("Daily volume limit exceeded", 0, orderValue)
	}

	margin := e.CalculateMarginRequirement(req)

	if req.Type == order.TypeLimit && req.Price <= 0 {
		return reject("Invalid price for limit order", margin, req.Quantity)
	}

	if req.StopPrice > 0 {
		if (req.Side == order.SideBuy && req.StopPrice >= req.Price) ||
			(req.Side == order.SideSell && req.StopPrice <= req.Price) {
			return reject("Invalid stop price for order direction", margin, req.Quantity)
		}
	}

	e.logger.Info("risk approved",
		zap.String("order_id", req.OrderID),
		zap.String("symbol", req.Symbol),
		zap.Float64("quantity", req.Quantity),
		zap.Float64("margin", margin),
	)

	return Decision{Accepted: true, Reason: "Order approved", CalculatedMargin: margin, PositionImpact: req.Quantity}
}

// ValidatePositionLimits is a standalone quick check against the DEFAULT
// position limit, exposed for callers that do not need a full evaluation
func (e *Engine) ValidatePositionLimits(symbol string, quantity float64) bool {
	limits := e.Limits(DefaultClientID)
	return math.Abs(quantity) <= limits.MaxPositionSize
}

// CalculateMarginRequirement returns the margin to reserve for an order
func (e *Engine) CalculateMarginRequirement(req order.OrderRequest) float64 {
	limits := e.Limits(req.ClientID)
	positionValue := math.Abs(req.Quantity * req.Price)
	return positionValue * limits.MarginRequirementRate
}

// Limits resolves the limits for a client, falling back to DEFAULT
func (e *Engine) Limits(clientID string) Limits {
	e.limitsMu.Lock()
	defer e.limitsMu.Unlock()
	if l, ok := e.limits[clientID]; ok {
		return l
	}
	return e.limits[DefaultClientID]
}

// UpdateLimits replaces the limits entry for a client
func (e *Engine) UpdateLimits(clientID string, limits Limits) {
	e.limitsMu.Lock()
	e.limits[clientID] = limits
	e.limitsMu.Unlock()
	e.logger.Info("updated risk limits", zap.String("client_id", clientID))
}

// ValidateDailyVolume checks the order's value against the client's
// remaining daily volume and, when it fits, adds it to the running total.
// The counter resets lazily once 24 hours have elapsed since the last
// reset, or on first touch.
func (e *Engine) ValidateDailyVolume(clientID string, orderValue float64) bool {
	limits := e.Limits(clientID)

	e.volumeMu.Lock()
	defer e.volumeMu.Unlock()

	e.resetIfNewTradingDay(clientID)

	current := e.dailyVolumes[clientID]
	if current+orderValue > limits.MaxDailyVolume {
		return false
	}

	e.dailyVolumes[clientID] = current + orderValue
	return true
}

// DailyVolume returns the client's accumulated daily volume
func (e *Engine) DailyVolume(clientID string) float64 {
	e.volumeMu.Lock()
	defer e.volumeMu.Unlock()
	return e.dailyVolumes[clientID]
}

// ResetDailyCounters zeroes the client's daily volume. Test hook.
func (e *Engine) ResetDailyCounters(clientID string) {
	e.volumeMu.Lock()
	defer e.volumeMu.Unlock()
	e.dailyVolumes[clientID] = 0
	e.lastReset[clientID] = e.now()
}

// resetIfNewTradingDay must be called with volumeMu held
func (e *Engine) resetIfNewTradingDay(clientID string) {
	last, ok := e.lastReset[clientID]
	if ok && e.now().Sub(last) < 24*time.Hour {
		return
	}
	e.dailyVolumes[clientID] = 0
	e.lastReset[clientID] = e.now()
	e.logger.Debug("reset daily counters", zap.String("client_id", clientID))
}

func (e *Engine) riskEvent(req order.OrderRequest, event, detail string) {
	e.logger.Warn("risk event",
		zap.String("event", event),
		zap.String("client_id", req.ClientID),
		zap.String("symbol", req.Symbol),
		zap.String("order_id", req.OrderID),
		zap.String("detail", detail),
	)
}

func validOrderParameters(req order.OrderRequest) bool {
	return req.ClientID != "" && req.Symbol != "" && req.Quantity > 0 &&
		req.Side.Valid() && req.Type.Valid()
}

// validSymbolFormat accepts plausible trading-pair symbols (EURUSD,
// GBPJPY and the like) before any limit lookup
func validSymbolFormat(symbol string) bool {
	return len(symbol) >= 6 && len(symbol) <= 8
}
