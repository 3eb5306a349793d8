package risk

// DefaultClientID is the reserved fallback limits entry. It exists at all
// times; lookups for unknown clients resolve to it.
const DefaultClientID = "DEFAULT"

// Limits is the per-client risk limit configuration
type Limits struct {
	MaxPositionSize       float64 `json:"max_position_size"`
	MaxDailyVolume        float64 `json:"max_daily_volume"`
	MarginRequirementRate float64 `json:"margin_requirement_rate"`
	MaxOrderValue         float64 `json:"max_order_value"`
	DailyLossLimit        float64 `json:"daily_loss_limit"`
	AllowHedging          bool    `json:"allow_hedging"`
}

// DefaultLimits are the limits applied to clients without an explicit entry
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize:       1_000_000,  // 1M units max position
		MaxDailyVolume:        5_000_000,  // 5M notional daily volume
		MarginRequirementRate: 0.02,       // 2% margin
		MaxOrderValue:         100_000,    // $100k max single order
		DailyLossLimit:        50_000,     // $50k daily loss limit
		AllowHedging:          true,
	}
}

// Decision is the outcome of a single risk evaluation. Produced fresh per
// evaluation, never persisted.
type Decision struct {
	Accepted         bool    `json:"accepted"`
	Reason           string  `json:"reason"`
	CalculatedMargin float64 `json:"calculated_margin"`
	PositionImpact   float64 `json:"position_impact"`
}

func reject(reason string, margin, impact float64) Decision {
	return Decision{Accepted: false, Reason: reason, CalculatedMargin: margin, PositionImpact: impact}
}
