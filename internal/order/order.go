package order

// Side is the direction of an order
type Side string

// Order sides
const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is one of the defined values
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrdType is the execution style of an order
type OrdType string

// Order types
const (
	TypeMarket    OrdType = "MARKET"
	TypeLimit     OrdType = "LIMIT"
	TypeStop      OrdType = "STOP"
	TypeStopLimit OrdType = "STOP_LIMIT"
)

// Valid reports whether the order type is one of the defined values
func (t OrdType) Valid() bool {
	switch t {
	case TypeMarket, TypeLimit, TypeStop, TypeStopLimit:
		return true
	}
	return false
}

// Status is the pipeline lifecycle state of an order.
// RECEIVED -> VALIDATING -> {REJECTED | ROUTED}; REJECTED and ROUTED are
// terminal for this tier. Fills and cancels arrive on the execution-report
// path and are not modeled as continuations of the same state.
type Status string

// Order statuses
const (
	StatusReceived   Status = "RECEIVED"
	StatusValidating Status = "VALIDATING"
	StatusRouted     Status = "ROUTED"
	StatusRejected   Status = "REJECTED"
)

// Terminal reports whether the status ends the pipeline's view of the order
func (s Status) Terminal() bool {
	return s == StatusRouted || s == StatusRejected
}

// OrderRequest is an inbound client order. Immutable once created;
// consumed exactly once by the pipeline.
type OrderRequest struct {
	OrderID      string  `json:"order_id"`
	ClientID     string  `json:"client_id"`
	UserID       string  `json:"user_id"`
	Symbol       string  `json:"symbol"`
	Side         Side    `json:"side"`
	Type         OrdType `json:"type"`
	Quantity     float64 `json:"quantity"`
	Price        float64 `json:"price"`
	StopPrice    float64 `json:"stop_price"`
	TsUnixMicros int64   `json:"ts_unix_micros"`
}

// OrderResponse is the pipeline's notification back to the client.
// Never mutated after construction.
type OrderResponse struct {
	OrderID      string `json:"order_id"`
	Status       Status `json:"status"`
	Message      string `json:"message"`
	TsUnixMillis int64  `json:"ts_unix_millis"`
}
