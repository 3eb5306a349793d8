package order

// FIX-flavored wire messages exchanged with the matching engine. Message
// kinds are fixed, so they are plain records composed by value: a shared
// header plus a typed body.

// Header is the transport header block common to all wire messages
type Header struct {
	BeginString  string `json:"begin_string"`
	MsgType      string `json:"msg_type"`
	SenderCompID string `json:"sender_comp_id"`
	TargetCompID string `json:"target_comp_id"`
	MsgSeqNum    int64  `json:"msg_seq_num"`
	SendingTime  int64  `json:"sending_time"`
}

// FIX char codes used on the wire. '0' is the sentinel for an unmapped
// enum value.
const (
	FIXSideBuy  = "1"
	FIXSideSell = "2"

	FIXTypeMarket    = "1"
	FIXTypeLimit     = "2"
	FIXTypeStop      = "3"
	FIXTypeStopLimit = "4"

	FIXTimeInForceDay = "0"

	FIXInvalid = "0"
)

// NewOrderSingle is the outbound order message (MsgType "D").
// Fully derived from an OrderRequest; immutable once built.
type NewOrderSingle struct {
	Header Header `json:"header"`

	ClOrdID      string  `json:"cl_ord_id"`
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	OrderQty     float64 `json:"order_qty"`
	Price        float64 `json:"price"`
	OrdType      string  `json:"ord_type"`
	TimeInForce  string  `json:"time_in_force"`
	TransactTime int64   `json:"transact_time"`
	Text         string  `json:"text"`

	// Routing fields stamped by the router before publish
	Source           string `json:"source"`
	SourceUser       string `json:"source_user"`
	Destination      string `json:"destination"`
	DestinationUser  string `json:"destination_user"`
	SecurityExchange string `json:"security_exchange"`
}

// ExecutionReport is the inbound counterparty execution report
type ExecutionReport struct {
	Header Header `json:"header"`

	OrderID          string `json:"order_id"`
	OrigClOrdID      string `json:"orig_cl_ord_id"`
	ExecID           string `json:"exec_id"`
	ExecType         string `json:"exec_type"`
	OrdStatus        string `json:"ord_status"`
	Symbol           string `json:"symbol"`
	SecurityExchange string `json:"security_exchange"`
	Side             string `json:"side"`

	OrderQty  float64 `json:"order_qty"`
	LastQty   float64 `json:"last_qty"`
	CumQty    float64 `json:"cum_qty"`
	LeavesQty float64 `json:"leaves_qty"`

	Price     float64 `json:"price"`
	LastPx    float64 `json:"last_px"`
	AvgPx     float64 `json:"avg_px"`
	StopPrice float64 `json:"stop_price"`

	OrdType      string `json:"ord_type"`
	TimeInForce  string `json:"time_in_force"`
	TransactTime int64  `json:"transact_time"`
	OrdRejReason string `json:"ord_rej_reason"`
	Text         string `json:"text"`

	Source          string `json:"source"`
	SourceUser      string `json:"source_user"`
	Destination     string `json:"destination"`
	DestinationUser string `json:"destination_user"`
}

// ResponseReport is the outbound client-facing projection of an
// ExecutionReport. Field-for-field copy with the transport header
// rewritten for the return path.
type ResponseReport struct {
	Header Header `json:"header"`

	OrderID          string `json:"order_id"`
	OrigClOrdID      string `json:"orig_cl_ord_id"`
	ExecID           string `json:"exec_id"`
	ExecType         string `json:"exec_type"`
	OrdStatus        string `json:"ord_status"`
	Symbol           string `json:"symbol"`
	SecurityExchange string `json:"security_exchange"`
	Side             string `json:"side"`

	OrderQty  float64 `json:"order_qty"`
	LastQty   float64 `json:"last_qty"`
	CumQty    float64 `json:"cum_qty"`
	LeavesQty float64 `json:"leaves_qty"`

	Price     float64 `json:"price"`
	LastPx    float64 `json:"last_px"`
	AvgPx     float64 `json:"avg_px"`
	StopPrice float64 `json:"stop_price"`

	OrdType      string `json:"ord_type"`
	TimeInForce  string `json:"time_in_force"`
	TransactTime int64  `json:"transact_time"`
	OrdRejReason string `json:"ord_rej_reason"`
	Text         string `json:"text"`

	Source          string `json:"source"`
	SourceUser      string `json:"source_user"`
	Destination     string `json:"destination"`
	DestinationUser string `json:"destination_user"`
}
