package order

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Default sequence number for the first outbound message
const DefaultSeqStart = 1000

// Adapter translates between the internal order/report model and the
// FIX-flavored wire messages
type Adapter struct {
	seq    *Sequencer
	logger *zap.Logger

	senderCompID string
	targetCompID string

	// now is the wall clock, injectable for tests
	now func() time.Time
}

// NewAdapter creates an adapter publishing under the given comp IDs
func NewAdapter(seq *Sequencer, senderCompID, targetCompID string, logger *zap.Logger) *Adapter {
	return &Adapter{
		seq:          seq,
		logger:       logger,
		senderCompID: senderCompID,
		targetCompID: targetCompID,
		now:          time.Now,
	}
}

// WithClock overrides the adapter's wall clock. Test hook.
func (a *Adapter) WithClock(now func() time.Time) *Adapter {
	a.now = now
	return a
}

// sideToFIX maps an order side to its FIX char code. Total over the
// defined enum; an unmapped value is a programming error and maps to the
// invalid sentinel.
func (a *Adapter) sideToFIX(side Side) string {
	switch side {
	case SideBuy:
		return FIXSideBuy
	case SideSell:
		return FIXSideSell
	default:
		a.logger.Error("unknown order side", zap.String("side", string(side)))
		return FIXInvalid
	}
}

// typeToFIX maps an order type to its FIX char code
func (a *Adapter) typeToFIX(t OrdType) string {
	switch t {
	case TypeMarket:
		return FIXTypeMarket
	case TypeLimit:
		return FIXTypeLimit
	case TypeStop:
		return FIXTypeStop
	case TypeStopLimit:
		return FIXTypeStopLimit
	default:
		a.logger.Error("unknown order type", zap.String("type", string(t)))
		return FIXInvalid
	}
}

// ToNewOrderSingle converts an OrderRequest into an outbound
// NewOrderSingle, assigning the next sequence number and send time.
//
// It returns an error for a non-positive quantity or a non-market order
// with a non-positive price. An unmapped side or type does not error:
// the sentinel char is written and the message is returned as built so
// far, mirroring the inbound validation split (the risk engine rejects
// such orders before adaptation in the normal flow).
func (a *Adapter) ToNewOrderSingle(req OrderRequest) (NewOrderSingle, error) {
	msg := NewOrderSingle{
		Header: Header{
			BeginString:  "FIX.4.4",
			MsgType:      "D",
			SenderCompID: a.senderCompID,
			TargetCompID: a.targetCompID,
			MsgSeqNum:    a.seq.Next(),
			SendingTime:  a.nowMicros(),
		},
		ClOrdID: req.OrderID,
		Symbol:  req.Symbol,
	}

	side := a.sideToFIX(req.Side)
	if side == FIXInvalid {
		return msg, nil
	}
	msg.Side = side

	if req.Quantity <= 0 {
		return NewOrderSingle{}, fmt.Errorf("invalid quantity %v in order %s", req.Quantity, req.OrderID)
	}
	msg.OrderQty = req.Quantity

	if req.Type != TypeMarket && req.Price <= 0 {
		return NewOrderSingle{}, fmt.Errorf("invalid price %v for non-market order %s", req.Price, req.OrderID)
	}
	msg.Price = req.Price

	ordType := a.typeToFIX(req.Type)
	if ordType == FIXInvalid {
		return msg, nil
	}
	msg.OrdType = ordType

	// Preserve the client's transact time when present, otherwise stamp
	// conversion time. Microseconds since epoch.
	if req.TsUnixMicros > 0 {
		msg.TransactTime = req.TsUnixMicros
	} else {
		msg.TransactTime = a.nowMicros()
	}

	msg.TimeInForce = FIXTimeInForceDay
	msg.Text = "Order routed from OMS via OrderRouter"

	a.logger.Debug("converted order request to NewOrderSingle",
		zap.String("order_id", req.OrderID),
		zap.String("symbol", req.Symbol),
		zap.Int64("msg_seq_num", msg.Header.MsgSeqNum),
	)

	return msg, nil
}

// ToResponseReport projects an inbound ExecutionReport onto the outbound
// client-facing ResponseReport. Pure structural copy, no business
// validation; the transport header is rewritten for the return path and
// the send time reset.
func (a *Adapter) ToResponseReport(rep ExecutionReport) ResponseReport {
	return ResponseReport{
		Header: Header{
			BeginString:  "FIX.4.4",
			MsgType:      rep.Header.MsgType,
			TargetCompID: rep.Destination,
			SenderCompID: rep.DestinationUser,
			MsgSeqNum:    rep.Header.MsgSeqNum,
			SendingTime:  0,
		},

		OrderID:          rep.OrderID,
		OrigClOrdID:      rep.OrigClOrdID,
		ExecID:           rep.ExecID,
		ExecType:         rep.ExecType,
		OrdStatus:        rep.OrdStatus,
		Symbol:           rep.Symbol,
		SecurityExchange: rep.SecurityExchange,
		Side:             rep.Side,

		OrderQty:  rep.OrderQty,
		LastQty:   rep.LastQty,
		CumQty:    rep.CumQty,
		LeavesQty: rep.LeavesQty,

		Price:     rep.Price,
		LastPx:    rep.LastPx,
		AvgPx:     rep.AvgPx,
		StopPrice: rep.StopPrice,

		OrdType:      rep.OrdType,
		TimeInForce:  rep.TimeInForce,
		TransactTime: rep.TransactTime,
		OrdRejReason: rep.OrdRejReason,
		Text:         rep.Text,

		Source:          rep.Source,
		SourceUser:      rep.SourceUser,
		Destination:     rep.Destination,
		DestinationUser: rep.DestinationUser,
	}
}

func (a *Adapter) nowMicros() int64 {
	return a.now().UnixMicro()
}
