package router

import (
	"context"

	"go.uber.org/zap"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/msg"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
)

// Publisher is the outbound feed capability. msg.Producer satisfies it;
// tests substitute fakes.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, v any) error
}

// SecurityExchange stamped on outbound orders
const securityExchange = "FOREX"

// OrderRouter adapts messages and publishes them to the outbound feeds.
// Both operations are thin: adapt, stamp routing fields, publish. They
// report transport failure as false with no retry; the caller decides
// how to react.
type OrderRouter struct {
	pub     Publisher
	adapter *order.Adapter
	logger  *zap.Logger

	senderCompID    string
	destination     string
	destinationUser string
}

// New creates a router publishing under the given routing identity
func New(pub Publisher, adapter *order.Adapter, senderCompID, destination, destinationUser string, logger *zap.Logger) *OrderRouter {
	return &OrderRouter{
		pub:             pub,
		adapter:         adapter,
		logger:          logger,
		senderCompID:    senderCompID,
		destination:     destination,
		destinationUser: destinationUser,
	}
}

// Adapter returns the message adapter the router publishes through
func (r *OrderRouter) Adapter() *order.Adapter {
	return r.adapter
}

// RouteToMatchingEngine converts the order and publishes it to the
// matching-engine feed
func (r *OrderRouter) RouteToMatchingEngine(ctx context.Context, req order.OrderRequest) bool {
	nos, err := r.adapter.ToNewOrderSingle(req)
	if err != nil {
		r.logger.Error("order adaptation failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
		return false
	}

	nos.Source = r.senderCompID
	nos.SourceUser = r.senderCompID
	nos.Destination = r.destination
	nos.DestinationUser = r.destinationUser
	nos.SecurityExchange = securityExchange

	if err := r.pub.Publish(ctx, msg.TopicMatchingOrders, nos.ClOrdID, nos); err != nil {
		r.logger.Error("failed to publish order to matching engine",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
		return false
	}

	r.logger.Info("order published to matching engine",
		zap.String("order_id", req.OrderID),
		zap.String("symbol", req.Symbol),
		zap.Int64("msg_seq_num", nos.Header.MsgSeqNum),
	)
	return true
}

// SendOrderResponse publishes a terminal or intermediate order
// notification to the client response feed
func (r *OrderRouter) SendOrderResponse(ctx context.Context, resp order.OrderResponse) bool {
	if err := r.pub.Publish(ctx, msg.TopicOrderResponses, resp.OrderID, resp); err != nil {
		r.logger.Error("failed to publish order response",
			zap.String("order_id", resp.OrderID),
			zap.String("status", string(resp.Status)),
			zap.Error(err),
		)
		return false
	}
	return true
}

// PublishResponseReport publishes a projected execution report to the
// client response feed
func (r *OrderRouter) PublishResponseReport(ctx context.Context, rep order.ResponseReport) bool {
	if err := r.pub.Publish(ctx, msg.TopicOrderResponses, rep.OrderID, rep); err != nil {
		r.logger.Error("failed to publish response report",
			zap.String("order_id", rep.OrderID),
			zap.String("exec_id", rep.ExecID),
			zap.Error(err),
		)
		return false
	}

	r.logger.Info("response report published",
		zap.String("order_id", rep.OrderID),
		zap.String("exec_id", rep.ExecID),
	)
	return true
}
