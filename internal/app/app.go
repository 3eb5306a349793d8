package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/audit"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/composer"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/risk"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/router"
)

// Response message for orders that cleared risk and reached the
// matching-engine feed
const msgRouted = "Order validated and routed to matching engine"

// Response message for orders that cleared risk but could not be
// published; intentionally distinct from risk rejection reasons
const msgRouteFailed = "Failed to route order to matching engine"

// Application wires the risk engine, adapter, composers, and router
// together and owns their lifecycle. It stops workers before releasing
// shared collaborators.
type Application struct {
	logger *zap.Logger
	engine *risk.Engine
	router *router.OrderRouter
	store  *audit.Store // optional intake dedup/audit

	idle    time.Duration
	orders  *composer.Composer[order.OrderRequest]
	reports *composer.Composer[order.ExecutionReport]

	initialized atomic.Bool
	running     atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an application. store may be nil to run without intake
// dedup.
func New(engine *risk.Engine, rt *router.OrderRouter, store *audit.Store, idle time.Duration, logger *zap.Logger) *Application {
	return &Application{
		logger: logger,
		engine: engine,
		router: rt,
		store:  store,
		idle:   idle,
	}
}

// Initialize verifies the wiring before any worker starts. Kept
// separate from New so the surrounding process constructs everything
// first and fails fast on a bad assembly.
func (a *Application) Initialize() error {
	if a.engine == nil {
		return errors.New("risk engine not configured")
	}
	if a.router == nil {
		return errors.New("order router not configured")
	}
	if a.idle <= 0 {
		return fmt.Errorf("invalid composer idle interval %v", a.idle)
	}

	a.initialized.Store(true)
	a.logger.Info("order management service initialized")
	return nil
}

// Start spins up one composer worker per inbound message kind. Ordering
// is total within a kind and unspecified across kinds.
func (a *Application) Start() {
	if !a.initialized.Load() {
		a.logger.Error("application not initialized")
		return
	}
	if !a.running.CompareAndSwap(false, true) {
		a.logger.Warn("application already running")
		return
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.orders = composer.New("order-requests", a.idle, a.logger, a.processOrder)
	a.reports = composer.New("execution-reports", a.idle, a.logger, a.processExecutionReport)

	a.logger.Info("order management service started")
}

// Stop joins both workers after their final drain, then cancels any
// in-flight publishes
func (a *Application) Stop() {
	if !a.running.CompareAndSwap(true, false) {
		a.logger.Warn("application not running")
		return
	}

	a.orders.Stop()
	a.reports.Stop()
	a.cancel()

	a.logger.Info("order management service stopped")
}

// OnOrderRequest is the inbound order feed entry point. It only
// enqueues; processing happens on the order composer's worker.
func (a *Application) OnOrderRequest(req order.OrderRequest) {
	a.logger.Debug("received order request",
		zap.String("order_id", req.OrderID),
		zap.String("symbol", req.Symbol),
	)
	a.orders.Enqueue(req)
}

// OnExecutionReport is the inbound execution-report feed entry point
func (a *Application) OnExecutionReport(rep order.ExecutionReport) {
	a.logger.Debug("received execution report",
		zap.String("order_id", rep.OrderID),
		zap.String("exec_id", rep.ExecID),
	)
	a.reports.Enqueue(rep)
}

// processOrder drives one order through RECEIVED -> VALIDATING ->
// {REJECTED | ROUTED} and emits the client response for the terminal
// state
func (a *Application) processOrder(req order.OrderRequest) {
	if a.seen(req.OrderID) {
		a.logger.Info("duplicate order skipped",
			zap.String("order_id", req.OrderID),
		)
		return
	}

	a.logger.Info("validating order",
		zap.String("order_id", req.OrderID),
		zap.String("client_id", req.ClientID),
		zap.String("symbol", req.Symbol),
	)

	decision := a.engine.Evaluate(req)
	if !decision.Accepted {
		a.logger.Info("order rejected",
			zap.String("order_id", req.OrderID),
			zap.String("reason", decision.Reason),
		)
		a.finish(req, order.StatusRejected, decision.Reason)
		return
	}

	if !a.router.RouteToMatchingEngine(a.ctx, req) {
		a.logger.Error("failed to route order to matching engine",
			zap.String("order_id", req.OrderID),
		)
		a.finish(req, order.StatusRejected, msgRouteFailed)
		return
	}

	a.logger.Info("order routed to matching engine",
		zap.String("order_id", req.OrderID),
	)
	a.finish(req, order.StatusRouted, msgRouted)
}

// processExecutionReport projects the counterparty report onto the
// client response feed
func (a *Application) processExecutionReport(rep order.ExecutionReport) {
	resp := a.router.Adapter().ToResponseReport(rep)

	if a.router.PublishResponseReport(a.ctx, resp) {
		a.logger.Info("response report published",
			zap.String("order_id", rep.OrderID),
		)
	} else {
		a.logger.Error("failed to publish response report",
			zap.String("order_id", rep.OrderID),
		)
	}
}

// finish sends the terminal response and records the outcome
func (a *Application) finish(req order.OrderRequest, status order.Status, message string) {
	resp := order.OrderResponse{
		OrderID:      req.OrderID,
		Status:       status,
		Message:      message,
		TsUnixMillis: time.Now().UnixMilli(),
	}

	if !a.router.SendOrderResponse(a.ctx, resp) {
		a.logger.Error("failed to send order response",
			zap.String("order_id", req.OrderID),
			zap.String("status", string(status)),
		)
	}

	if a.store != nil {
		if _, err := a.store.Record(a.ctx, req, status, message, resp.TsUnixMillis); err != nil {
			a.logger.Error("failed to record order outcome",
				zap.String("order_id", req.OrderID),
				zap.Error(err),
			)
		}
	}
}

// seen consults the audit store for a previously consumed order_id.
// Without a store every order is treated as new.
func (a *Application) seen(orderID string) bool {
	if a.store == nil {
		return false
	}

	seen, err := a.store.Seen(a.ctx, orderID)
	if err != nil {
		a.logger.Error("audit lookup failed, treating order as new",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return false
	}
	return seen
}
