package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/app"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/audit"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/chaos"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/config"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/logging"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/msg"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/observability"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/risk"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/router"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig("oms")

	// Initialize logger
	logger, err := logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting order management service",
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("kafka_brokers", cfg.KafkaBrokers),
		zap.String("data_dir", cfg.DataDir),
		zap.String("user_config", cfg.UserConfigFile),
		zap.String("symbol_config", cfg.SymbolConfigFile),
	)

	// Create data directory
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}

	// Load risk configuration; a malformed document means the service
	// does not begin accepting orders
	validator := risk.NewValidator(logger)
	if err := validator.Initialize(cfg.UserConfigFile, cfg.SymbolConfigFile); err != nil {
		logger.Fatal("failed to initialize risk validator", zap.Error(err))
	}

	engine := risk.NewEngine(logger).WithValidator(validator)

	// Open audit store for intake dedup
	dbPath := filepath.Join(cfg.DataDir, "orders.db")
	store, err := audit.Open(dbPath)
	if err != nil {
		logger.Fatal("failed to open audit store", zap.Error(err))
	}
	defer store.Close()

	logger.Info("audit store opened", zap.String("path", dbPath))

	// Create health checker
	healthChecker := observability.NewHealthChecker(logger)
	healthChecker.SetRiskLoaded(true)

	// Create Kafka producer for the outbound feeds
	brokers := msg.ParseBrokers(cfg.KafkaBrokers)
	producer, err := msg.NewProducer(brokers, cfg.ServiceName, logger)
	if err != nil {
		logger.Fatal("failed to create kafka producer", zap.Error(err))
	}
	defer producer.Close()

	// Optional publish-path fault injection
	var pub router.Publisher = producer
	chaosCfg := chaos.LoadConfig()
	if chaosCfg.Enabled {
		logger.Warn("chaos fault injection enabled",
			zap.Int("drop_pct", chaosCfg.DropPct),
			zap.String("profile", chaosCfg.Profile),
		)
		pub = chaos.WrapPublisher(producer, chaos.New(chaosCfg, logger))
	}

	// Wire the pipeline
	seq := order.NewSequencer(order.DefaultSeqStart)
	adapter := order.NewAdapter(seq, cfg.SenderCompID, cfg.TargetCompID, logger)
	rt := router.New(pub, adapter, cfg.SenderCompID, cfg.TargetCompID, cfg.DataService, logger)
	application := app.New(engine, rt, store, cfg.ComposerIdle, logger)
	if err := application.Initialize(); err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	application.Start()

	// Create Kafka consumers for the two inbound feeds
	orderConsumer, err := msg.NewConsumer(brokers, "oms-orders-v1", []string{msg.TopicOrderRequests}, logger)
	if err != nil {
		logger.Fatal("failed to create order consumer", zap.Error(err))
	}
	defer orderConsumer.Close()

	reportConsumer, err := msg.NewConsumer(brokers, "oms-exec-reports-v1", []string{msg.TopicExecutionReports}, logger)
	if err != nil {
		logger.Fatal("failed to create execution report consumer", zap.Error(err))
	}
	defer reportConsumer.Close()

	// Create gRPC server
	grpcServer := grpc.NewServer()
	healthChecker.RegisterGRPC(grpcServer)

	// Start gRPC server
	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		logger.Fatal("failed to listen on gRPC port", zap.Error(err))
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			grpcErrCh <- err
		}
	}()

	// Start HTTP health server
	httpErrCh := make(chan error, 1)
	go func() {
		if err := healthChecker.StartHTTPServer(cfg.HTTPAddr()); err != nil && err != http.ErrServerClosed {
			httpErrCh <- err
		}
	}()

	// Start consumers
	consumerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orderErrCh := make(chan error, 1)
	go func() {
		err := orderConsumer.Run(consumerCtx, func(ctx context.Context, rec msg.Record) error {
			var req order.OrderRequest
			if err := json.Unmarshal(rec.Value, &req); err != nil {
				return fmt.Errorf("failed to unmarshal order request: %w", err)
			}
			application.OnOrderRequest(req)
			return nil
		})
		if err != nil {
			orderErrCh <- err
		}
	}()

	reportErrCh := make(chan error, 1)
	go func() {
		err := reportConsumer.Run(consumerCtx, func(ctx context.Context, rec msg.Record) error {
			var rep order.ExecutionReport
			if err := json.Unmarshal(rec.Value, &rep); err != nil {
				return fmt.Errorf("failed to unmarshal execution report: %w", err)
			}
			application.OnExecutionReport(rep)
			return nil
		})
		if err != nil {
			reportErrCh <- err
		}
	}()

	// Wait for consumers to start
	time.Sleep(1 * time.Second)
	if orderConsumer.IsRunning() && reportConsumer.IsRunning() {
		healthChecker.SetFeedsReady(true)
	} else {
		logger.Warn("feed consumers not running yet")
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-grpcErrCh:
		logger.Error("gRPC server error", zap.Error(err))
	case err := <-httpErrCh:
		logger.Error("HTTP server error", zap.Error(err))
	case err := <-orderErrCh:
		logger.Error("order consumer error", zap.Error(err))
	case err := <-reportErrCh:
		logger.Error("execution report consumer error", zap.Error(err))
	}

	// Graceful shutdown: stop intake first, drain workers, then release
	// collaborators
	logger.Info("shutting down gracefully...")

	cancel()
	orderConsumer.Close()
	reportConsumer.Close()
	application.Stop()
	producer.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := healthChecker.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down health checker", zap.Error(err))
	}

	grpcServer.GracefulStop()

	logger.Info("order management service stopped")
}
