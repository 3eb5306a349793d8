package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/logging"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/msg"
	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
)

var symbols = []string{"EURUSD", "GBPJPY", "USDCHF", "AUDNZD"}

func main() {
	var (
		count    = flag.Int("count", 10, "Number of orders to publish")
		seed     = flag.Int64("seed", 42, "Random seed for deterministic generation")
		brokers  = flag.String("brokers", "127.0.0.1:9092", "Kafka broker addresses")
		clientID = flag.String("client", "CLIENT_A", "Client identifier")
		userID   = flag.String("user", "USER_A", "User identifier")
		listen   = flag.Bool("listen", true, "Tail the response feed after publishing")
	)
	flag.Parse()

	logger, err := logging.NewLogger("order-client", "info")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	brokerList := msg.ParseBrokers(*brokers)
	logger.Info("starting order client",
		zap.Int("count", *count),
		zap.Int64("seed", *seed),
		zap.Strings("brokers", brokerList),
		zap.String("client_id", *clientID),
	)

	producer, err := msg.NewProducer(brokerList, "order-client", logger)
	if err != nil {
		logger.Fatal("failed to create producer", zap.Error(err))
	}
	defer producer.Close()

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	published := 0
	for i := 0; i < *count; i++ {
		symbol := symbols[rng.Intn(len(symbols))]
		side := order.SideBuy
		if rng.Intn(2) == 1 {
			side = order.SideSell
		}

		req := order.OrderRequest{
			OrderID:      uuid.New().String(),
			ClientID:     *clientID,
			UserID:       *userID,
			Symbol:       symbol,
			Side:         side,
			Type:         order.TypeLimit,
			Quantity:     float64(1000 * (1 + rng.Intn(10))),
			Price:        1.0 + rng.Float64()*0.5,
			TsUnixMicros: time.Now().UnixMicro(),
		}

		if err := producer.Publish(ctx, msg.TopicOrderRequests, req.OrderID, req); err != nil {
			logger.Error("failed to publish order request",
				zap.String("order_id", req.OrderID),
				zap.Error(err),
			)
			continue
		}

		published++
		logger.Info("published order request",
			zap.String("order_id", req.OrderID),
			zap.String("symbol", req.Symbol),
			zap.String("side", string(req.Side)),
			zap.Float64("quantity", req.Quantity),
			zap.Float64("price", req.Price),
		)
	}

	logger.Info("publishing complete",
		zap.Int("published", published),
		zap.Int("failed", *count-published),
	)

	if !*listen {
		return
	}

	// Tail the response feed until interrupted
	group := fmt.Sprintf("order-client-%s", uuid.New().String()[:8])
	consumer, err := msg.NewConsumer(brokerList, group, []string{msg.TopicOrderResponses}, logger)
	if err != nil {
		logger.Fatal("failed to create response consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	err = consumer.Run(consumerCtx, func(ctx context.Context, rec msg.Record) error {
		var resp order.OrderResponse
		if err := json.Unmarshal(rec.Value, &resp); err != nil {
			return fmt.Errorf("failed to unmarshal order response: %w", err)
		}

		logger.Info("order response",
			zap.String("order_id", resp.OrderID),
			zap.String("status", string(resp.Status)),
			zap.String("message", resp.Message),
		)
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Error("response consumer error", zap.Error(err))
	}
}
