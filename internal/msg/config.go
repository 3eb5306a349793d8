package msg

import (
	"os"
	"strings"
)

// Config holds Kafka configuration
type Config struct {
	Brokers  []string
	ClientID string
}

// Topic names for the four OMS feeds
const (
	// inbound feeds
	TopicOrderRequests    = "orders.requests"
	TopicExecutionReports = "execution.reports"

	// outbound feeds
	TopicMatchingOrders = "matching.engine.orders"
	TopicOrderResponses = "orders.responses"
)

// LoadConfig loads Kafka configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Brokers:  ParseBrokers(getEnvAsString("KAFKA_BROKERS", "127.0.0.1:9092")),
		ClientID: getEnvAsString("KAFKA_CLIENT_ID", "forex-oms"),
	}
}

// ParseBrokers splits a comma-separated broker list
func ParseBrokers(brokersStr string) []string {
	brokers := strings.Split(brokersStr, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
