package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds process configuration for the OMS services
type Config struct {
	// Service name
	ServiceName string

	// gRPC health server port
	GRPCPort int

	// HTTP health server port
	HTTPPort int

	// Log level: debug, info, warn, error
	LogLevel string

	// Kafka brokers (comma-separated)
	KafkaBrokers string

	// Local data directory (audit store)
	DataDir string

	// Risk configuration documents
	UserConfigFile   string
	SymbolConfigFile string

	// Composer worker idle interval when its queue is empty
	ComposerIdle time.Duration

	// FIX routing identity
	SenderCompID string
	TargetCompID string
	DataService  string
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig(serviceName string) *Config {
	cfg := &Config{
		ServiceName:      serviceName,
		GRPCPort:         getEnvAsInt("PORT_GRPC", 50051),
		HTTPPort:         getEnvAsInt("PORT_HTTP", 8080),
		LogLevel:         getEnvAsString("LOG_LEVEL", "info"),
		KafkaBrokers:     getEnvAsString("KAFKA_BROKERS", "127.0.0.1:9092"),
		DataDir:          getEnvAsString("DATA_DIR", "./data/"+serviceName),
		UserConfigFile:   getEnvAsString("USER_CONFIG_FILE", "config/users.json"),
		SymbolConfigFile: getEnvAsString("SYMBOL_CONFIG_FILE", "config/symbols.json"),
		ComposerIdle:     getEnvAsDuration("COMPOSER_IDLE", time.Millisecond),
		SenderCompID:     getEnvAsString("SENDER_COMP_ID", "OMS_ROUTER"),
		TargetCompID:     getEnvAsString("TARGET_COMP_ID", "MATCHING_ENGINE"),
		DataService:      getEnvAsString("DATA_SERVICE", "DATA_SERVICE_A"),
	}

	return cfg
}

// GRPCAddr returns the gRPC server address
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddr returns the HTTP server address
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
