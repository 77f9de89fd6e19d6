package config

import (
	"errors"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	PostgresURL        string
	DBSchema           string
	KafkaBrokers       []string
	OrderTopic         string
	OTLPEndpoint       string
	TracingEnabled     bool
	SeedCatalog        bool
	ExposeErrorDetails bool
	CORSAllowedOrigins []string
	Environment        string
	TraceSampleRatio   float64
}

// Worker configures the receipt notification worker.
type Worker struct {
	KafkaBrokers     []string
	OrderTopic       string
	ConsumerGroup    string
	EmailServiceURL  string
	OTLPEndpoint     string
	TracingEnabled   bool
	Environment      string
	TraceSampleRatio float64
}

var (
	ErrMissingPostgresURL     = errors.New("POSTGRES_URL environment variable is required")
	ErrMissingKafkaBrokers    = errors.New("KAFKA_BROKERS environment variable is required")
	ErrMissingEmailServiceURL = errors.New("EMAIL_SERVICE_URL environment variable is required")
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		PostgresURL:        os.Getenv("POSTGRES_URL"),
		DBSchema:           getEnv("DB_SCHEMA", "storefront"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:         getEnv("ORDER_TOPIC", "order.placed"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled:     getBool("TRACING_ENABLED", true),
		SeedCatalog:        getBool("SEED_CATALOG", true),
		ExposeErrorDetails: getBool("EXPOSE_ERROR_DETAILS", false),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Environment:        getEnv("ENVIRONMENT", "development"),
		TraceSampleRatio:   getRatio("TRACE_SAMPLE_RATIO", 1),
	}

	if cfg.PostgresURL == "" {
		return nil, ErrMissingPostgresURL
	}

	return cfg, nil
}

// LoadWorker reads the worker settings. Brokers and the mailer URL are
// required.
func LoadWorker() (*Worker, error) {
	_ = godotenv.Load()

	cfg := &Worker{
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:       getEnv("ORDER_TOPIC", "order.placed"),
		ConsumerGroup:    getEnv("CONSUMER_GROUP", "receipt-notifier"),
		EmailServiceURL:  os.Getenv("EMAIL_SERVICE_URL"),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled:   getBool("TRACING_ENABLED", true),
		Environment:      getEnv("ENVIRONMENT", "development"),
		TraceSampleRatio: getRatio("TRACE_SAMPLE_RATIO", 1),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, ErrMissingKafkaBrokers
	}
	if cfg.EmailServiceURL == "" {
		return nil, ErrMissingEmailServiceURL
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getRatio parses a float and clamps it to [0, 1]. Unparseable values fall
// back to defaultValue.
func getRatio(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return defaultValue
	}
	return math.Max(0, math.Min(1, f))
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
