package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("POSTGRES_URL", "postgres://localhost/storefront")
		t.Setenv("PORT", "")
		t.Setenv("KAFKA_BROKERS", "")
		t.Setenv("SEED_CATALOG", "")
		t.Setenv("EXPOSE_ERROR_DETAILS", "")
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		t.Setenv("TRACE_SAMPLE_RATIO", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "5000", cfg.Port)
		assert.Equal(t, "storefront", cfg.DBSchema)
		assert.Equal(t, "order.placed", cfg.OrderTopic)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.True(t, cfg.SeedCatalog)
		assert.False(t, cfg.ExposeErrorDetails)
		assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, 1.0, cfg.TraceSampleRatio)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("POSTGRES_URL", "postgres://localhost/storefront")
		t.Setenv("PORT", "9000")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("SEED_CATALOG", "false")
		t.Setenv("EXPOSE_ERROR_DETAILS", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.False(t, cfg.SeedCatalog)
		assert.True(t, cfg.ExposeErrorDetails)
	})

	t.Run("invalid booleans fall back to defaults", func(t *testing.T) {
		t.Setenv("POSTGRES_URL", "postgres://localhost/storefront")
		t.Setenv("SEED_CATALOG", "maybe")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.SeedCatalog)
	})

	t.Run("clamps the trace sample ratio", func(t *testing.T) {
		t.Setenv("POSTGRES_URL", "postgres://localhost/storefront")

		for value, want := range map[string]float64{
			"0.25": 0.25,
			"7":    1,
			"-1":   0,
			"NaN":  1,
			"half": 1,
		} {
			t.Setenv("TRACE_SAMPLE_RATIO", value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, want, cfg.TraceSampleRatio, value)
		}
	})

	t.Run("requires postgres url", func(t *testing.T) {
		t.Setenv("POSTGRES_URL", "")

		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingPostgresURL)
	})
}

func TestLoadWorker(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "localhost:9092")
		t.Setenv("EMAIL_SERVICE_URL", "http://localhost:8084")
		t.Setenv("ORDER_TOPIC", "")
		t.Setenv("CONSUMER_GROUP", "")

		cfg, err := LoadWorker()
		require.NoError(t, err)

		assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, "order.placed", cfg.OrderTopic)
		assert.Equal(t, "receipt-notifier", cfg.ConsumerGroup)
		assert.Equal(t, "http://localhost:8084", cfg.EmailServiceURL)
	})

	t.Run("requires brokers", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", " , ")
		t.Setenv("EMAIL_SERVICE_URL", "http://localhost:8084")

		_, err := LoadWorker()
		assert.ErrorIs(t, err, ErrMissingKafkaBrokers)
	})

	t.Run("requires mailer url", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "localhost:9092")
		t.Setenv("EMAIL_SERVICE_URL", "")

		_, err := LoadWorker()
		assert.ErrorIs(t, err, ErrMissingEmailServiceURL)
	})
}
