package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, ":9090", cfg.MetricsAddr)
	require.Empty(t, cfg.DatabaseDSN)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, 3, cfg.RetryMaxAttempts)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ORDERS_HTTP_ADDR", ":18080")
	t.Setenv("ORDERS_KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("ORDERS_BREAKER_FAILURE_THRESHOLD", "7")
	t.Setenv("ORDERS_BREAKER_COOLDOWN", "45s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":18080", cfg.HTTPAddr)
	require.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 7, cfg.BreakerFailureThreshold)
	require.Equal(t, 45*time.Second, cfg.BreakerCoolDown)
}

func TestResilienceConfig(t *testing.T) {
	cfg := Config{
		RetryMaxAttempts:        4,
		RetryInitialDelay:       50 * time.Millisecond,
		CallTimeout:             2 * time.Second,
		BreakerFailureThreshold: 9,
		RateLimit:               100,
		RateLimitWindow:         time.Second,
	}

	rc := cfg.ResilienceConfig()
	require.Equal(t, 4, rc.MaxAttempts)
	require.Equal(t, 50*time.Millisecond, rc.InitialDelay)
	require.Equal(t, 2*time.Second, rc.CallTimeout)
	require.Equal(t, 9, rc.FailureThreshold)
	require.Equal(t, 100, rc.RateLimit)

	// незаданные поля остаются на дефолтах
	require.Equal(t, 30*time.Second, rc.CoolDown)
	require.Equal(t, 5*time.Second, rc.MaxDelay)
}
