package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "redis", cfg.CartStore)
	assert.Equal(t, 30*time.Minute, cfg.DeliveryWindow)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "200", cfg.Fee().String())
	assert.Empty(t, cfg.Brokers())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CART_STORE", "mongo")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DELIVERY_FEE", "150.50")
	t.Setenv("CORS_ORIGINS", "https://a.test,https://b.test")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Origins())
	assert.Equal(t, "150.5", cfg.Fee().String())
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":  {"JWT_SECRET": ""},
		"bad cart store":  {"CART_STORE": "sqlite"},
		"negative fee":    {"DELIVERY_FEE": "-1"},
		"fee not numeric": {"DELIVERY_FEE": "two hundred"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", "test")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud", "test")
	assert.Error(t, err)
}
