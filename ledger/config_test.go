package ledger

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
	assertDecimal(t, "50", cfg.Shipping.Threshold)
	assertDecimal(t, "2", cfg.Shipping.Light)
	assertDecimal(t, "5", cfg.Shipping.Heavy)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NegativeThreshold", func(c *Config) { c.Shipping.Threshold = d("-1") }},
		{"NegativeFee", func(c *Config) { c.Shipping.Heavy = d("-5") }},
		{"NoClock", func(c *Config) { c.Now = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigContext(t *testing.T) {
	cfg := NewConfig()
	cfg.Shipping.Light = d("3")

	got := ConfigFromContext(cfg.WithContext(context.Background()))
	assert.True(t, got == cfg)

	fallback := ConfigFromContext(context.Background())
	assertDecimal(t, "2", fallback.Shipping.Light)
}
