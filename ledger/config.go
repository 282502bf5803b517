package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the timestamp layout used in persisted rows and reports.
const TimeLayout = "02/01/2006 15:04:05"

// ShippingTariff is a two-tier flat shipping fee: Light applies up to and
// including Threshold units, Heavy above it.
type ShippingTariff struct {
	Threshold decimal.Decimal
	Light     decimal.Decimal
	Heavy     decimal.Decimal
}

// Config holds the tunables of a Warehouse.
type Config struct {
	Shipping ShippingTariff
	Now      func() time.Time
}

// NewConfig creates a Config with the default tariff (2 up to 50 units,
// 5 above) and the wall clock.
func NewConfig() *Config {
	return &Config{
		Shipping: ShippingTariff{
			Threshold: decimal.NewFromInt(50),
			Light:     decimal.NewFromInt(2),
			Heavy:     decimal.NewFromInt(5),
		},
		Now: time.Now,
	}
}

// Validate checks the tariff is usable.
func (c *Config) Validate() error {
	t := c.Shipping
	if t.Threshold.IsNegative() {
		return fmt.Errorf("shipping threshold must not be negative, got %s", t.Threshold)
	}
	if t.Light.IsNegative() || t.Heavy.IsNegative() {
		return fmt.Errorf("shipping fees must not be negative, got %s/%s", t.Light, t.Heavy)
	}
	if c.Now == nil {
		return fmt.Errorf("clock is required")
	}
	return nil
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
