package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestPlainStylesPassThrough(t *testing.T) {
	s := NewPlainStyles(&bytes.Buffer{})

	assert.Equal(t, "Total balance:", s.Keyword("Total balance:"))
	assert.Equal(t, "(12ms)", s.Dim("(12ms)"))
	assert.Equal(t, "slow", s.Warning("slow"))
}

func TestMoneyFixedPoint(t *testing.T) {
	s := NewPlainStyles(&bytes.Buffer{})

	assert.Equal(t, "-200.00", s.Money(decimal.NewFromInt(-200)))
	assert.Equal(t, "12.50", s.Money(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0.00", s.Money(decimal.Zero))
}
