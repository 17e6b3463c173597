package booking

import (
	"errors"
	"fmt"
	"math"
)

var ErrNegativeMoney = errors.New("money cannot be negative")

// Money is a USD amount in integer cents. Percentage applications round
// half away from zero at the point the derived amount is produced; sums
// of cent amounts are exact, so totals never accumulate float drift.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: cents}, nil
}

// MustMoney is for amounts already validated non-negative (snapshots,
// computed breakdowns).
func MustMoney(cents int64) Money {
	if cents < 0 {
		panic("MustMoney: negative amount")
	}
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Mul(n int) Money {
	return Money{cents: m.cents * int64(n)}
}

// Percent applies a fractional rate (0.15 == 15%) and rounds once.
func (m Money) Percent(rate float64) Money {
	return Money{cents: int64(math.Round(float64(m.cents) * rate))}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

// String formats to whole dollars and cents for display, matching the
// two-decimal formatting of persisted totals.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
