package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Money is a monetary value carried as integer cents plus an ISO 4217
// currency code.  Keeping amounts in cents avoids floating point drift;
// rounding only ever happens when decimal text enters the system, and is
// always half-up to two decimals.
type Money struct {
	Cents    int64  // amount in minor units (cents)
	Currency string // ISO currency code, e.g. "USD"
}

// ErrInvalidAmount is returned by ParseAmount for text that is not a
// well-formed decimal amount.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// NewMoney builds a Money from cents and a currency code.
func NewMoney(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// ParseAmount converts decimal text such as "100", "99.5" or "19.995"
// into cents, rounding half-up at the second decimal place.  Negative
// amounts are rejected; monetary inputs to this system are always
// magnitudes.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	// units must stay well below MaxInt64/100 so the cents conversion
	// cannot wrap
	const maxUnits = (math.MaxInt64 - 99) / 100
	var units int64
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
		units = units*10 + int64(r-'0')
		if units > maxUnits {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	cents := units * 100
	// first two fractional digits are cents, the third decides rounding
	switch {
	case len(fracPart) == 0:
	case len(fracPart) == 1:
		cents += int64(fracPart[0]-'0') * 10
	default:
		cents += int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
		if len(fracPart) > 2 && fracPart[2] >= '5' {
			cents++
		}
	}
	return cents, nil
}

// Amount renders the value as a plain 2-decimal string, e.g. "200.00".
func (m Money) Amount() string {
	return FormatCents(m.Cents)
}

// FormatCents renders cents as a 2-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Add returns the sum of two amounts.  Both values must share a
// currency; mixed currencies are rejected upstream by the pricing
// engine, so Add keeps the receiver's currency.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}
}

// MulNights multiplies a nightly amount by a night count.
func (m Money) MulNights(nights int64) Money {
	return Money{Cents: m.Cents * nights, Currency: m.Currency}
}

// IsZero reports whether the amount is exactly zero cents.
func (m Money) IsZero() bool { return m.Cents == 0 }
