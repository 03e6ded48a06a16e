package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"100", 10000},
		{"100.00", 10000},
		{"99.5", 9950},
		{"99.50", 9950},
		{"0.01", 1},
		{"0", 0},
		{"19.99", 1999},
		{"19.994", 1999}, // third digit below 5 rounds down
		{"19.995", 2000}, // half rounds up
		{"19.999", 2000},
		{".50", 50},
		{"7.", 700},
	}
	for _, tc := range cases {
		cents, err := ParseAmount(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.cents, cents, "input %q", tc.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", " ", "-5", "+5", "abc", "1.2.3", "12a", "1,50", "."} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestParseAmount_OverflowRejected(t *testing.T) {
	for _, in := range []string{
		strings.Repeat("9", 30),
		"92233720368547759", // one unit past the cents-safe range
		"99999999999999999.99",
	} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "200.00", FormatCents(20000))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "1.50", FormatCents(150))
	assert.Equal(t, "-3.25", FormatCents(-325))
}

func TestMoneyArithmetic(t *testing.T) {
	nightly := NewMoney(10000, "USD")
	stay := nightly.MulNights(2)
	assert.Equal(t, int64(20000), stay.Cents)
	assert.Equal(t, "USD", stay.Currency)
	assert.Equal(t, "200.00", stay.Amount())

	total := stay.Add(NewMoney(2500, "USD"))
	assert.Equal(t, int64(22500), total.Cents)

	assert.True(t, Money{}.IsZero())
	assert.False(t, nightly.IsZero())
}
