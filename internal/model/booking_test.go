package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{BookingStatusHold, BookingStatusConfirmed},
		{BookingStatusHold, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusCheckedIn},
		{BookingStatusConfirmed, BookingStatusCancelled},
		{BookingStatusCheckedIn, BookingStatusCheckedOut},
		{BookingStatusCheckedIn, BookingStatusCancelled},
		{BookingStatusCheckedIn, BookingStatusNoShow},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionBooking(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to string }{
		{BookingStatusHold, BookingStatusCheckedIn},
		{BookingStatusConfirmed, BookingStatusCheckedOut},
		{BookingStatusConfirmed, BookingStatusNoShow},
		{BookingStatusCheckedOut, BookingStatusCheckedIn},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusNoShow, BookingStatusCheckedIn},
		{BookingStatusCheckedOut, BookingStatusCancelled},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransitionBooking(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	for _, s := range []string{BookingStatusCheckedOut, BookingStatusCancelled, BookingStatusNoShow} {
		assert.True(t, BookingStatusTerminal(s), s)
	}
	for _, s := range []string{BookingStatusHold, BookingStatusConfirmed, BookingStatusCheckedIn} {
		assert.False(t, BookingStatusTerminal(s), s)
	}
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentStatusInitiated, PaymentStatusAuthorized))
	assert.True(t, CanTransitionPayment(PaymentStatusInitiated, PaymentStatusFailed))
	assert.True(t, CanTransitionPayment(PaymentStatusAuthorized, PaymentStatusCaptured))
	assert.True(t, CanTransitionPayment(PaymentStatusAuthorized, PaymentStatusVoided))
	assert.True(t, CanTransitionPayment(PaymentStatusCaptured, PaymentStatusRefunded))

	assert.False(t, CanTransitionPayment(PaymentStatusInitiated, PaymentStatusCaptured))
	assert.False(t, CanTransitionPayment(PaymentStatusCaptured, PaymentStatusVoided))
	assert.False(t, CanTransitionPayment(PaymentStatusRefunded, PaymentStatusCaptured))
	assert.False(t, CanTransitionPayment(PaymentStatusVoided, PaymentStatusCaptured))
	assert.False(t, CanTransitionPayment(PaymentStatusFailed, PaymentStatusAuthorized))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingOverlaps(t *testing.T) {
	b := &Booking{CheckIn: date(2026, 9, 10), CheckOut: date(2026, 9, 13)}

	// shared nights
	assert.True(t, b.Overlaps(date(2026, 9, 12), date(2026, 9, 14)))
	assert.True(t, b.Overlaps(date(2026, 9, 9), date(2026, 9, 11)))
	assert.True(t, b.Overlaps(date(2026, 9, 11), date(2026, 9, 12)))
	assert.True(t, b.Overlaps(date(2026, 9, 1), date(2026, 9, 30)))

	// back-to-back stays share no night under the half-open test
	assert.False(t, b.Overlaps(date(2026, 9, 13), date(2026, 9, 15)))
	assert.False(t, b.Overlaps(date(2026, 9, 8), date(2026, 9, 10)))
}

func TestBookingNights(t *testing.T) {
	b := &Booking{CheckIn: date(2026, 9, 10), CheckOut: date(2026, 9, 13)}
	assert.Equal(t, int64(3), b.Nights())

	oneNight := &Booking{CheckIn: date(2026, 9, 10), CheckOut: date(2026, 9, 11)}
	assert.Equal(t, int64(1), oneNight.Nights())
}
