package model

import "time"

// Booking statuses.  Transitions are validated centrally through
// CanTransitionBooking; callers never flip the field ad hoc.
const (
	BookingStatusHold       = "HOLD"
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
	BookingStatusCancelled  = "CANCELLED"
	BookingStatusNoShow     = "NO_SHOW"
)

// Payment statuses tracked on the booking, mirroring the settlement
// lifecycle of its invoice.
const (
	PaymentStatusInitiated  = "INITIATED"
	PaymentStatusAuthorized = "AUTHORIZED"
	PaymentStatusCaptured   = "CAPTURED"
	PaymentStatusRefunded   = "REFUNDED"
	PaymentStatusVoided     = "VOIDED"
	PaymentStatusFailed     = "FAILED"
)

// ActiveBookingStatuses are the statuses that occupy rooms.  Bookings in
// any other status are invisible to overlap detection and allocation.
var ActiveBookingStatuses = []string{
	BookingStatusHold,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
}

// bookingTransitions is the single source of truth for the booking state
// machine.  Terminal states have no outgoing edges.
var bookingTransitions = map[string][]string{
	BookingStatusHold:      {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCheckedOut, BookingStatusCancelled, BookingStatusNoShow},
}

// CanTransitionBooking reports whether a booking may move from one
// status to another.
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookingStatusTerminal reports whether a status has no outgoing
// transitions.
func BookingStatusTerminal(status string) bool {
	return len(bookingTransitions[status]) == 0
}

// paymentTransitions validates the payment-status lifecycle carried on
// the booking and on individual payment rows.
var paymentTransitions = map[string][]string{
	PaymentStatusInitiated:  {PaymentStatusAuthorized, PaymentStatusFailed},
	PaymentStatusAuthorized: {PaymentStatusCaptured, PaymentStatusVoided, PaymentStatusFailed},
	PaymentStatusCaptured:   {PaymentStatusRefunded},
}

// CanTransitionPayment reports whether a payment may move from one
// status to another.
func CanTransitionPayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking is a confirmed (or in-flight) stay.  It is created at
// reservation time, mutated by amend/cancel/check-in/check-out and never
// deleted; cancellation is terminal but the row is retained.
//
// Version is an optimistic concurrency token: every mutation increments
// it, and repositories refuse a write whose expected version no longer
// matches the stored one.
type Booking struct {
	ID            uint64    // bookings.id
	PropertyID    uint64    // bookings.property_id
	Reference     string    // bookings.reference (unique human-readable)
	GuestID       uint64    // bookings.guest_id
	Status        string    // bookings.status
	PaymentStatus string    // bookings.payment_status
	Channel       string    // bookings.channel
	Source        string    // bookings.source
	CheckIn       time.Time // bookings.check_in (date, UTC midnight)
	CheckOut      time.Time // bookings.check_out (date, UTC midnight)
	Adults        uint32    // bookings.adults
	Children      uint32    // bookings.children
	RatePlanID    uint64    // bookings.rate_plan_id
	RoomIDs       []uint64  // booking_rooms.room_id (allocated set)
	AddOnIDs      []uint64  // booking_addons.addon_id
	Total         Money     // bookings.total_cents / total_currency
	BalanceDue    Money     // bookings.balance_due_cents (same currency as Total)
	Version       uint64    // bookings.version (optimistic concurrency token)
	CreatedAt     time.Time // bookings.created_at
	UpdatedAt     time.Time // bookings.updated_at
}

// Nights returns the number of nights in the stay.
func (b *Booking) Nights() int64 {
	return int64(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Overlaps applies the half-open interval intersection test against
// another date range: two stays share a night exactly when
// checkIn < otherEnd and checkOut > otherStart.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.CheckIn.Before(end) && b.CheckOut.After(start)
}
