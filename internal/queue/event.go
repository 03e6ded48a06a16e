// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed (on create and on amend).  It carries enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	Reference        string   `json:"reference"`
	PropertyID       uint64   `json:"property_id"`
	PropertyName     string   `json:"property_name"`
	GuestID          uint64   `json:"guest_id"`
	CheckIn          string   `json:"check_in"`
	CheckOut         string   `json:"check_out"`
	RoomNumbers      []string `json:"rooms"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	Currency         string   `json:"currency"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
