// Package repository defines sentinel errors reused across the data
// access layer.  Handlers and engines distinguish failure classes with
// errors.Is and translate them to HTTP or retry behavior: not-found
// errors are terminal, while ErrRoomUnavailable and ErrVersionConflict
// are safe to retry with fresh state because allocation is deterministic
// and all-or-nothing.
package repository

import "errors"

// ErrPropertyNotFound is returned when a property id or code resolves to
// no row.
var ErrPropertyNotFound = errors.New("property not found")

// ErrRoomTypeNotFound is returned when a room type id resolves to no row.
var ErrRoomTypeNotFound = errors.New("room type not found")

// ErrRoomTypeMismatch is returned when a room type exists but belongs to
// a different property than the one being booked.
var ErrRoomTypeMismatch = errors.New("room type does not belong to property")

// ErrRatePlanNotFound is returned when a rate plan does not exist for
// the requested property.
var ErrRatePlanNotFound = errors.New("rate plan not found for property")

// ErrGuestNotFound is returned when the guest directory has no row for
// the requested id.
var ErrGuestNotFound = errors.New("guest not found")

// ErrAddOnNotFound is returned when an add-on id resolves to no row for
// the property.
var ErrAddOnNotFound = errors.New("add-on not found")

// ErrBookingNotFound is returned when a booking id or reference resolves
// to no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrInvoiceNotFound is returned when an invoice id or booking id
// resolves to no row.
var ErrInvoiceNotFound = errors.New("invoice not found")

// ErrPaymentNotFound is returned when a payment id resolves to no row.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrRoomUnavailable is returned when allocation cannot find a free room
// of a requested type, or when the per-room/per-night uniqueness guard
// rejects an insert under concurrency.  Retryable.
var ErrRoomUnavailable = errors.New("no available rooms for room type")

// ErrVersionConflict is returned when an optimistic-concurrency update
// finds the booking version has moved since it was read.  Callers must
// reload and retry; lost updates are never silently applied.
var ErrVersionConflict = errors.New("booking version conflict")
