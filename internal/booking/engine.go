package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/westbethel/motel-booking/internal/availability"
	"github.com/westbethel/motel-booking/internal/model"
	"github.com/westbethel/motel-booking/internal/pricing"
	"github.com/westbethel/motel-booking/internal/queue"
	"github.com/westbethel/motel-booking/internal/repository"
)

var (
	// ErrInvalidDateRange is returned when check-out is not strictly
	// after check-in.
	ErrInvalidDateRange = errors.New("booking: check-out must be after check-in")
	// ErrInvalidPartySize is returned when the party falls outside the
	// accepted bounds.
	ErrInvalidPartySize = errors.New("booking: party size out of bounds")
	// ErrInvalidRoomTypeSet is returned when the request names no room
	// types or more than the per-booking limit.
	ErrInvalidRoomTypeSet = errors.New("booking: invalid room type set")
	// ErrTooManyAddOns is returned when the request exceeds the add-on
	// limit.
	ErrTooManyAddOns = errors.New("booking: too many add-ons")
	// ErrStayTooLong is returned when the stay exceeds the configured
	// night limit.
	ErrStayTooLong = errors.New("booking: stay exceeds night limit")
	// ErrInvalidChannel is returned for an unknown sales channel.
	ErrInvalidChannel = errors.New("booking: invalid channel")
	// ErrForbiddenTransition is returned when the state machine rejects
	// the requested status change, including any mutation of a booking
	// already in a terminal state.
	ErrForbiddenTransition = errors.New("booking: transition not allowed")
)

// Party bounds.  Rooms sleep at most eight; larger groups book more
// rooms.
const (
	maxAdults   = 8
	maxChildren = 8
	maxAddOns   = 20
)

// Limits carries the configurable per-booking bounds.
type Limits struct {
	MaxRoomsPerBooking int
	MaxStayNights      int
}

// CreateRequest carries everything needed to confirm (or amend) a stay.
// RoomTypeIDs holds one entry per wanted room; the same type may repeat.
type CreateRequest struct {
	PropertyID  uint64
	GuestID     uint64
	RatePlanID  uint64
	Channel     string
	Source      string
	CheckIn     time.Time
	CheckOut    time.Time
	Adults      uint32
	Children    uint32
	RoomTypeIDs []uint64
	AddOnIDs    []uint64
}

// Confirmation is the outcome of a successful create or amend: the
// persisted booking and its invoice.
type Confirmation struct {
	Booking *model.Booking
	Invoice *model.Invoice
}

// PublishFunc delivers a confirmed-booking event to the broker.  The
// engine treats delivery as best effort: a failed publish is logged and
// never rolls back a committed booking.
type PublishFunc func(ctx context.Context, event queue.BookingConfirmedEvent) error

// Engine owns the booking lifecycle.  Allocation and persistence of a
// booking happen inside one database transaction: the overlap union is
// read FOR UPDATE, rooms are picked deterministically, and the night
// ledger's unique key rejects any concurrent claim on the same
// room-night.  Either everything commits or nothing does.
type Engine struct {
	limits     Limits
	properties *repository.PropertyRepo
	guests     *repository.GuestRepo
	rooms      *repository.RoomRepo
	bookings   *repository.BookingRepo
	invoices   *repository.InvoiceRepo
	pricer     *pricing.Engine
	cache      *availability.Cache
	publish    PublishFunc
}

// NewEngine builds a booking engine.  cache and publish may be nil.
func NewEngine(
	limits Limits,
	properties *repository.PropertyRepo,
	guests *repository.GuestRepo,
	rooms *repository.RoomRepo,
	bookings *repository.BookingRepo,
	invoices *repository.InvoiceRepo,
	pricer *pricing.Engine,
	cache *availability.Cache,
	publish PublishFunc,
) *Engine {
	if limits.MaxRoomsPerBooking <= 0 {
		limits.MaxRoomsPerBooking = 10
	}
	if limits.MaxStayNights <= 0 {
		limits.MaxStayNights = 30
	}
	return &Engine{
		limits:     limits,
		properties: properties,
		guests:     guests,
		rooms:      rooms,
		bookings:   bookings,
		invoices:   invoices,
		pricer:     pricer,
		cache:      cache,
		publish:    publish,
	}
}

func (e *Engine) validate(req CreateRequest) error {
	nights := int64(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
	if nights <= 0 {
		return ErrInvalidDateRange
	}
	if nights > int64(e.limits.MaxStayNights) {
		return ErrStayTooLong
	}
	if req.Adults < 1 || req.Adults > maxAdults || req.Children > maxChildren {
		return ErrInvalidPartySize
	}
	if len(req.RoomTypeIDs) < 1 || len(req.RoomTypeIDs) > e.limits.MaxRoomsPerBooking {
		return ErrInvalidRoomTypeSet
	}
	if len(req.AddOnIDs) > maxAddOns {
		return ErrTooManyAddOns
	}
	switch req.Channel {
	case model.ChannelDirect, model.ChannelOTA, model.ChannelWalkIn:
	default:
		return ErrInvalidChannel
	}
	return nil
}

// Create confirms a new stay.  Pricing runs before the allocation
// transaction; the transaction itself covers the overlap read, the room
// picks and every insert, so a lost race rolls the whole booking back.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*Confirmation, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}
	property, err := e.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if _, err := e.guests.GetByID(ctx, req.GuestID); err != nil {
		return nil, err
	}
	quote, err := e.pricer.Quote(ctx, pricing.Context{
		PropertyID:  req.PropertyID,
		RatePlanID:  req.RatePlanID,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Adults:      req.Adults,
		Children:    req.Children,
		GuestID:     req.GuestID,
		RoomTypeIDs: req.RoomTypeIDs,
		AddOnIDs:    req.AddOnIDs,
	})
	if err != nil {
		return nil, err
	}
	reference, err := newReference(property.Code)
	if err != nil {
		return nil, err
	}
	number, err := newInvoiceNumber()
	if err != nil {
		return nil, err
	}

	tx, err := e.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booked, err := e.bookings.BookedRoomIDsTx(ctx, tx, property.ID, req.CheckIn, req.CheckOut, 0)
	if err != nil {
		return nil, err
	}
	candidates, numbers, err := e.loadCandidates(ctx, tx, property.ID, req.RoomTypeIDs)
	if err != nil {
		return nil, err
	}
	roomIDs, err := allocate(req.RoomTypeIDs, candidates, booked)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		PropertyID:    property.ID,
		Reference:     reference,
		GuestID:       req.GuestID,
		Status:        model.BookingStatusConfirmed,
		PaymentStatus: model.PaymentStatusInitiated,
		Channel:       req.Channel,
		Source:        req.Source,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Adults:        req.Adults,
		Children:      req.Children,
		RatePlanID:    req.RatePlanID,
		RoomIDs:       roomIDs,
		AddOnIDs:      req.AddOnIDs,
		Total:         quote.Total,
		BalanceDue:    quote.Total,
	}
	if err := e.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, err
	}
	inv := invoiceFromQuote(b, number, quote)
	if err := e.invoices.CreateTx(ctx, tx, inv); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	e.cache.Invalidate(ctx, property.ID)
	e.publishConfirmed(ctx, b, property, numbers)
	return &Confirmation{Booking: b, Invoice: inv}, nil
}

// Amend re-runs the full allocation and pricing sequence for an existing
// booking under new parameters.  The booking's own rooms are excluded
// from the overlap union and its ledger rows are vacated before
// reinsertion, so shrinking, growing or moving the stay competes only
// against other bookings.  The invoice is reissued with the new totals
// while keeping already-captured amounts applied.  The version CAS
// rejects concurrent writers.
func (e *Engine) Amend(ctx context.Context, reference string, req CreateRequest) (*Confirmation, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}
	current, err := e.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if model.BookingStatusTerminal(current.Status) {
		return nil, ErrForbiddenTransition
	}
	if req.PropertyID != current.PropertyID {
		return nil, repository.ErrPropertyNotFound
	}
	property, err := e.properties.GetByID(ctx, current.PropertyID)
	if err != nil {
		return nil, err
	}
	if _, err := e.guests.GetByID(ctx, req.GuestID); err != nil {
		return nil, err
	}
	quote, err := e.pricer.Quote(ctx, pricing.Context{
		PropertyID:  current.PropertyID,
		RatePlanID:  req.RatePlanID,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Adults:      req.Adults,
		Children:    req.Children,
		GuestID:     req.GuestID,
		RoomTypeIDs: req.RoomTypeIDs,
		AddOnIDs:    req.AddOnIDs,
	})
	if err != nil {
		return nil, err
	}

	tx, err := e.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := e.bookings.GetByReferenceTx(ctx, tx, reference)
	if err != nil {
		return nil, err
	}
	if model.BookingStatusTerminal(b.Status) {
		return nil, ErrForbiddenTransition
	}
	booked, err := e.bookings.BookedRoomIDsTx(ctx, tx, b.PropertyID, req.CheckIn, req.CheckOut, b.ID)
	if err != nil {
		return nil, err
	}
	candidates, numbers, err := e.loadCandidates(ctx, tx, b.PropertyID, req.RoomTypeIDs)
	if err != nil {
		return nil, err
	}
	roomIDs, err := allocate(req.RoomTypeIDs, candidates, booked)
	if err != nil {
		return nil, err
	}

	inv, err := e.invoices.GetByBookingIDTx(ctx, tx, b.ID)
	if err != nil {
		return nil, err
	}
	inv.Reissue(quote.Base, quote.Tax, quote.Total)
	inv.LineItems = lineItemsFromQuote(inv.ID, quote)

	expectedVersion := b.Version
	b.GuestID = req.GuestID
	b.CheckIn = req.CheckIn
	b.CheckOut = req.CheckOut
	b.Adults = req.Adults
	b.Children = req.Children
	b.RatePlanID = req.RatePlanID
	b.RoomIDs = roomIDs
	b.AddOnIDs = req.AddOnIDs
	b.Total = quote.Total
	b.BalanceDue = *inv.BalanceDue
	if err := e.bookings.AmendTx(ctx, tx, b, expectedVersion); err != nil {
		return nil, err
	}
	if err := e.invoices.ReplaceTx(ctx, tx, inv, inv.Version); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	e.cache.Invalidate(ctx, b.PropertyID)
	e.publishConfirmed(ctx, b, property, numbers)
	return &Confirmation{Booking: b, Invoice: inv}, nil
}

// Cancel moves a booking to CANCELLED and frees its room-nights.
// Cancelling an already cancelled booking is a no-op returning the
// current state; any other terminal state is rejected.
func (e *Engine) Cancel(ctx context.Context, reference, reason, requestedBy string) (*model.Booking, error) {
	b, err := e.mutateStatus(ctx, reference, model.BookingStatusCancelled, true, func(current string) bool {
		return current == model.BookingStatusCancelled
	})
	if err != nil {
		return nil, err
	}
	log.Printf("booking cancelled: reference=%s reason=%q requested_by=%s", reference, reason, requestedBy)
	return b, nil
}

// CheckIn moves a CONFIRMED booking to CHECKED_IN.
func (e *Engine) CheckIn(ctx context.Context, reference string) (*model.Booking, error) {
	return e.mutateStatus(ctx, reference, model.BookingStatusCheckedIn, false, nil)
}

// CheckOut completes a CHECKED_IN stay and frees its room-nights.
func (e *Engine) CheckOut(ctx context.Context, reference string) (*model.Booking, error) {
	return e.mutateStatus(ctx, reference, model.BookingStatusCheckedOut, true, nil)
}

// MarkNoShow records a guest who checked in administratively but never
// occupied the room, freeing the room-nights.
func (e *Engine) MarkNoShow(ctx context.Context, reference string) (*model.Booking, error) {
	return e.mutateStatus(ctx, reference, model.BookingStatusNoShow, true, nil)
}

// GetByReference is the read side: the booking with its invoice.
func (e *Engine) GetByReference(ctx context.Context, reference string) (*Confirmation, error) {
	b, err := e.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	inv, err := e.invoices.GetByBookingID(ctx, b.ID)
	if err != nil && !errors.Is(err, repository.ErrInvoiceNotFound) {
		return nil, err
	}
	return &Confirmation{Booking: b, Invoice: inv}, nil
}

// mutateStatus applies one state-machine transition under the version
// CAS.  idempotentOn short-circuits transitions that should return the
// current state instead of failing.
func (e *Engine) mutateStatus(ctx context.Context, reference, to string, freeRooms bool, idempotentOn func(current string) bool) (*model.Booking, error) {
	tx, err := e.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := e.bookings.GetByReferenceTx(ctx, tx, reference)
	if err != nil {
		return nil, err
	}
	if idempotentOn != nil && idempotentOn(b.Status) {
		return b, nil
	}
	if !model.CanTransitionBooking(b.Status, to) {
		return nil, ErrForbiddenTransition
	}
	if err := e.bookings.UpdateStatusTx(ctx, tx, b.ID, b.Version, to, b.PaymentStatus); err != nil {
		return nil, err
	}
	if freeRooms {
		if err := e.bookings.DeleteNightsTx(ctx, tx, b.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	b.Status = to
	b.Version++
	e.cache.Invalidate(ctx, b.PropertyID)
	return b, nil
}

// loadCandidates reads, FOR UPDATE, the AVAILABLE rooms of every
// distinct requested type, ascending by id.  It also returns a room
// id → door number map for event payloads.
func (e *Engine) loadCandidates(ctx context.Context, tx *sql.Tx, propertyID uint64, typeIDs []uint64) (map[uint64][]model.Room, map[uint64]string, error) {
	candidates := make(map[uint64][]model.Room, len(typeIDs))
	numbers := make(map[uint64]string)
	for _, typeID := range typeIDs {
		if _, done := candidates[typeID]; done {
			continue
		}
		rooms, err := e.rooms.AvailableRoomsByTypeTx(ctx, tx, propertyID, typeID)
		if err != nil {
			return nil, nil, err
		}
		candidates[typeID] = rooms
		for _, room := range rooms {
			numbers[room.ID] = room.RoomNumber
		}
	}
	return candidates, numbers, nil
}

func invoiceFromQuote(b *model.Booking, number string, quote *pricing.Quote) *model.Invoice {
	due := quote.Total
	return &model.Invoice{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		Number:     number,
		Status:     model.InvoiceStatusIssued,
		SubTotal:   quote.Base,
		TaxTotal:   quote.Tax,
		GrandTotal: quote.Total,
		BalanceDue: &due,
		LineItems:  lineItemsFromQuote(0, quote),
	}
}

func lineItemsFromQuote(invoiceID uint64, quote *pricing.Quote) []model.InvoiceLineItem {
	items := make([]model.InvoiceLineItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		items = append(items, model.InvoiceLineItem{
			InvoiceID:   invoiceID,
			Description: line.Description,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			Total:       line.Total,
		})
	}
	return items
}

func (e *Engine) publishConfirmed(ctx context.Context, b *model.Booking, property *model.Property, numbers map[uint64]string) {
	if e.publish == nil {
		return
	}
	roomNumbers := make([]string, 0, len(b.RoomIDs))
	for _, id := range b.RoomIDs {
		roomNumbers = append(roomNumbers, numbers[id])
	}
	event := queue.BookingConfirmedEvent{
		BookingID:        b.ID,
		Reference:        b.Reference,
		PropertyID:       b.PropertyID,
		PropertyName:     property.Name,
		GuestID:          b.GuestID,
		CheckIn:          b.CheckIn.Format("2006-01-02"),
		CheckOut:         b.CheckOut.Format("2006-01-02"),
		RoomNumbers:      roomNumbers,
		TotalAmountCents: b.Total.Cents,
		Currency:         b.Total.Currency,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := e.publish(ctx, event); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
