package availability

import (
	"context"
	"errors"
	"time"

	"github.com/westbethel/motel-booking/internal/model"
)

var (
	// ErrInvalidRange is returned when the end date is not strictly after
	// the start date.
	ErrInvalidRange = errors.New("availability: end must be after start")
	// ErrNoMatchingRoomTypes is returned when the requested room-type
	// filter matches nothing at the property.
	ErrNoMatchingRoomTypes = errors.New("availability: no matching room types")
)

// Query describes one availability search.  Start and End are UTC
// midnight dates forming a half-open range: the guest occupies the
// nights [Start, End) and End itself is the departure date.
type Query struct {
	PropertyID    uint64
	Start         time.Time
	End           time.Time
	Adults        uint32
	Children      uint32
	RoomTypeCodes []string
}

// NightlyRate is the price of one night for a room type.
type NightlyRate struct {
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// RoomTypeAvailability reports how many rooms of one type are free over
// the whole range, with the per-night rates.
type RoomTypeAvailability struct {
	Code           string        `json:"code"`
	Name           string        `json:"name"`
	AvailableRooms int           `json:"available_rooms"`
	NightlyRates   []NightlyRate `json:"nightly_rates"`
}

// Result is the response of a search.
type Result struct {
	PropertyID uint64                 `json:"property_id"`
	Start      string                 `json:"start"`
	End        string                 `json:"end"`
	RoomTypes  []RoomTypeAvailability `json:"room_types"`
}

// PropertyStore resolves properties.
type PropertyStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
}

// RoomStore lists room types and their physical rooms.
type RoomStore interface {
	RoomTypesByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error)
	RoomTypesByCodes(ctx context.Context, propertyID uint64, codes []string) ([]model.RoomType, error)
	AvailableRoomsByType(ctx context.Context, propertyID, roomTypeID uint64) ([]model.Room, error)
}

// OccupancyStore yields the union of room ids held by active bookings
// intersecting a date range.
type OccupancyStore interface {
	BookedRoomIDs(ctx context.Context, propertyID uint64, start, end time.Time) (map[uint64]struct{}, error)
}

// Engine answers availability searches.  A room counts as available for
// a range when its status is AVAILABLE and no active booking holds it
// for any night of the range.  Results are served from the Redis cache
// when one is configured; every booking mutation bumps the property's
// cache version so a committed change is never shadowed by a stale
// entry.
type Engine struct {
	properties PropertyStore
	rooms      RoomStore
	occupancy  OccupancyStore
	cache      *Cache
}

// NewEngine builds an availability engine.  cache may be nil, in which
// case every search hits the database.
func NewEngine(properties PropertyStore, rooms RoomStore, occupancy OccupancyStore, cache *Cache) *Engine {
	return &Engine{properties: properties, rooms: rooms, occupancy: occupancy, cache: cache}
}

const dateLayout = "2006-01-02"

// Search computes availability and nightly rates for every matching
// room type over the half-open range [Start, End).
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	if !q.End.After(q.Start) {
		return nil, ErrInvalidRange
	}
	var cacheKey string
	if e.cache != nil {
		cached, key, ok := e.cache.Get(ctx, q)
		if ok {
			return cached, nil
		}
		cacheKey = key
	}
	property, err := e.properties.GetByID(ctx, q.PropertyID)
	if err != nil {
		return nil, err
	}
	var roomTypes []model.RoomType
	if len(q.RoomTypeCodes) > 0 {
		roomTypes, err = e.rooms.RoomTypesByCodes(ctx, property.ID, q.RoomTypeCodes)
	} else {
		roomTypes, err = e.rooms.RoomTypesByProperty(ctx, property.ID)
	}
	if err != nil {
		return nil, err
	}
	if len(roomTypes) == 0 {
		return nil, ErrNoMatchingRoomTypes
	}
	booked, err := e.occupancy.BookedRoomIDs(ctx, property.ID, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	result := &Result{
		PropertyID: property.ID,
		Start:      q.Start.Format(dateLayout),
		End:        q.End.Format(dateLayout),
		RoomTypes:  make([]RoomTypeAvailability, 0, len(roomTypes)),
	}
	for i := range roomTypes {
		rt := &roomTypes[i]
		rooms, err := e.rooms.AvailableRoomsByType(ctx, property.ID, rt.ID)
		if err != nil {
			return nil, err
		}
		free := 0
		for _, room := range rooms {
			if _, taken := booked[room.ID]; !taken {
				free++
			}
		}
		result.RoomTypes = append(result.RoomTypes, RoomTypeAvailability{
			Code:           rt.Code,
			Name:           rt.Name,
			AvailableRooms: free,
			NightlyRates:   nightlyRates(rt, property, q.Start, q.End),
		})
	}
	if e.cache != nil {
		e.cache.Set(ctx, cacheKey, result)
	}
	return result, nil
}

// nightlyRates emits one entry per night of the stay.  The rate is the
// room type's base rate; a type without one prices at zero.  Currency
// falls back to the property default when the rate carries none.
func nightlyRates(rt *model.RoomType, property *model.Property, start, end time.Time) []NightlyRate {
	var amount model.Money
	if rt.BaseRate != nil {
		amount = *rt.BaseRate
	}
	if amount.Currency == "" {
		amount.Currency = property.Currency
	}
	rates := make([]NightlyRate, 0)
	for night := start; night.Before(end); night = night.AddDate(0, 0, 1) {
		rates = append(rates, NightlyRate{
			Date:     night.Format(dateLayout),
			Amount:   amount.Amount(),
			Currency: amount.Currency,
		})
	}
	return rates
}
