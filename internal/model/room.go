package model

// Room statuses.  Only AVAILABLE rooms participate in allocation; the
// other states are owned by inventory administration and never mutated
// here.
const (
	RoomStatusAvailable    = "AVAILABLE"
	RoomStatusOutOfService = "OUT_OF_SERVICE"
	RoomStatusCleaning     = "CLEANING"
)

// RoomType groups physically interchangeable rooms and carries their
// base nightly rate.  A nil base rate falls back to the rate plan's
// default rate in pricing and to a zero amount in availability.
//
// Fields:
//  ID          – primary key identifier.
//  PropertyID  – owning property.
//  Code        – short code unique within the property (e.g. "QUEEN").
//  Name        – display name.
//  Description – marketing description.
//  Capacity    – maximum guests per room.
//  Amenities   – comma-separated amenity codes.
//  BaseRate    – nightly base rate; nil when the type has no own rate.
type RoomType struct {
	ID          uint64 // room_types.id
	PropertyID  uint64 // room_types.property_id
	Code        string // room_types.code
	Name        string // room_types.name
	Description string // room_types.description
	Capacity    uint32 // room_types.capacity
	Amenities   string // room_types.amenities
	BaseRate    *Money // room_types.base_rate_cents / base_rate_currency (nullable)
}

// Room is a physical, allocatable unit.  Consulted, never mutated, by
// this engine.
//
// Fields:
//  ID         – primary key identifier.
//  PropertyID – owning property.
//  RoomTypeID – the room's type.
//  RoomNumber – door number, e.g. "104".
//  Floor      – floor number.
//  Status     – AVAILABLE, OUT_OF_SERVICE or CLEANING.
type Room struct {
	ID         uint64 // rooms.id
	PropertyID uint64 // rooms.property_id
	RoomTypeID uint64 // rooms.room_type_id
	RoomNumber string // rooms.room_number
	Floor      int32  // rooms.floor
	Status     string // rooms.status
}
