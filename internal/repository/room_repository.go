package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/westbethel/motel-booking/internal/model"
)

// RoomRepo provides read-only access to room types and rooms.  Inventory
// is owned by an external administration surface; this engine only
// consults it during availability search and allocation.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomTypeColumns = `id, property_id, code, name, description, capacity, amenities, base_rate_cents, base_rate_currency`

func scanRoomType(scan func(dest ...any) error) (*model.RoomType, error) {
	var rt model.RoomType
	var rateCents sql.NullInt64
	var rateCurrency sql.NullString
	if err := scan(
		&rt.ID, &rt.PropertyID, &rt.Code, &rt.Name, &rt.Description,
		&rt.Capacity, &rt.Amenities, &rateCents, &rateCurrency,
	); err != nil {
		return nil, err
	}
	if rateCents.Valid {
		rt.BaseRate = &model.Money{Cents: rateCents.Int64, Currency: rateCurrency.String}
	}
	return &rt, nil
}

// RoomTypeByID returns a room type by id, or ErrRoomTypeNotFound.
func (r *RoomRepo) RoomTypeByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	rt, err := scanRoomType(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// RoomTypesByProperty returns all room types for a property ordered by
// code for deterministic output.
func (r *RoomRepo) RoomTypesByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE property_id = ? ORDER BY code`
	return r.queryRoomTypes(ctx, q, propertyID)
}

// RoomTypesByCodes returns the room types of a property matching the
// given codes.  Codes with no match are silently absent from the result;
// callers decide whether an empty result is an error.
func (r *RoomRepo) RoomTypesByCodes(ctx context.Context, propertyID uint64, codes []string) ([]model.RoomType, error) {
	if len(codes) == 0 {
		return []model.RoomType{}, nil
	}
	placeholders := make([]string, 0, len(codes))
	args := make([]interface{}, 0, len(codes)+1)
	args = append(args, propertyID)
	for _, c := range codes {
		placeholders = append(placeholders, "?")
		args = append(args, c)
	}
	q := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE property_id = ? AND code IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY code`
	return r.queryRoomTypes(ctx, q, args...)
}

func (r *RoomRepo) queryRoomTypes(ctx context.Context, q string, args ...interface{}) ([]model.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]model.RoomType, 0)
	for rows.Next() {
		rt, err := scanRoomType(rows.Scan)
		if err != nil {
			return nil, err
		}
		types = append(types, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

const roomColumns = `id, property_id, room_type_id, room_number, floor, status`

// AvailableRoomsByType returns the AVAILABLE rooms of a room type,
// ordered ascending by id.  The ordering is what makes allocation
// deterministic and reproducible across retries.
func (r *RoomRepo) AvailableRoomsByType(ctx context.Context, propertyID, roomTypeID uint64) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms
			   WHERE property_id = ? AND room_type_id = ? AND status = ?
			   ORDER BY id`
	return queryRooms(ctx, r.db, q, propertyID, roomTypeID, model.RoomStatusAvailable)
}

// AvailableRoomsByTypeTx is AvailableRoomsByType executed inside an
// existing transaction with FOR UPDATE, so concurrent allocators for the
// same inventory serialize on the candidate rows.
func (r *RoomRepo) AvailableRoomsByTypeTx(ctx context.Context, tx *sql.Tx, propertyID, roomTypeID uint64) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms
			   WHERE property_id = ? AND room_type_id = ? AND status = ?
			   ORDER BY id
			   FOR UPDATE`
	return queryRooms(ctx, tx, q, propertyID, roomTypeID, model.RoomStatusAvailable)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryRooms(ctx context.Context, q querier, query string, args ...interface{}) ([]model.Room, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.PropertyID, &rm.RoomTypeID, &rm.RoomNumber, &rm.Floor, &rm.Status); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
