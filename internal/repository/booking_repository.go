package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/westbethel/motel-booking/internal/model"
)

// BookingRepo provides persistence for bookings, their allocated room
// set and the per-room/per-night occupancy ledger.  The ledger carries a
// UNIQUE(room_id, night) constraint: it is the database-level guard that
// makes the overlap-check-then-allocate sequence safe against concurrent
// creates racing for the same inventory.  A duplicate-key violation on
// it surfaces as ErrRoomUnavailable so callers can simply retry.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so the booking engine can open the
// transaction spanning overlap query, allocation and persist.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const dateLayout = "2006-01-02"

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062), which on booking_room_nights means another transaction
// took a room-night first.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// BookedRoomIDs returns the union of room ids held by bookings of the
// property whose status is active (HOLD, CONFIRMED, CHECKED_IN) and
// whose stay intersects [start, end) under the half-open overlap test.
// Used by the availability engine outside any transaction.
func (r *BookingRepo) BookedRoomIDs(ctx context.Context, propertyID uint64, start, end time.Time) (map[uint64]struct{}, error) {
	return bookedRoomIDs(ctx, r.db, propertyID, start, end, 0, false)
}

// BookedRoomIDsTx is BookedRoomIDs inside an existing transaction with
// FOR UPDATE, locking the matching allocation rows for the duration of
// an allocation.  When excludeBookingID is non-zero that booking's own
// rooms are left out of the union; amend uses this to vacate its own
// allocation before re-checking.
func (r *BookingRepo) BookedRoomIDsTx(ctx context.Context, tx *sql.Tx, propertyID uint64, start, end time.Time, excludeBookingID uint64) (map[uint64]struct{}, error) {
	return bookedRoomIDs(ctx, tx, propertyID, start, end, excludeBookingID, true)
}

func bookedRoomIDs(ctx context.Context, q querier, propertyID uint64, start, end time.Time, excludeBookingID uint64, forUpdate bool) (map[uint64]struct{}, error) {
	statuses := make([]string, 0, len(model.ActiveBookingStatuses))
	args := []interface{}{propertyID}
	for _, s := range model.ActiveBookingStatuses {
		statuses = append(statuses, "?")
		args = append(args, s)
	}
	query := `SELECT DISTINCT br.room_id
			  FROM bookings b
			  JOIN booking_rooms br ON br.booking_id = b.id
			  WHERE b.property_id = ?
				AND b.status IN (` + strings.Join(statuses, ",") + `)
				AND b.check_in < ? AND b.check_out > ?`
	args = append(args, end.Format(dateLayout), start.Format(dateLayout))
	if excludeBookingID != 0 {
		query += ` AND b.id <> ?`
		args = append(args, excludeBookingID)
	}
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	booked := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booked, nil
}

// CreateTx inserts a booking with its room set, add-ons and night
// ledger inside the provided transaction.  It populates the generated
// ID and timestamps on the passed booking.  A concurrent allocation of
// any of the same room-nights returns ErrRoomUnavailable; the caller
// rolls back and nothing is persisted.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
			   (property_id, reference, guest_id, status, payment_status, channel, source,
				check_in, check_out, adults, children, rate_plan_id,
				total_cents, total_currency, balance_due_cents, version)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.PropertyID, b.Reference, b.GuestID, b.Status, b.PaymentStatus, b.Channel, b.Source,
		b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), b.Adults, b.Children, b.RatePlanID,
		b.Total.Cents, b.Total.Currency, b.BalanceDue.Cents, b.Version,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := r.insertRoomsTx(ctx, tx, b.ID, b.RoomIDs); err != nil {
		return err
	}
	if err := r.insertAddOnsTx(ctx, tx, b.ID, b.AddOnIDs); err != nil {
		return err
	}
	if err := r.InsertNightsTx(ctx, tx, b.ID, b.RoomIDs, b.CheckIn, b.CheckOut); err != nil {
		return err
	}
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepo) insertRoomsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, roomIDs []uint64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_rooms (booking_id, room_id) VALUES `
	args := make([]interface{}, 0, len(roomIDs)*2)
	for i, id := range roomIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (r *BookingRepo) insertAddOnsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, addOnIDs []uint64) error {
	if len(addOnIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_addons (booking_id, addon_id) VALUES `
	args := make([]interface{}, 0, len(addOnIDs)*2)
	for i, id := range addOnIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// InsertNightsTx writes one ledger row per allocated room per night of
// the stay.  The UNIQUE(room_id, night) key turns a lost race into
// ErrRoomUnavailable instead of a silent double booking.
func (r *BookingRepo) InsertNightsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, roomIDs []uint64, checkIn, checkOut time.Time) error {
	if len(roomIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_room_nights (booking_id, room_id, night) VALUES `
	args := make([]interface{}, 0)
	first := true
	for _, roomID := range roomIDs {
		for night := checkIn; night.Before(checkOut); night = night.AddDate(0, 0, 1) {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?)"
			args = append(args, bookingID, roomID, night.Format(dateLayout))
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrRoomUnavailable
		}
		return err
	}
	return nil
}

// DeleteNightsTx removes every ledger row of a booking, freeing its
// room-nights.  Called on cancel and on check-out.
func (r *BookingRepo) DeleteNightsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM booking_room_nights WHERE booking_id = ?`, bookingID)
	return err
}

const bookingColumns = `id, property_id, reference, guest_id, status, payment_status, channel, source,
						check_in, check_out, adults, children, rate_plan_id,
						total_cents, total_currency, balance_due_cents, version, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	if err := scan(
		&b.ID, &b.PropertyID, &b.Reference, &b.GuestID, &b.Status, &b.PaymentStatus, &b.Channel, &b.Source,
		&b.CheckIn, &b.CheckOut, &b.Adults, &b.Children, &b.RatePlanID,
		&b.Total.Cents, &b.Total.Currency, &b.BalanceDue.Cents, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.BalanceDue.Currency = b.Total.Currency
	return &b, nil
}

// GetByReference returns the booking with the given unique reference,
// including its room and add-on sets, or ErrBookingNotFound.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = ?`
	row := r.db.QueryRowContext(ctx, q, reference)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.RoomIDs, err = r.roomIDs(ctx, b.ID); err != nil {
		return nil, err
	}
	if b.AddOnIDs, err = r.addOnIDs(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByReferenceTx is GetByReference inside a transaction with FOR
// UPDATE on the booking row, serializing concurrent mutations of the
// same booking.
func (r *BookingRepo) GetByReferenceTx(ctx context.Context, tx *sql.Tx, reference string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, reference)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.RoomIDs, err = r.roomIDsTx(ctx, tx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByIDTx returns a booking by id inside a transaction with FOR
// UPDATE on its row.  Settlement uses it to mirror payment-status
// changes onto the booking.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, id)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

func (r *BookingRepo) roomIDs(ctx context.Context, bookingID uint64) ([]uint64, error) {
	return queryIDs(ctx, r.db, `SELECT room_id FROM booking_rooms WHERE booking_id = ? ORDER BY room_id`, bookingID)
}

func (r *BookingRepo) roomIDsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]uint64, error) {
	return queryIDs(ctx, tx, `SELECT room_id FROM booking_rooms WHERE booking_id = ? ORDER BY room_id`, bookingID)
}

func (r *BookingRepo) addOnIDs(ctx context.Context, bookingID uint64) ([]uint64, error) {
	return queryIDs(ctx, r.db, `SELECT addon_id FROM booking_addons WHERE booking_id = ? ORDER BY addon_id`, bookingID)
}

func queryIDs(ctx context.Context, q querier, query string, args ...interface{}) ([]uint64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateStatusTx performs the optimistic-concurrency status update:
// the write succeeds only when the stored version still equals
// expectedVersion, and increments the version as it does.  Zero rows
// affected means another writer got there first → ErrVersionConflict.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID, expectedVersion uint64, status, paymentStatus string) error {
	const q = `UPDATE bookings
			   SET status = ?, payment_status = ?, version = version + 1
			   WHERE id = ? AND version = ?`
	result, err := tx.ExecContext(ctx, q, status, paymentStatus, bookingID, expectedVersion)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// UpdatePaymentStatusTx is the CAS update for the payment status alone.
func (r *BookingRepo) UpdatePaymentStatusTx(ctx context.Context, tx *sql.Tx, bookingID, expectedVersion uint64, paymentStatus string) error {
	const q = `UPDATE bookings
			   SET payment_status = ?, version = version + 1
			   WHERE id = ? AND version = ?`
	result, err := tx.ExecContext(ctx, q, paymentStatus, bookingID, expectedVersion)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// AmendTx rewrites the mutable stay parameters of a booking under the
// version CAS and replaces its room set, add-ons and night ledger.  The
// caller must have already vacated and re-allocated rooms within the
// same transaction.
func (r *BookingRepo) AmendTx(ctx context.Context, tx *sql.Tx, b *model.Booking, expectedVersion uint64) error {
	const q = `UPDATE bookings
			   SET guest_id = ?, status = ?, check_in = ?, check_out = ?, adults = ?, children = ?,
				   rate_plan_id = ?, total_cents = ?, total_currency = ?, balance_due_cents = ?,
				   version = version + 1
			   WHERE id = ? AND version = ?`
	result, err := tx.ExecContext(ctx, q,
		b.GuestID, b.Status, b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout),
		b.Adults, b.Children, b.RatePlanID,
		b.Total.Cents, b.Total.Currency, b.BalanceDue.Cents,
		b.ID, expectedVersion,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	b.Version = expectedVersion + 1
	if err := r.DeleteNightsTx(ctx, tx, b.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_rooms WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_addons WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	if err := r.insertRoomsTx(ctx, tx, b.ID, b.RoomIDs); err != nil {
		return err
	}
	if err := r.insertAddOnsTx(ctx, tx, b.ID, b.AddOnIDs); err != nil {
		return err
	}
	return r.InsertNightsTx(ctx, tx, b.ID, b.RoomIDs, b.CheckIn, b.CheckOut)
}
