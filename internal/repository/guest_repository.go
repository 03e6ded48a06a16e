package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/westbethel/motel-booking/internal/model"
)

// GuestRepo is the Guest Directory collaborator: lookup by id only.
// Guest profile management lives in another service; this engine merely
// verifies existence before attaching a guest to a booking.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo returns a GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// GetByID returns the guest with the given id, or ErrGuestNotFound.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (*model.Guest, error) {
	const q = `SELECT id, email, first_name, last_name, phone FROM guests WHERE id = ?`
	var g model.Guest
	err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Email, &g.FirstName, &g.LastName, &g.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
