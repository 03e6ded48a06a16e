package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/westbethel/motel-booking/internal/model"
)

// AddOnRepo provides read-only access to per-stay add-ons.
type AddOnRepo struct {
	db *sql.DB
}

// NewAddOnRepo returns an AddOnRepo bound to the given database.
func NewAddOnRepo(db *sql.DB) *AddOnRepo { return &AddOnRepo{db: db} }

// GetByIDs returns the add-ons of a property matching the given ids.
// When any requested id is missing (or belongs to another property) it
// returns ErrAddOnNotFound: bookings never silently drop an add-on.
func (r *AddOnRepo) GetByIDs(ctx context.Context, propertyID uint64, ids []uint64) ([]model.AddOn, error) {
	if len(ids) == 0 {
		return []model.AddOn{}, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, propertyID)
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, property_id, name, description, price_cents, price_currency
		  FROM addons WHERE property_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)
		  ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	found := make(map[uint64]struct{})
	out := make([]model.AddOn, 0, len(ids))
	for rows.Next() {
		var a model.AddOn
		if err := rows.Scan(&a.ID, &a.PropertyID, &a.Name, &a.Description, &a.Price.Cents, &a.Price.Currency); err != nil {
			return nil, err
		}
		found[a.ID] = struct{}{}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, ErrAddOnNotFound
		}
	}
	return out, nil
}
