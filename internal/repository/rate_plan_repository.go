package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/westbethel/motel-booking/internal/model"
)

// RatePlanRepo provides read-only access to rate plans.  Plans are
// always resolved scoped to a property: asking for a plan that exists
// under another property is a not-found, never a leak.
type RatePlanRepo struct {
	db *sql.DB
}

// NewRatePlanRepo returns a RatePlanRepo bound to the given database.
func NewRatePlanRepo(db *sql.DB) *RatePlanRepo { return &RatePlanRepo{db: db} }

// GetByPropertyAndID returns the rate plan with the given id belonging
// to the given property, including its eligible room type set, or
// ErrRatePlanNotFound.
func (r *RatePlanRepo) GetByPropertyAndID(ctx context.Context, propertyID, id uint64) (*model.RatePlan, error) {
	const q = `SELECT id, property_id, name, channel, default_rate_cents, default_rate_currency,
					  pricing_rules, cancellation_policy
			   FROM rate_plans WHERE property_id = ? AND id = ?`
	var rp model.RatePlan
	var rateCents sql.NullInt64
	var rateCurrency sql.NullString
	err := r.db.QueryRowContext(ctx, q, propertyID, id).Scan(
		&rp.ID, &rp.PropertyID, &rp.Name, &rp.Channel,
		&rateCents, &rateCurrency, &rp.PricingRules, &rp.CancellationPolicy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatePlanNotFound
	}
	if err != nil {
		return nil, err
	}
	if rateCents.Valid {
		rp.DefaultRate = &model.Money{Cents: rateCents.Int64, Currency: rateCurrency.String}
	}
	const eligQ = `SELECT room_type_id FROM rate_plan_room_types WHERE rate_plan_id = ? ORDER BY room_type_id`
	rows, err := r.db.QueryContext(ctx, eligQ, rp.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rtID uint64
		if err := rows.Scan(&rtID); err != nil {
			return nil, err
		}
		rp.EligibleRoomTypeIDs = append(rp.EligibleRoomTypeIDs, rtID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rp, nil
}
