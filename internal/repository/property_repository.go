package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/westbethel/motel-booking/internal/model"
)

// PropertyRepo provides read-only lookups of properties.  Property rows
// are reference data managed outside this service.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo returns a PropertyRepo bound to the given database.
func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyColumns = `id, code, name, timezone, currency, address_line, city, region, postal_code, country, contact_email, contact_phone`

// GetByID returns the property with the given id, or ErrPropertyNotFound.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`
	return scanProperty(r.db.QueryRowContext(ctx, q, id))
}

// GetByCode returns the property with the given unique code, or
// ErrPropertyNotFound.
func (r *PropertyRepo) GetByCode(ctx context.Context, code string) (*model.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE code = ?`
	return scanProperty(r.db.QueryRowContext(ctx, q, code))
}

func scanProperty(row *sql.Row) (*model.Property, error) {
	var p model.Property
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Timezone, &p.Currency,
		&p.AddressLine, &p.City, &p.Region, &p.PostalCode, &p.Country,
		&p.ContactEmail, &p.ContactPhone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
