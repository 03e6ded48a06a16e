package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/westbethel/motel-booking/internal/model"
)

// InvoiceRepo persists invoices and their line items.  Balance updates
// go through the same optimistic version CAS as bookings.
type InvoiceRepo struct {
	db *sql.DB
}

// NewInvoiceRepo returns an InvoiceRepo bound to the given database.
func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

// CreateTx inserts an invoice with its line items inside the booking
// creation transaction, so a booking and its invoice appear atomically.
func (r *InvoiceRepo) CreateTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	const q = `INSERT INTO invoices
			   (booking_id, property_id, number, status, subtotal_cents, tax_cents,
				grand_total_cents, currency, balance_due_cents, version)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var balance sql.NullInt64
	if inv.BalanceDue != nil {
		balance = sql.NullInt64{Int64: inv.BalanceDue.Cents, Valid: true}
	}
	result, err := tx.ExecContext(ctx, q,
		inv.BookingID, inv.PropertyID, inv.Number, inv.Status,
		inv.SubTotal.Cents, inv.TaxTotal.Cents, inv.GrandTotal.Cents,
		inv.GrandTotal.Currency, balance, inv.Version,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	if len(inv.LineItems) == 0 {
		return nil
	}
	query := `INSERT INTO invoice_line_items (invoice_id, description, quantity, unit_cents, total_cents) VALUES `
	args := make([]interface{}, 0, len(inv.LineItems)*5)
	for i := range inv.LineItems {
		li := &inv.LineItems[i]
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, inv.ID, li.Description, li.Quantity, li.Unit.Cents, li.Total.Cents)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

const invoiceColumns = `id, booking_id, property_id, number, status, subtotal_cents, tax_cents,
						grand_total_cents, currency, balance_due_cents, version, issued_at`

func scanInvoice(scan func(dest ...any) error) (*model.Invoice, error) {
	var inv model.Invoice
	var currency string
	var balance sql.NullInt64
	if err := scan(
		&inv.ID, &inv.BookingID, &inv.PropertyID, &inv.Number, &inv.Status,
		&inv.SubTotal.Cents, &inv.TaxTotal.Cents, &inv.GrandTotal.Cents,
		&currency, &balance, &inv.Version, &inv.IssuedAt,
	); err != nil {
		return nil, err
	}
	inv.SubTotal.Currency = currency
	inv.TaxTotal.Currency = currency
	inv.GrandTotal.Currency = currency
	if balance.Valid {
		inv.BalanceDue = &model.Money{Cents: balance.Int64, Currency: currency}
	}
	return &inv, nil
}

// GetByBookingID returns the invoice of a booking or ErrInvoiceNotFound.
func (r *InvoiceRepo) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE booking_id = ?`
	row := r.db.QueryRowContext(ctx, q, bookingID)
	inv, err := scanInvoice(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if inv.LineItems, err = r.lineItems(ctx, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID returns an invoice by id or ErrInvoiceNotFound.
func (r *InvoiceRepo) GetByID(ctx context.Context, id uint64) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	inv, err := scanInvoice(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if inv.LineItems, err = r.lineItems(ctx, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByIDTx is GetByID inside a transaction with FOR UPDATE,
// serializing concurrent settlement of the same invoice.
func (r *InvoiceRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, id)
	inv, err := scanInvoice(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

// GetByBookingIDTx locks and returns the invoice of a booking inside a
// transaction, for amendments that rewrite the invoice in place.
func (r *InvoiceRepo) GetByBookingIDTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE booking_id = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, bookingID)
	inv, err := scanInvoice(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

func (r *InvoiceRepo) lineItems(ctx context.Context, invoiceID uint64) ([]model.InvoiceLineItem, error) {
	const q = `SELECT id, invoice_id, description, quantity, unit_cents, total_cents
			   FROM invoice_line_items WHERE invoice_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.InvoiceLineItem, 0)
	for rows.Next() {
		var li model.InvoiceLineItem
		if err := rows.Scan(&li.ID, &li.InvoiceID, &li.Description, &li.Quantity, &li.Unit.Cents, &li.Total.Cents); err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ReplaceTx rewrites an invoice's totals, status and line items after a
// booking amendment, under the version CAS.
func (r *InvoiceRepo) ReplaceTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice, expectedVersion uint64) error {
	const q = `UPDATE invoices
			   SET status = ?, subtotal_cents = ?, tax_cents = ?, grand_total_cents = ?,
				   currency = ?, balance_due_cents = ?, version = version + 1
			   WHERE id = ? AND version = ?`
	var balance sql.NullInt64
	if inv.BalanceDue != nil {
		balance = sql.NullInt64{Int64: inv.BalanceDue.Cents, Valid: true}
	}
	result, err := tx.ExecContext(ctx, q,
		inv.Status, inv.SubTotal.Cents, inv.TaxTotal.Cents, inv.GrandTotal.Cents,
		inv.GrandTotal.Currency, balance, inv.ID, expectedVersion,
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
	inv.Version = expectedVersion + 1
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = ?`, inv.ID); err != nil {
		return err
	}
	if len(inv.LineItems) == 0 {
		return nil
	}
	query := `INSERT INTO invoice_line_items (invoice_id, description, quantity, unit_cents, total_cents) VALUES `
	args := make([]interface{}, 0, len(inv.LineItems)*5)
	for i := range inv.LineItems {
		li := &inv.LineItems[i]
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, inv.ID, li.Description, li.Quantity, li.Unit.Cents, li.Total.Cents)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// UpdateBalanceTx writes back the balance and status produced by a
// settlement event under the version CAS.
func (r *InvoiceRepo) UpdateBalanceTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice, expectedVersion uint64) error {
	const q = `UPDATE invoices
			   SET status = ?, balance_due_cents = ?, version = version + 1
			   WHERE id = ? AND version = ?`
	var balance sql.NullInt64
	if inv.BalanceDue != nil {
		balance = sql.NullInt64{Int64: inv.BalanceDue.Cents, Valid: true}
	}
	result, err := tx.ExecContext(ctx, q, inv.Status, balance, inv.ID, expectedVersion)
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
	inv.Version = expectedVersion + 1
	return nil
}
