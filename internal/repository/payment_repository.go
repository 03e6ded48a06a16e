package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/westbethel/motel-booking/internal/model"
)

// PaymentRepo persists settlement attempts.  Payments are append-only:
// status changes rewrite the row but rows are never removed.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment row inside a settlement transaction and
// populates its generated ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments
			   (invoice_id, method, processor, amount_cents, currency, status, auth_code, failure_reason, processed_at)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		p.InvoiceID, p.Method, p.Processor, p.Amount.Cents, p.Amount.Currency,
		p.Status, p.AuthCode, p.FailureReason, p.ProcessedAt,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

const paymentColumns = `id, invoice_id, method, processor, amount_cents, currency, status, auth_code, failure_reason, processed_at`

func scanPayment(scan func(dest ...any) error) (*model.Payment, error) {
	var p model.Payment
	if err := scan(
		&p.ID, &p.InvoiceID, &p.Method, &p.Processor,
		&p.Amount.Cents, &p.Amount.Currency, &p.Status, &p.AuthCode, &p.FailureReason, &p.ProcessedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns a payment by id or ErrPaymentNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// GetByIDTx is GetByID inside a transaction with FOR UPDATE, so two
// settlement calls against the same payment serialize.
func (r *PaymentRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, id)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// GetByAuthCode returns the payment carrying the given processor
// reference or ErrPaymentNotFound.  Capture, refund and void all look
// up the original authorization this way.
func (r *PaymentRepo) GetByAuthCode(ctx context.Context, authCode string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE auth_code = ?`
	row := r.db.QueryRowContext(ctx, q, authCode)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// GetByAuthCodeTx is GetByAuthCode inside a transaction with FOR UPDATE.
func (r *PaymentRepo) GetByAuthCodeTx(ctx context.Context, tx *sql.Tx, authCode string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE auth_code = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, authCode)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// UpdateStatusTx moves a payment to a new status, recording an optional
// failure reason.
func (r *PaymentRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, paymentID uint64, status string, failureReason *string) error {
	const q = `UPDATE payments SET status = ?, failure_reason = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, failureReason, paymentID)
	return err
}

// ListByInvoice returns every settlement attempt against an invoice in
// insertion order.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID uint64) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]*model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
