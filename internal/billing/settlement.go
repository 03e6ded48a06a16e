package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/westbethel/motel-booking/internal/model"
	"github.com/westbethel/motel-booking/internal/repository"
)

var (
	// ErrInvoiceClosed is returned when settlement is attempted against
	// a PAID or CANCELLED invoice.
	ErrInvoiceClosed = errors.New("billing: invoice no longer accepts settlement")
	// ErrInvalidPaymentState is returned when the payment-status machine
	// rejects the requested operation.
	ErrInvalidPaymentState = errors.New("billing: payment state does not allow operation")
	// ErrInvalidRefundAmount is returned for refunds of zero, negative
	// or more than the captured amount.
	ErrInvalidRefundAmount = errors.New("billing: invalid refund amount")
	// ErrCurrencyMismatch is returned when a settlement amount carries a
	// currency other than the invoice's.
	ErrCurrencyMismatch = errors.New("billing: amount currency differs from invoice currency")
)

// AuthorizeCommand describes one settlement authorization attempt.
type AuthorizeCommand struct {
	InvoiceID    uint64
	PaymentToken string
	Amount       model.Money
	Method       string
	InitiatedBy  string
}

// Settlement drives payment state against the gateway and applies the
// outcomes to the invoice ledger.  Ledger mutation and payment-row
// updates share one transaction; a gateway decline marks the payment
// FAILED and touches nothing else.
type Settlement struct {
	db       *sql.DB
	invoices *repository.InvoiceRepo
	payments *repository.PaymentRepo
	bookings *repository.BookingRepo
	gateway  GatewayClient
}

// NewSettlement builds a settlement service.
func NewSettlement(db *sql.DB, invoices *repository.InvoiceRepo, payments *repository.PaymentRepo, bookings *repository.BookingRepo, gateway GatewayClient) *Settlement {
	return &Settlement{db: db, invoices: invoices, payments: payments, bookings: bookings, gateway: gateway}
}

// Authorize asks the gateway to hold funds against an open invoice and
// records the attempt as a payment row: AUTHORIZED on approval, FAILED
// with the decline reason otherwise.  The invoice balance is untouched
// until capture.
func (s *Settlement) Authorize(ctx context.Context, cmd AuthorizeCommand) (*model.Payment, error) {
	inv, err := s.invoices.GetByID(ctx, cmd.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Open() {
		return nil, ErrInvoiceClosed
	}
	if err := checkCurrency(inv, cmd.Amount); err != nil {
		return nil, err
	}
	result, err := s.gateway.Authorize(ctx, cmd.PaymentToken, cmd.Amount)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		InvoiceID:   inv.ID,
		Method:      cmd.Method,
		Processor:   Processor,
		Amount:      cmd.Amount,
		AuthCode:    result.AuthCode,
		ProcessedAt: time.Now().UTC(),
	}
	if result.Approved {
		p.Status = model.PaymentStatusAuthorized
	} else {
		p.Status = model.PaymentStatusFailed
		reason := result.Reason
		p.FailureReason = &reason
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.payments.CreateTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if result.Approved {
		if err := s.mirrorPaymentStatusTx(ctx, tx, inv.BookingID, model.PaymentStatusAuthorized); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return p, nil
}

// Capture settles an AUTHORIZED payment.  On approval the captured
// amount is applied to the invoice (clamped at zero, PAID when fully
// settled) in the same transaction that moves the payment to CAPTURED.
func (s *Settlement) Capture(ctx context.Context, paymentID uint64) (*model.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	p, err := s.payments.GetByIDTx(ctx, tx, paymentID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionPayment(p.Status, model.PaymentStatusCaptured) {
		return nil, ErrInvalidPaymentState
	}
	result, err := s.gateway.Capture(ctx, p.AuthCode, p.Amount)
	if err != nil {
		return nil, err
	}
	if !result.Approved {
		return s.failTx(ctx, tx, &committed, p, result.Reason)
	}

	if err := s.payments.UpdateStatusTx(ctx, tx, p.ID, model.PaymentStatusCaptured, nil); err != nil {
		return nil, err
	}
	inv, err := s.invoices.GetByIDTx(ctx, tx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	version := inv.Version
	inv.ApplyPayment(p.Amount)
	if err := s.invoices.UpdateBalanceTx(ctx, tx, inv, version); err != nil {
		return nil, err
	}
	if err := s.mirrorPaymentStatusTx(ctx, tx, inv.BookingID, model.PaymentStatusCaptured); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	p.Status = model.PaymentStatusCaptured
	return p, nil
}

// Refund returns part or all of a CAPTURED payment.  The refunded
// amount raises the invoice balance and resets its status to ISSUED.
// A nil amount refunds the full captured amount.
func (s *Settlement) Refund(ctx context.Context, paymentID uint64, amount *model.Money) (*model.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	p, err := s.payments.GetByIDTx(ctx, tx, paymentID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionPayment(p.Status, model.PaymentStatusRefunded) {
		return nil, ErrInvalidPaymentState
	}
	refund := p.Amount
	if amount != nil {
		refund = *amount
		if refund.Currency != p.Amount.Currency {
			return nil, ErrCurrencyMismatch
		}
	}
	if refund.Cents <= 0 || refund.Cents > p.Amount.Cents {
		return nil, ErrInvalidRefundAmount
	}
	result, err := s.gateway.Refund(ctx, p.AuthCode, refund)
	if err != nil {
		return nil, err
	}
	if !result.Approved {
		return s.failTx(ctx, tx, &committed, p, result.Reason)
	}

	if err := s.payments.UpdateStatusTx(ctx, tx, p.ID, model.PaymentStatusRefunded, nil); err != nil {
		return nil, err
	}
	inv, err := s.invoices.GetByIDTx(ctx, tx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	version := inv.Version
	inv.ApplyRefund(refund)
	if err := s.invoices.UpdateBalanceTx(ctx, tx, inv, version); err != nil {
		return nil, err
	}
	if err := s.mirrorPaymentStatusTx(ctx, tx, inv.BookingID, model.PaymentStatusRefunded); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	p.Status = model.PaymentStatusRefunded
	return p, nil
}

// Void releases an AUTHORIZED hold before capture.  The invoice is
// untouched: no funds ever moved.
func (s *Settlement) Void(ctx context.Context, paymentID uint64) (*model.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	p, err := s.payments.GetByIDTx(ctx, tx, paymentID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionPayment(p.Status, model.PaymentStatusVoided) {
		return nil, ErrInvalidPaymentState
	}
	result, err := s.gateway.Void(ctx, p.AuthCode)
	if err != nil {
		return nil, err
	}
	if !result.Approved {
		return s.failTx(ctx, tx, &committed, p, result.Reason)
	}

	if err := s.payments.UpdateStatusTx(ctx, tx, p.ID, model.PaymentStatusVoided, nil); err != nil {
		return nil, err
	}
	inv, err := s.invoices.GetByIDTx(ctx, tx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.mirrorPaymentStatusTx(ctx, tx, inv.BookingID, model.PaymentStatusVoided); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	p.Status = model.PaymentStatusVoided
	return p, nil
}

// failTx records a gateway decline: the payment moves to FAILED with
// the reason, and nothing else changes.
func (s *Settlement) failTx(ctx context.Context, tx *sql.Tx, committed *bool, p *model.Payment, reason string) (*model.Payment, error) {
	if err := s.payments.UpdateStatusTx(ctx, tx, p.ID, model.PaymentStatusFailed, &reason); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	*committed = true
	p.Status = model.PaymentStatusFailed
	p.FailureReason = &reason
	return p, nil
}

// checkCurrency rejects settlement amounts in a currency other than the
// invoice's.  The ledger holds raw cents; mixing currencies would apply
// foreign cents one-for-one.
func checkCurrency(inv *model.Invoice, amount model.Money) error {
	if amount.Currency != inv.GrandTotal.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

// mirrorPaymentStatusTx reflects the latest settlement outcome onto the
// booking's payment_status field.
func (s *Settlement) mirrorPaymentStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status string) error {
	b, err := s.bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	return s.bookings.UpdatePaymentStatusTx(ctx, tx, b.ID, b.Version, status)
}
