package model

import "time"

// Invoice statuses.
const (
	InvoiceStatusIssued        = "ISSUED"
	InvoiceStatusPartiallyPaid = "PARTIALLY_PAID"
	InvoiceStatusPaid          = "PAID"
	InvoiceStatusCancelled     = "CANCELLED"
)

// Invoice is the ledger attached 1:1 to a booking.  It is created at
// confirmation from the pricing quote and mutated only by settlement
// outcomes through ApplyPayment and ApplyRefund.
type Invoice struct {
	ID         uint64            // invoices.id
	BookingID  uint64            // invoices.booking_id (unique)
	PropertyID uint64            // invoices.property_id
	Number     string            // invoices.number (unique human-readable)
	LineItems  []InvoiceLineItem // invoice_line_items rows
	SubTotal   Money             // invoices.subtotal_cents
	TaxTotal   Money             // invoices.tax_cents
	GrandTotal Money             // invoices.grand_total_cents
	BalanceDue *Money            // invoices.balance_due_cents (nil = unset)
	Status     string            // invoices.status
	Version    uint64            // invoices.version (optimistic concurrency token)
	IssuedAt   time.Time         // invoices.issued_at
}

// InvoiceLineItem is a single priced line on an invoice.
type InvoiceLineItem struct {
	ID          uint64 // invoice_line_items.id
	InvoiceID   uint64 // invoice_line_items.invoice_id
	Description string // invoice_line_items.description
	Quantity    uint32 // invoice_line_items.quantity
	Unit        Money  // invoice_line_items.unit_cents
	Total       Money  // invoice_line_items.total_cents
}

// ApplyPayment reduces the balance due by the captured amount, clamping
// at zero.  A fully settled invoice becomes PAID, anything else
// PARTIALLY_PAID.  Invoices without a balance are left untouched.
func (inv *Invoice) ApplyPayment(amount Money) {
	if inv.BalanceDue == nil {
		return
	}
	remaining := inv.BalanceDue.Cents - amount.Cents
	if remaining < 0 {
		remaining = 0
	}
	inv.BalanceDue = &Money{Cents: remaining, Currency: inv.BalanceDue.Currency}
	if remaining == 0 {
		inv.Status = InvoiceStatusPaid
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
}

// ApplyRefund raises the balance due by the refunded amount and resets
// the status to ISSUED regardless of the resulting balance.  Refund
// history is the settlement layer's responsibility, not the ledger's.
func (inv *Invoice) ApplyRefund(amount Money) {
	if inv.BalanceDue == nil {
		due := amount
		inv.BalanceDue = &due
	} else {
		inv.BalanceDue = &Money{
			Cents:    inv.BalanceDue.Cents + amount.Cents,
			Currency: inv.BalanceDue.Currency,
		}
	}
	inv.Status = InvoiceStatusIssued
}

// Reissue replaces the invoice totals after a booking amendment.
// Amounts already settled stay applied: the new balance is the new
// grand total minus what prior captures paid down, clamped at zero.
// Status follows the balance, so a fully covered amendment stays PAID
// and a partially covered one becomes PARTIALLY_PAID.
func (inv *Invoice) Reissue(subTotal, tax, grandTotal Money) {
	var applied int64
	if inv.BalanceDue != nil {
		applied = inv.GrandTotal.Cents - inv.BalanceDue.Cents
	}
	inv.SubTotal = subTotal
	inv.TaxTotal = tax
	inv.GrandTotal = grandTotal
	remaining := grandTotal.Cents - applied
	if remaining < 0 {
		remaining = 0
	}
	inv.BalanceDue = &Money{Cents: remaining, Currency: grandTotal.Currency}
	switch {
	case remaining == 0:
		inv.Status = InvoiceStatusPaid
	case applied > 0:
		inv.Status = InvoiceStatusPartiallyPaid
	default:
		inv.Status = InvoiceStatusIssued
	}
}

// Open reports whether the invoice can still accept settlement activity.
func (inv *Invoice) Open() bool {
	return inv.Status != InvoiceStatusPaid && inv.Status != InvoiceStatusCancelled
}
