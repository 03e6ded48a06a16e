package model

import "time"

// Payment records one settlement attempt against an invoice.  Rows move
// through the payment-status machine (INITIATED → AUTHORIZED → CAPTURED
// → REFUNDED, with VOIDED and FAILED branches) and are never deleted.
type Payment struct {
	ID            uint64    // payments.id
	InvoiceID     uint64    // payments.invoice_id
	Method        string    // payments.method (CARD, CASH, ...)
	Processor     string    // payments.processor
	Amount        Money     // payments.amount_cents / currency
	Status        string    // payments.status
	AuthCode      string    // payments.auth_code (processor reference)
	FailureReason *string   // payments.failure_reason (nullable)
	ProcessedAt   time.Time // payments.processed_at
}
