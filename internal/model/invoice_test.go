package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuedInvoice(cents int64) *Invoice {
	due := NewMoney(cents, "USD")
	return &Invoice{
		Status:     InvoiceStatusIssued,
		GrandTotal: NewMoney(cents, "USD"),
		BalanceDue: &due,
	}
}

func TestInvoiceSettlementLifecycle(t *testing.T) {
	inv := issuedInvoice(20000) // $200.00

	inv.ApplyPayment(NewMoney(20000, "USD"))
	require.NotNil(t, inv.BalanceDue)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Equal(t, "0.00", inv.BalanceDue.Amount())

	inv.ApplyRefund(NewMoney(5000, "USD"))
	require.NotNil(t, inv.BalanceDue)
	assert.Equal(t, InvoiceStatusIssued, inv.Status)
	assert.Equal(t, "50.00", inv.BalanceDue.Amount())
}

func TestInvoiceApplyPayment_Partial(t *testing.T) {
	inv := issuedInvoice(20000)
	inv.ApplyPayment(NewMoney(7500, "USD"))
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	assert.Equal(t, int64(12500), inv.BalanceDue.Cents)
}

func TestInvoiceApplyPayment_OverpayClampsAtZero(t *testing.T) {
	inv := issuedInvoice(20000)
	inv.ApplyPayment(NewMoney(25000, "USD"))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Equal(t, int64(0), inv.BalanceDue.Cents)
}

func TestInvoiceApplyPayment_NoBalanceIsNoop(t *testing.T) {
	inv := &Invoice{Status: InvoiceStatusIssued}
	inv.ApplyPayment(NewMoney(5000, "USD"))
	assert.Nil(t, inv.BalanceDue)
	assert.Equal(t, InvoiceStatusIssued, inv.Status)
}

func TestInvoiceApplyRefund_SetsBalanceWhenUnset(t *testing.T) {
	inv := &Invoice{Status: InvoiceStatusPaid}
	inv.ApplyRefund(NewMoney(5000, "USD"))
	require.NotNil(t, inv.BalanceDue)
	assert.Equal(t, int64(5000), inv.BalanceDue.Cents)
	assert.Equal(t, InvoiceStatusIssued, inv.Status)
}

func TestInvoiceReissue_KeepsCapturedAmountsApplied(t *testing.T) {
	inv := issuedInvoice(20000)
	inv.ApplyPayment(NewMoney(20000, "USD"))
	require.Equal(t, InvoiceStatusPaid, inv.Status)

	// amend raises the stay to $300; the $200 already captured stays applied
	inv.Reissue(NewMoney(30000, "USD"), NewMoney(0, "USD"), NewMoney(30000, "USD"))
	require.NotNil(t, inv.BalanceDue)
	assert.Equal(t, "100.00", inv.BalanceDue.Amount())
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	assert.Equal(t, int64(30000), inv.GrandTotal.Cents)
}

func TestInvoiceReissue_FullyCoveredStaysPaid(t *testing.T) {
	inv := issuedInvoice(20000)
	inv.ApplyPayment(NewMoney(20000, "USD"))

	// amend shrinks the stay to $150; nothing further is owed
	inv.Reissue(NewMoney(15000, "USD"), NewMoney(0, "USD"), NewMoney(15000, "USD"))
	require.NotNil(t, inv.BalanceDue)
	assert.Equal(t, int64(0), inv.BalanceDue.Cents)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}

func TestInvoiceReissue_UnpaidInvoiceCarriesNewTotal(t *testing.T) {
	inv := issuedInvoice(20000)

	inv.Reissue(NewMoney(30000, "USD"), NewMoney(0, "USD"), NewMoney(30000, "USD"))
	require.NotNil(t, inv.BalanceDue)
	assert.Equal(t, int64(30000), inv.BalanceDue.Cents)
	assert.Equal(t, InvoiceStatusIssued, inv.Status)
}

func TestInvoiceOpen(t *testing.T) {
	assert.True(t, (&Invoice{Status: InvoiceStatusIssued}).Open())
	assert.True(t, (&Invoice{Status: InvoiceStatusPartiallyPaid}).Open())
	assert.False(t, (&Invoice{Status: InvoiceStatusPaid}).Open())
	assert.False(t, (&Invoice{Status: InvoiceStatusCancelled}).Open())
}
