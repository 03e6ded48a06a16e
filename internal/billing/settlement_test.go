package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/westbethel/motel-booking/internal/model"
)

func usdInvoice(cents int64) *model.Invoice {
	due := model.NewMoney(cents, "USD")
	return &model.Invoice{
		Status:     model.InvoiceStatusIssued,
		GrandTotal: model.NewMoney(cents, "USD"),
		BalanceDue: &due,
	}
}

func TestCheckCurrency_RejectsForeignCurrency(t *testing.T) {
	inv := usdInvoice(20000)
	err := checkCurrency(inv, model.NewMoney(20000, "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestCheckCurrency_AcceptsInvoiceCurrency(t *testing.T) {
	inv := usdInvoice(20000)
	assert.NoError(t, checkCurrency(inv, model.NewMoney(5000, "USD")))
}
