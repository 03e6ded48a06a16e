package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/westbethel/motel-booking/internal/billing"
	"github.com/westbethel/motel-booking/internal/model"
)

// PaymentHandler serves the settlement endpoints.
type PaymentHandler struct {
	Settlement *billing.Settlement
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(settlement *billing.Settlement) *PaymentHandler {
	if settlement == nil {
		panic("nil settlement passed to NewPaymentHandler")
	}
	return &PaymentHandler{Settlement: settlement}
}

func paymentJSON(p *model.Payment) echo.Map {
	out := echo.Map{
		"id":           p.ID,
		"invoice_id":   p.InvoiceID,
		"method":       p.Method,
		"processor":    p.Processor,
		"amount":       p.Amount.Amount(),
		"currency":     p.Amount.Currency,
		"status":       p.Status,
		"auth_code":    p.AuthCode,
		"processed_at": p.ProcessedAt,
	}
	if p.FailureReason != nil {
		out["failure_reason"] = *p.FailureReason
	}
	return out
}

func paymentID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// Authorize handles POST /v1/payments/authorize.
func (h *PaymentHandler) Authorize(c echo.Context) error {
	var body struct {
		InvoiceID    uint64 `json:"invoice_id"`
		PaymentToken string `json:"payment_token"`
		Amount       string `json:"amount"`
		Currency     string `json:"currency"`
		Method       string `json:"method"`
		InitiatedBy  string `json:"initiated_by"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.InvoiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invoice_id is required"})
	}
	cents, err := model.ParseAmount(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	p, err := h.Settlement.Authorize(c.Request().Context(), billing.AuthorizeCommand{
		InvoiceID:    body.InvoiceID,
		PaymentToken: body.PaymentToken,
		Amount:       model.NewMoney(cents, body.Currency),
		Method:       body.Method,
		InitiatedBy:  body.InitiatedBy,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment": paymentJSON(p)})
}

// Capture handles POST /v1/payments/:id/capture.
func (h *PaymentHandler) Capture(c echo.Context) error {
	id, ok := paymentID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	p, err := h.Settlement.Capture(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payment": paymentJSON(p)})
}

// Refund handles POST /v1/payments/:id/refund.  An empty body refunds
// the full captured amount.
func (h *PaymentHandler) Refund(c echo.Context) error {
	id, ok := paymentID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var body struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}
	_ = c.Bind(&body) // body is optional
	var amount *model.Money
	if body.Amount != "" {
		cents, err := model.ParseAmount(body.Amount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
		}
		m := model.NewMoney(cents, body.Currency)
		amount = &m
	}
	p, err := h.Settlement.Refund(c.Request().Context(), id, amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payment": paymentJSON(p)})
}

// Void handles POST /v1/payments/:id/void.
func (h *PaymentHandler) Void(c echo.Context) error {
	id, ok := paymentID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	p, err := h.Settlement.Void(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payment": paymentJSON(p)})
}
