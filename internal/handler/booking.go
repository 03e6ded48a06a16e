package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/westbethel/motel-booking/internal/booking"
	"github.com/westbethel/motel-booking/internal/model"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Engine *booking.Engine
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(engine *booking.Engine) *BookingHandler {
	if engine == nil {
		panic("nil engine passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine}
}

type bookingRequest struct {
	PropertyID  uint64   `json:"property_id"`
	GuestID     uint64   `json:"guest_id"`
	RatePlanID  uint64   `json:"rate_plan_id"`
	Channel     string   `json:"channel"`
	Source      string   `json:"source"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	Adults      uint32   `json:"adults"`
	Children    uint32   `json:"children"`
	RoomTypeIDs []uint64 `json:"room_type_ids"`
	AddOnIDs    []uint64 `json:"addon_ids"`
}

func (body *bookingRequest) toCreateRequest() (booking.CreateRequest, bool) {
	checkIn, ok := parseDate(body.CheckIn)
	if !ok {
		return booking.CreateRequest{}, false
	}
	checkOut, ok := parseDate(body.CheckOut)
	if !ok {
		return booking.CreateRequest{}, false
	}
	return booking.CreateRequest{
		PropertyID:  body.PropertyID,
		GuestID:     body.GuestID,
		RatePlanID:  body.RatePlanID,
		Channel:     body.Channel,
		Source:      body.Source,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      body.Adults,
		Children:    body.Children,
		RoomTypeIDs: body.RoomTypeIDs,
		AddOnIDs:    body.AddOnIDs,
	}, true
}

func bookingJSON(b *model.Booking) echo.Map {
	return echo.Map{
		"id":             b.ID,
		"reference":      b.Reference,
		"property_id":    b.PropertyID,
		"guest_id":       b.GuestID,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"channel":        b.Channel,
		"source":         b.Source,
		"check_in":       b.CheckIn.Format(dateLayout),
		"check_out":      b.CheckOut.Format(dateLayout),
		"adults":         b.Adults,
		"children":       b.Children,
		"rate_plan_id":   b.RatePlanID,
		"room_ids":       b.RoomIDs,
		"addon_ids":      b.AddOnIDs,
		"total":          b.Total.Amount(),
		"currency":       b.Total.Currency,
		"balance_due":    b.BalanceDue.Amount(),
		"version":        b.Version,
	}
}

func invoiceJSON(inv *model.Invoice) echo.Map {
	if inv == nil {
		return nil
	}
	items := make([]echo.Map, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		items = append(items, echo.Map{
			"description": li.Description,
			"quantity":    li.Quantity,
			"unit":        li.Unit.Amount(),
			"total":       li.Total.Amount(),
		})
	}
	balance := ""
	if inv.BalanceDue != nil {
		balance = inv.BalanceDue.Amount()
	}
	return echo.Map{
		"id":          inv.ID,
		"number":      inv.Number,
		"status":      inv.Status,
		"subtotal":    inv.SubTotal.Amount(),
		"tax":         inv.TaxTotal.Amount(),
		"grand_total": inv.GrandTotal.Amount(),
		"currency":    inv.GrandTotal.Currency,
		"balance_due": balance,
		"line_items":  items,
	}
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var body bookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req, ok := body.toCreateRequest()
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in or check_out date"})
	}
	conf, err := h.Engine.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking": bookingJSON(conf.Booking),
		"invoice": invoiceJSON(conf.Invoice),
	})
}

// Get handles GET /v1/bookings/:reference.
func (h *BookingHandler) Get(c echo.Context) error {
	conf, err := h.Engine.GetByReference(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking": bookingJSON(conf.Booking),
		"invoice": invoiceJSON(conf.Invoice),
	})
}

// Amend handles PUT /v1/bookings/:reference.
func (h *BookingHandler) Amend(c echo.Context) error {
	var body bookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req, ok := body.toCreateRequest()
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in or check_out date"})
	}
	conf, err := h.Engine.Amend(c.Request().Context(), c.Param("reference"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking": bookingJSON(conf.Booking),
		"invoice": invoiceJSON(conf.Invoice),
	})
}

// Cancel handles DELETE /v1/bookings/:reference.  The body may carry a
// reason and the identity of the requester for the audit log.
func (h *BookingHandler) Cancel(c echo.Context) error {
	var body struct {
		Reason      string `json:"reason"`
		RequestedBy string `json:"requested_by"`
	}
	_ = c.Bind(&body) // body is optional
	b, err := h.Engine.Cancel(c.Request().Context(), c.Param("reference"), body.Reason, body.RequestedBy)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingJSON(b)})
}

// CheckIn handles POST /v1/bookings/:reference/check-in.
func (h *BookingHandler) CheckIn(c echo.Context) error {
	b, err := h.Engine.CheckIn(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingJSON(b)})
}

// CheckOut handles POST /v1/bookings/:reference/check-out.
func (h *BookingHandler) CheckOut(c echo.Context) error {
	b, err := h.Engine.CheckOut(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingJSON(b)})
}

// MarkNoShow handles POST /v1/bookings/:reference/no-show.
func (h *BookingHandler) MarkNoShow(c echo.Context) error {
	b, err := h.Engine.MarkNoShow(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingJSON(b)})
}
