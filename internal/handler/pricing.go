package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/westbethel/motel-booking/internal/pricing"
)

// PricingHandler serves standalone quote requests.
type PricingHandler struct {
	Engine *pricing.Engine
}

// NewPricingHandler constructs a PricingHandler.
func NewPricingHandler(engine *pricing.Engine) *PricingHandler {
	if engine == nil {
		panic("nil engine passed to NewPricingHandler")
	}
	return &PricingHandler{Engine: engine}
}

type quoteRequest struct {
	PropertyID  uint64   `json:"property_id"`
	RatePlanID  uint64   `json:"rate_plan_id"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	Adults      uint32   `json:"adults"`
	Children    uint32   `json:"children"`
	GuestID     uint64   `json:"guest_id"`
	RoomTypeIDs []uint64 `json:"room_type_ids"`
	AddOnIDs    []uint64 `json:"addon_ids"`
}

// Quote handles POST /v1/quotes.  The quote is informational: nothing
// is reserved or persisted.
func (h *PricingHandler) Quote(c echo.Context) error {
	var body quoteRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, ok := parseDate(body.CheckIn)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, ok := parseDate(body.CheckOut)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}

	quote, err := h.Engine.Quote(c.Request().Context(), pricing.Context{
		PropertyID:  body.PropertyID,
		RatePlanID:  body.RatePlanID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      body.Adults,
		Children:    body.Children,
		GuestID:     body.GuestID,
		RoomTypeIDs: body.RoomTypeIDs,
		AddOnIDs:    body.AddOnIDs,
	})
	if err != nil {
		return writeError(c, err)
	}

	lines := make([]echo.Map, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		lines = append(lines, echo.Map{
			"description": line.Description,
			"quantity":    line.Quantity,
			"unit":        line.Unit.Amount(),
			"total":       line.Total.Amount(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"currency": quote.Total.Currency,
		"base":     quote.Base.Amount(),
		"tax":      quote.Tax.Amount(),
		"total":    quote.Total.Amount(),
		"lines":    lines,
	})
}
