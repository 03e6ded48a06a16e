package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/westbethel/motel-booking/internal/availability"
)

// AvailabilityHandler serves the availability search endpoint.
type AvailabilityHandler struct {
	Engine *availability.Engine
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(engine *availability.Engine) *AvailabilityHandler {
	if engine == nil {
		panic("nil engine passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Engine: engine}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// Search handles GET /v1/availability.  Query parameters: property_id,
// start, end (YYYY-MM-DD), adults, children, and an optional
// comma-separated room_types filter.
func (h *AvailabilityHandler) Search(c echo.Context) error {
	propertyID, err := strconv.ParseUint(c.QueryParam("property_id"), 10, 64)
	if err != nil || propertyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property_id"})
	}
	start, ok := parseDate(c.QueryParam("start"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date"})
	}
	end, ok := parseDate(c.QueryParam("end"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date"})
	}
	adults := uint64(1)
	if s := c.QueryParam("adults"); s != "" {
		if adults, err = strconv.ParseUint(s, 10, 32); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid adults"})
		}
	}
	var children uint64
	if s := c.QueryParam("children"); s != "" {
		if children, err = strconv.ParseUint(s, 10, 32); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid children"})
		}
	}
	var codes []string
	if raw := c.QueryParam("room_types"); raw != "" {
		for _, code := range strings.Split(raw, ",") {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
	}

	result, err := h.Engine.Search(c.Request().Context(), availability.Query{
		PropertyID:    propertyID,
		Start:         start,
		End:           end,
		Adults:        uint32(adults),
		Children:      uint32(children),
		RoomTypeCodes: codes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
