package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/westbethel/motel-booking/internal/availability"
	"github.com/westbethel/motel-booking/internal/billing"
	"github.com/westbethel/motel-booking/internal/booking"
	"github.com/westbethel/motel-booking/internal/pricing"
	"github.com/westbethel/motel-booking/internal/repository"
)

// writeError maps engine and repository sentinels onto HTTP statuses:
// validation problems are 400, missing resources 404, allocation and
// state conflicts 409, everything else 500.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, availability.ErrInvalidRange),
		errors.Is(err, availability.ErrNoMatchingRoomTypes),
		errors.Is(err, pricing.ErrInvalidDateRange),
		errors.Is(err, pricing.ErrEmptyRoomTypeSet),
		errors.Is(err, pricing.ErrRoomTypeNotEligible),
		errors.Is(err, pricing.ErrCurrencyMismatch),
		errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrInvalidPartySize),
		errors.Is(err, booking.ErrInvalidRoomTypeSet),
		errors.Is(err, booking.ErrTooManyAddOns),
		errors.Is(err, booking.ErrStayTooLong),
		errors.Is(err, booking.ErrInvalidChannel),
		errors.Is(err, repository.ErrRoomTypeMismatch),
		errors.Is(err, billing.ErrCurrencyMismatch),
		errors.Is(err, billing.ErrInvalidRefundAmount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrPropertyNotFound),
		errors.Is(err, repository.ErrRoomTypeNotFound),
		errors.Is(err, repository.ErrRatePlanNotFound),
		errors.Is(err, repository.ErrGuestNotFound),
		errors.Is(err, repository.ErrAddOnNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrInvoiceNotFound),
		errors.Is(err, repository.ErrPaymentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrRoomUnavailable),
		errors.Is(err, repository.ErrVersionConflict),
		errors.Is(err, booking.ErrForbiddenTransition),
		errors.Is(err, billing.ErrInvoiceClosed),
		errors.Is(err, billing.ErrInvalidPaymentState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
