package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/westbethel/motel-booking/internal/handler"
)

// RegisterRoutes registers the health check on the provided Echo
// instance.  Load balancers and monitoring systems probe this endpoint
// to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAvailability registers the availability search endpoint.  The
// rateLimit middleware is applied per-route so the search, the most
// cache-friendly and most hammered endpoint, carries its own budget.
func RegisterAvailability(e *echo.Echo, h *handler.AvailabilityHandler, rateLimit echo.MiddlewareFunc) {
	e.GET("/v1/availability", h.Search, rateLimit)
}

// RegisterPricing registers the standalone quote endpoint.
func RegisterPricing(e *echo.Echo, h *handler.PricingHandler) {
	e.POST("/v1/quotes", h.Quote)
}

// RegisterBookings registers the booking lifecycle endpoints under
// /v1/bookings.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler) {
	g := e.Group("/v1/bookings")
	g.POST("", h.Create)
	g.GET("/:reference", h.Get)
	g.PUT("/:reference", h.Amend)
	g.DELETE("/:reference", h.Cancel)
	g.POST("/:reference/check-in", h.CheckIn)
	g.POST("/:reference/check-out", h.CheckOut)
	g.POST("/:reference/no-show", h.MarkNoShow)
}

// RegisterPayments registers the settlement endpoints under
// /v1/payments.
func RegisterPayments(e *echo.Echo, h *handler.PaymentHandler) {
	g := e.Group("/v1/payments")
	g.POST("/authorize", h.Authorize)
	g.POST("/:id/capture", h.Capture)
	g.POST("/:id/refund", h.Refund)
	g.POST("/:id/void", h.Void)
}
