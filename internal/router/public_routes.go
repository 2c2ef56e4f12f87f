package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
)

// RegisterPublic registers the guest-facing endpoints.  No
// authentication applies: guests browse availability and book with
// nothing but their contact details.  The availability read sits
// behind the short-TTL response cache; the booking write sits behind
// the rate limiter.  Both middleware are built by the caller and
// degrade to pass-through when Redis is down.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler, bk *handler.BookingHandler, cacheMW, rateMW echo.MiddlewareFunc) {
	e.GET("/v1/restaurants/:id/availability", av.GetAvailability, cacheMW)
	e.POST("/v1/restaurants/:id/bookings", bk.CreateBooking, rateMW)
}
