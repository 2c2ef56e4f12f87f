package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
)

// RegisterOwner registers the staff-scoped endpoints under
// /v1/owner.  All routes require a valid JWT with the OWNER or
// MANAGER role; per-restaurant ownership is enforced inside the
// handlers.
func RegisterOwner(e *echo.Echo, t *handler.OwnerTableHandler, s *handler.OwnerScheduleHandler, r *handler.OwnerReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "MANAGER"),
	)

	// ---- Tables ----
	g.GET("/restaurants/:id/tables", t.ListTables)
	g.POST("/restaurants/:id/tables", t.CreateTable)
	g.PUT("/restaurants/:id/tables/:tableID", t.UpdateTable)
	g.PATCH("/restaurants/:id/tables/:tableID", t.UpdateTable) // alias for PATCH clients
	g.DELETE("/restaurants/:id/tables/:tableID", t.DeleteTable)

	// ---- Schedule ----
	g.GET("/restaurants/:id/schedule", s.GetSchedule)
	g.PUT("/restaurants/:id/schedule", s.PutSchedule)

	// ---- Reservations ----
	g.GET("/restaurants/:id/reservations", r.ListReservations)
	g.PATCH("/reservations/:id/status", r.UpdateStatus)
}
