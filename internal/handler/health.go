package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and the frontend to
// check that the backend is up.  It does not touch the database.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "OK", "message": "Backend is running"})
}
