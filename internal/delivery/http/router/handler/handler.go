// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"hotellee/internal/delivery/http/middleware"
	"hotellee/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// uidFrom returns the authenticated user's UID set by the auth middleware.
func uidFrom(c echo.Context) (string, bool) {
	uid, ok := c.Get(middleware.ContextKeyUID).(string)

	return uid, ok && uid != ""
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
