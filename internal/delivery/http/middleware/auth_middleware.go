package middleware

import (
	"strings"

	"hotellee/internal/delivery/http/response"
	"hotellee/internal/domain/service"
	"hotellee/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyUID      = "uid"
	ContextKeyIdentity = "identity"
)

// AuthMiddleware provides middleware for token authentication and the
// admin gate.
type AuthMiddleware struct {
	identity service.IdentityProvider
	sessions usecase.SessionUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(identity service.IdentityProvider, sessions usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{identity: identity, sessions: sessions}
}

// Authenticate validates the bearer token with the identity provider and
// stores the verified identity on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		identity, err := m.identity.VerifyToken(c.Request().Context(), tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid or expired token")
		}

		c.Set(ContextKeyUID, identity.UID)
		c.Set(ContextKeyIdentity, identity)

		return next(c)
	}
}

// RequireAdmin gates a route on the live profile role. It must be used
// AFTER the Authenticate middleware. The answer tracks the profile
// document, so an administrator demoted mid-session loses access on their
// next request without re-authenticating.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get(ContextKeyUID).(string)
		if !ok || uid == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
		}

		isAdmin, err := m.sessions.IsAdmin(c.Request().Context(), uid)
		if err != nil {
			return errors.WithStack(err)
		}
		if !isAdmin {
			return response.Forbidden(c, "FORBIDDEN", "Administrator access is required")
		}

		return next(c)
	}
}
