package handler

import (
	"log/slog"
	"net/http"

	"hotellee/internal/delivery/http/response"
	"hotellee/internal/domain/service"
	"hotellee/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for session and profile handlers.
type AuthHandler struct {
	uc     usecase.SessionUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.SessionUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, logger: logger}
}

// SignUp handles new account registration.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var input usecase.SignUpInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-up input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.SignUp(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Account created successfully")
}

// Login handles email/password sign-in.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.SignInInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.SignIn(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// GoogleLogin exchanges a Google ID token for a session.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var input struct {
		IDToken string `json:"idToken" validate:"required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google sign-in input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.SignInWithGoogle(c.Request().Context(), input.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrFederatedSignInUnavailable) {
			return response.Error(c, http.StatusNotImplemented,
				"FEDERATED_SIGNIN_UNAVAILABLE", "Google sign-in is not available in this environment", "")
		}

		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Google sign-in successful")
}

// Logout invalidates the caller's sessions.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := uidFrom(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	if err := h.uc.SignOut(c.Request().Context(), uid); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Signed out"}, "Logout successful")
}

// GetProfile returns the caller's profile.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	uid, ok := uidFrom(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile retrieved successfully")
}

// UpdateProfile mutates the caller's name, phone, and address.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, ok := uidFrom(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	if err := h.uc.UpdateProfile(c.Request().Context(), uid, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Profile updated"}, "Profile updated successfully")
}
