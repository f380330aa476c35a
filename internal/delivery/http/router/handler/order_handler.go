package handler

import (
	"net/http"

	"hotellee/internal/delivery/http/response"
	"hotellee/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for customer-facing order handlers.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Checkout places an order from the caller's current cart.
func (h *OrderHandler) Checkout(c echo.Context) error {
	uid, ok := uidFrom(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	var input usecase.CheckoutInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.uc.Checkout(c.Request().Context(), uid, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// ListMine returns the caller's order history, newest first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	uid, ok := uidFrom(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	orders, err := h.uc.ListUserOrders(c.Request().Context(), uid)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// TrackingQR renders the tracking QR code PNG for an order.
func (h *OrderHandler) TrackingQR(c echo.Context) error {
	if _, ok := uidFrom(c); !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication is required")
	}

	png, err := h.uc.TrackingQR(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
