package handler

import (
	"net/http"

	"hotellee/internal/delivery/http/response"
	"hotellee/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MenuHandler holds dependencies for the public menu read side.
type MenuHandler struct {
	uc usecase.MenuUsecase
}

// NewMenuHandler is the constructor for MenuHandler, injected by Fx.
func NewMenuHandler(uc usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

// ListMenu returns all menu items. The menu is public; no authentication
// is required to browse it.
func (h *MenuHandler) ListMenu(c echo.Context) error {
	items, err := h.uc.ListMenu(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, items, "Menu retrieved successfully")
}

// ListCategories returns all categories.
func (h *MenuHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "Categories retrieved successfully")
}
