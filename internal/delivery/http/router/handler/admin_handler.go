package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"hotellee/internal/delivery/http/response"
	"hotellee/internal/domain/entity"
	"hotellee/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for the administrator surface.
type AdminHandler struct {
	orders usecase.OrderUsecase
	menu   usecase.MenuUsecase
	logger *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(orders usecase.OrderUsecase, menu usecase.MenuUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{orders: orders, menu: menu, logger: logger}
}

// Board returns the current reconciled order board.
func (h *AdminHandler) Board(c echo.Context) error {
	board, err := h.orders.ListAllOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, board, "Order board retrieved successfully")
}

// StreamBoard pushes the live order board over server-sent events. Each
// event carries the full board; intermediate snapshots the client was too
// slow to receive are dropped in favor of the latest one.
func (h *AdminHandler) StreamBoard(c echo.Context) error {
	ctx := c.Request().Context()
	updates := make(chan *usecase.OrderBoard, 1)

	// Subscribe before committing the response so a failed subscription
	// still renders the error envelope.
	unsubscribe, err := h.orders.WatchOrders(ctx, func(board *usecase.OrderBoard) {
		for {
			select {
			case updates <- board:
				return
			default:
				// Latest wins: drop the stale pending snapshot.
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	if err != nil {
		return errors.WithStack(err)
	}
	defer unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case board := <-updates:
			payload, err := json.Marshal(board)
			if err != nil {
				h.logger.Error("Failed to encode order board", slog.Any("error", err))

				continue
			}
			if _, err := fmt.Fprintf(w, "event: board\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// UpdateStatus transitions an order's status.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	next := entity.OrderStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if err := h.orders.UpdateStatus(c.Request().Context(), c.Param("id"), next); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": next.String()}, "Order status updated")
}

// CreateCategory adds a new category.
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	category, err := h.menu.CreateCategory(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, category, "Category created successfully")
}

// UpdateCategory overwrites a category's editable fields.
func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.menu.UpdateCategory(c.Request().Context(), c.Param("id"), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Category updated"}, "Category updated successfully")
}

// DeleteCategory removes a category.
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	if err := h.menu.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Category deleted"}, "Category deleted successfully")
}

// CreateMenuItem adds a new menu item.
func (h *AdminHandler) CreateMenuItem(c echo.Context) error {
	var input usecase.MenuItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid menu item input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.menu.CreateMenuItem(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, item, "Menu item created successfully")
}

// UpdateMenuItem overwrites a menu item's editable fields.
func (h *AdminHandler) UpdateMenuItem(c echo.Context) error {
	var input usecase.MenuItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid menu item input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.menu.UpdateMenuItem(c.Request().Context(), c.Param("id"), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Menu item updated"}, "Menu item updated successfully")
}

// DeleteMenuItem removes a menu item.
func (h *AdminHandler) DeleteMenuItem(c echo.Context) error {
	if err := h.menu.DeleteMenuItem(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Menu item deleted"}, "Menu item deleted successfully")
}

// UploadImage attaches an image to a menu item. The image arrives either
// as a multipart "image" field or as the raw request body.
func (h *AdminHandler) UploadImage(c echo.Context) error {
	itemID := c.Param("id")

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Failed to read uploaded image")
		}
		defer src.Close()

		ref, err := h.menu.AttachImage(c.Request().Context(), itemID, file.Header.Get(echo.HeaderContentType), src)
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, map[string]string{"image": ref}, "Image uploaded successfully")
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	ref, err := h.menu.AttachImage(c.Request().Context(), itemID, contentType, c.Request().Body)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"image": ref}, "Image uploaded successfully")
}
