package usecase

import (
	"context"
	"io"

	"hotellee/internal/domain/entity"
)

// --- Input DTOs ---

// CategoryInput defines the data for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// MenuItemInput defines the data for creating or updating a menu item.
type MenuItemInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price" validate:"gte=0"`
	Image       string   `json:"image,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
}

// MenuUsecase covers the public menu read side and the administrator's
// category and menu item management.
type MenuUsecase interface {
	// ListMenu returns all menu items, normalized (availability defaults
	// to true, categories tolerate any arity or the legacy scalar shape).
	ListMenu(ctx context.Context) ([]entity.MenuItem, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]entity.Category, error)

	CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id string, input *CategoryInput) error
	DeleteCategory(ctx context.Context, id string) error

	CreateMenuItem(ctx context.Context, input *MenuItemInput) (*entity.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, input *MenuItemInput) error
	DeleteMenuItem(ctx context.Context, id string) error

	// AttachImage stores the image in object storage and records the
	// public reference on the menu item.
	AttachImage(ctx context.Context, id, contentType string, r io.Reader) (string, error)
}
