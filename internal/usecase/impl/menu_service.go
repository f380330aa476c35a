package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"hotellee/internal/domain/entity"
	domainerrors "hotellee/internal/domain/errors"
	"hotellee/internal/domain/repository"
	"hotellee/internal/domain/service"
	"hotellee/internal/usecase"

	"github.com/pkg/errors"
)

// menuService implements the MenuUsecase interface.
type menuService struct {
	store  repository.DocumentStore
	images service.ImageStore
	logger *slog.Logger
}

// NewMenuService is the constructor for menuService.
func NewMenuService(
	store repository.DocumentStore,
	images service.ImageStore,
	logger *slog.Logger,
) usecase.MenuUsecase {
	return &menuService{
		store:  store,
		images: images,
		logger: logger,
	}
}

// ListMenu returns every menu item, normalized for the read side.
func (srv *menuService) ListMenu(ctx context.Context) ([]entity.MenuItem, error) {
	docs, err := srv.store.QueryOnce(ctx, repository.Query{Collection: repository.CollectionMenuItems})
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to load menu")
	}

	items := make([]entity.MenuItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, normalizeMenuItem(doc))
	}

	return items, nil
}

// ListCategories returns all categories.
func (srv *menuService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	docs, err := srv.store.QueryOnce(ctx, repository.Query{Collection: repository.CollectionCategories})
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to load categories")
	}

	categories := make([]entity.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, normalizeCategory(doc))
	}

	return categories, nil
}

// CreateCategory adds a new category.
func (srv *menuService) CreateCategory(ctx context.Context, input *usecase.CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("category name is required")
	}

	id, err := srv.store.AddDocument(ctx, repository.CollectionCategories, map[string]any{
		"name":        name,
		"description": input.Description,
		"createdAt":   repository.ServerTimestamp,
		"updatedAt":   repository.ServerTimestamp,
	})
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to create category")
	}

	srv.logger.Info("Category created", slog.String("categoryID", id), slog.String("name", name))

	return &entity.Category{ID: id, Name: name, Description: input.Description}, nil
}

// UpdateCategory overwrites the category's editable fields. Concurrent
// administrator edits resolve last-write-wins.
func (srv *menuService) UpdateCategory(ctx context.Context, id string, input *usecase.CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domainerrors.ErrValidationFailed.WithDetails("category name is required")
	}

	err := srv.store.UpdateDocument(ctx, repository.CollectionCategories, id, map[string]any{
		"name":        name,
		"description": input.Description,
		"updatedAt":   repository.ServerTimestamp,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("update category")
		}

		return domainerrors.NewRemoteOperationError(err, "failed to update category")
	}

	return nil
}

// DeleteCategory removes a category. Menu items keep whatever category IDs
// they reference; dangling references are tolerated on the read side.
func (srv *menuService) DeleteCategory(ctx context.Context, id string) error {
	if err := srv.store.DeleteDocument(ctx, repository.CollectionCategories, id); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("delete category")
		}

		return domainerrors.NewRemoteOperationError(err, "failed to delete category")
	}

	srv.logger.Info("Category deleted", slog.String("categoryID", id))

	return nil
}

// CreateMenuItem adds a new menu item. Availability defaults to true when
// the input leaves it unset.
func (srv *menuService) CreateMenuItem(ctx context.Context, input *usecase.MenuItemInput) (*entity.MenuItem, error) {
	if err := validateMenuItem(input); err != nil {
		return nil, err
	}

	item := menuItemFromInput(input)

	id, err := srv.store.AddDocument(ctx, repository.CollectionMenuItems, menuItemData(item))
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to create menu item")
	}
	item.ID = id

	srv.logger.Info("Menu item created", slog.String("itemID", id), slog.String("name", item.Name))

	return &item, nil
}

// UpdateMenuItem overwrites the item's editable fields, last-write-wins.
func (srv *menuService) UpdateMenuItem(ctx context.Context, id string, input *usecase.MenuItemInput) error {
	if err := validateMenuItem(input); err != nil {
		return err
	}

	err := srv.store.UpdateDocument(ctx, repository.CollectionMenuItems, id, menuItemData(menuItemFromInput(input)))
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return domainerrors.ErrMenuItemNotFound.WrapMessage("update menu item")
		}

		return domainerrors.NewRemoteOperationError(err, "failed to update menu item")
	}

	return nil
}

// DeleteMenuItem removes a menu item. Already-placed orders keep their
// frozen copy of the item and are unaffected.
func (srv *menuService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := srv.store.DeleteDocument(ctx, repository.CollectionMenuItems, id); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return domainerrors.ErrMenuItemNotFound.WrapMessage("delete menu item")
		}

		return domainerrors.NewRemoteOperationError(err, "failed to delete menu item")
	}

	srv.logger.Info("Menu item deleted", slog.String("itemID", id))

	return nil
}

// AttachImage uploads the image and records its public reference on the item.
func (srv *menuService) AttachImage(ctx context.Context, id, contentType string, r io.Reader) (string, error) {
	if _, err := srv.store.GetDocument(ctx, repository.CollectionMenuItems, id); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return "", domainerrors.ErrMenuItemNotFound.WrapMessage("attach image")
		}

		return "", domainerrors.NewRemoteOperationError(err, "failed to load menu item")
	}

	ref, err := srv.images.SaveMenuImage(ctx, id, contentType, r)
	if err != nil {
		return "", errors.Wrap(err, "failed to store menu image")
	}

	if err := srv.store.UpdateDocument(ctx, repository.CollectionMenuItems, id, map[string]any{
		"image": ref,
	}); err != nil {
		return "", domainerrors.NewRemoteOperationError(err, "failed to record menu image")
	}

	srv.logger.Info("Menu image attached", slog.String("itemID", id))

	return ref, nil
}

func validateMenuItem(input *usecase.MenuItemInput) error {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("menu item name is required")
	}
	if input.Price < 0 {
		return domainerrors.ErrValidationFailed.WithDetails("menu item price must not be negative")
	}

	return nil
}

func menuItemFromInput(input *usecase.MenuItemInput) entity.MenuItem {
	item := entity.MenuItem{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Categories:  input.Categories,
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if item.Categories == nil {
		item.Categories = []string{}
	}

	return item
}

// menuItemData maps an item onto the persisted field names. Writes always
// use the current schema; the legacy spellings exist only on the read side.
func menuItemData(item entity.MenuItem) map[string]any {
	return map[string]any{
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"image":       item.Image,
		"categories":  item.Categories,
		"isAvailable": item.IsAvailable,
	}
}

// normalizeMenuItem maps one raw record onto the uniform item shape.
// Availability defaults to true when the field is absent so that legacy
// records written before the flag existed stay orderable. Categories
// tolerate the list shape, the legacy scalar "category" field, or absence.
func normalizeMenuItem(doc repository.Document) entity.MenuItem {
	data := doc.Data

	item := entity.MenuItem{
		ID:          doc.ID,
		Name:        stringField(data, "name"),
		Description: stringField(data, "description"),
		Price:       floatValue(data["price"]),
		Image:       probeString(data, []string{"image", "imageUrl", "image_url"}, ""),
		Categories:  normalizeCategories(data),
		IsAvailable: true,
	}

	if available, ok := data["isAvailable"].(bool); ok {
		item.IsAvailable = available
	}

	return item
}

func normalizeCategories(data map[string]any) []string {
	categories := []string{}

	switch raw := data["categories"].(type) {
	case []string:
		categories = append(categories, raw...)
	case []any:
		for _, v := range raw {
			if s, ok := v.(string); ok && s != "" {
				categories = append(categories, s)
			}
		}
	}

	// Legacy records carry a single scalar category.
	if len(categories) == 0 {
		if s, ok := data["category"].(string); ok && s != "" {
			categories = append(categories, s)
		}
	}

	return categories
}

// normalizeCategory maps one raw record onto the category shape.
func normalizeCategory(doc repository.Document) entity.Category {
	category := entity.Category{
		ID:          doc.ID,
		Name:        stringField(doc.Data, "name"),
		Description: stringField(doc.Data, "description"),
	}

	if ts, ok := timeValue(doc.Data["createdAt"]); ok {
		category.CreatedAt = ts
	}
	if ts, ok := timeValue(doc.Data["updatedAt"]); ok {
		category.UpdatedAt = ts
	}

	return category
}
