package service

import (
	"context"
	"errors"
	"io"
)

// ErrImageStoreDisabled is returned when no image bucket is configured.
var ErrImageStoreDisabled = errors.New("image storage is not configured")

// ImageStore persists menu item images in object storage and returns a
// public reference to store on the MenuItem.
type ImageStore interface {
	SaveMenuImage(ctx context.Context, itemID, contentType string, r io.Reader) (string, error)
}
