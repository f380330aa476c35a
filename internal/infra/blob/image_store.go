// Package blob stores menu item images in object storage through the
// gocloud.dev portable bucket API.
package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"hotellee/config"
	"hotellee/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Bucket drivers selected by the configured URL scheme.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
)

// imageStore implements service.ImageStore on a gocloud bucket.
type imageStore struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// disabledImageStore rejects uploads when no bucket is configured.
type disabledImageStore struct{}

func (disabledImageStore) SaveMenuImage(ctx context.Context, itemID, contentType string, r io.Reader) (string, error) {
	return "", service.ErrImageStoreDisabled
}

// ImageStoreParams holds dependencies for the image store, injected by Fx.
type ImageStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewImageStore opens the configured bucket, or returns a disabled store
// when no bucket is configured.
func NewImageStore(params ImageStoreParams) (service.ImageStore, error) {
	cfg := params.Config.Blob
	if cfg == nil || cfg.BucketURL == "" {
		params.Logger.Info("Blob storage not configured, image uploads disabled")

		return disabledImageStore{}, nil
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return bucket.Close()
		},
	})

	params.Logger.Info("Blob image store initialized", slog.String("bucket", cfg.BucketURL))

	return &imageStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        params.Logger,
	}, nil
}

// SaveMenuImage writes the image under a key derived from the item ID and
// returns the public reference to store on the menu item.
func (s *imageStore) SaveMenuImage(ctx context.Context, itemID, contentType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("menu/%s%s", itemID, extensionFor(contentType))

	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to open bucket writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()

		return "", errors.Wrap(err, "failed to write image")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finish image write")
	}

	s.logger.Info("Menu image stored", slog.String("key", key))

	if s.publicBaseURL == "" {
		return key, nil
	}

	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
