package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"hotellee/config"
	"hotellee/internal/delivery"
	"hotellee/internal/delivery/http"
	httpmiddleware "hotellee/internal/delivery/http/middleware"
	"hotellee/internal/delivery/http/router/handler"
	deliverymiddleware "hotellee/internal/delivery/middleware"
	"hotellee/internal/domain/repository"
	"hotellee/internal/domain/service"
	authfirebase "hotellee/internal/infra/auth/firebase"
	"hotellee/internal/infra/auth/local"
	"hotellee/internal/infra/blob"
	logs "hotellee/internal/infra/log"
	"hotellee/internal/infra/persistence/cartfile"
	"hotellee/internal/infra/persistence/firestore"
	"hotellee/internal/infra/persistence/memory"
	"hotellee/internal/infra/pubsub"
	"hotellee/internal/infra/qrcode"
	"hotellee/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		pubsub.Module,
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		newDocumentStore,
		newCartStorage,
	)
}

// newDocumentStore selects the hosted store when Firebase is configured and
// the in-memory store otherwise.
func newDocumentStore(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.DocumentStore, error) {
	if cfg.Firebase == nil {
		logger.Info("Firebase not configured, using in-memory document store")

		return memory.NewStore(logger), nil
	}

	store, err := firestore.NewStore(ctx, cfg.Firebase, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore store: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// newCartStorage creates the durable local cart mirror.
func newCartStorage(cfg *config.Config, logger *slog.Logger) (repository.CartStorage, error) {
	return cartfile.NewStorage(cfg.Cart.Path, logger)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newIdentityProvider,
			newQRCodeService,
			blob.NewImageStore,
		),
	)
}

// newIdentityProvider selects the hosted identity service when Firebase is
// configured and the local dev provider otherwise.
func newIdentityProvider(ctx context.Context, cfg *config.Config, store repository.DocumentStore, logger *slog.Logger) (service.IdentityProvider, error) {
	if cfg.Firebase == nil {
		logger.Info("Firebase not configured, using local identity provider")

		return local.NewProvider(cfg.LocalAuth, store, logger)
	}

	provider, err := authfirebase.NewProvider(ctx, cfg.Firebase, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase identity provider: %w", err)
	}

	return provider, nil
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M", "http://localhost:8080")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewCartService,
			impl.NewMenuService,
			impl.NewOrderService,
			impl.NewSessionService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpmiddleware.NewAuthMiddleware,
			httpmiddleware.NewErrorMiddleware,
			deliverymiddleware.NewRequestIDMiddleware,
			deliverymiddleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewMenuHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
