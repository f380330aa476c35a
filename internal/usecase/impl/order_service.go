package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"hotellee/internal/domain/entity"
	domainerrors "hotellee/internal/domain/errors"
	"hotellee/internal/domain/repository"
	"hotellee/internal/domain/service"
	"hotellee/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Checkout validation thresholds, matching what the web client enforced.
const (
	minPhoneDigits   = 10
	minAddressLength = 10
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	store     repository.DocumentStore
	carts     usecase.CartUsecase
	sessions  usecase.SessionUsecase
	publisher service.EventPublisher
	qrcodes   service.QRCodeService
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	Store     repository.DocumentStore
	Carts     usecase.CartUsecase
	Sessions  usecase.SessionUsecase
	Publisher service.EventPublisher
	QRCodes   service.QRCodeService
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		store:     params.Store,
		carts:     params.Carts,
		sessions:  params.Sessions,
		publisher: params.Publisher,
		qrcodes:   params.QRCodes,
		logger:    params.Logger,
	}
}

// Checkout freezes the current cart plus the caller's contact details into
// an immutable pending order. The cart is cleared only after the store
// accepted the write; a failed write leaves the cart intact so the user can
// simply retry.
func (srv *orderService) Checkout(ctx context.Context, userID string, input *usecase.CheckoutInput) (*entity.Order, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	cart, err := srv.carts.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart for checkout")
	}
	if len(cart.Lines) == 0 {
		return nil, domainerrors.ErrCartEmpty.WrapMessage("checkout")
	}

	profile, err := srv.sessions.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, domainerrors.ErrProfileNotFound) {
		return nil, errors.Wrap(err, "failed to load profile for checkout")
	}

	userName := guestName
	userEmail := ""
	if profile != nil {
		if profile.FullName != "" {
			userName = profile.FullName
		}
		userEmail = profile.Email
	}

	items := make([]map[string]any, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, map[string]any{
			"id":       line.ItemID,
			"name":     line.Name,
			"price":    line.Price,
			"quantity": line.Quantity,
			"image":    line.Image,
		})
	}

	data := map[string]any{
		"userId":          userID,
		"userName":        userName,
		"userEmail":       userEmail,
		"userPhone":       input.Phone,
		"items":           items,
		"totalAmount":     cart.TotalPrice,
		"deliveryAddress": strings.TrimSpace(input.Address),
		"status":          entity.OrderStatusPending.String(),
		"createdAt":       repository.ServerTimestamp,
		"paymentMethod":   entity.PaymentMethodCOD,
	}

	orderID, err := srv.store.AddDocument(ctx, repository.CollectionOrders, data)
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to place order")
	}

	if err := srv.carts.Clear(ctx, userID); err != nil {
		// The order is already placed; a stale mirror is recoverable and
		// must not fail the checkout.
		srv.logger.Warn("Failed to clear cart after checkout", slog.String("userID", userID), slog.Any("error", err))
	}

	order := &entity.Order{
		ID:              orderID,
		UserID:          userID,
		UserName:        userName,
		UserPhone:       input.Phone,
		UserEmail:       userEmail,
		Items:           cart.Lines,
		TotalAmount:     cart.TotalPrice,
		DeliveryAddress: strings.TrimSpace(input.Address),
		Status:          entity.OrderStatusPending,
		PaymentMethod:   entity.PaymentMethodCOD,
	}

	srv.publishEvent(ctx, &service.OrderEvent{
		Type:        service.EventTypeOrderPlaced,
		OrderID:     orderID,
		UserID:      userID,
		Status:      entity.OrderStatusPending.String(),
		TotalAmount: cart.TotalPrice,
	})

	srv.logger.Info("Order placed",
		slog.String("orderID", orderID),
		slog.String("userID", userID),
		slog.Float64("totalAmount", cart.TotalPrice))

	return order, nil
}

// ListUserOrders returns the caller's orders, reconciled and sorted.
func (srv *orderService) ListUserOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	docs, err := srv.store.QueryOnce(ctx, repository.Query{
		Collection: repository.CollectionOrders,
		Filters:    []repository.Filter{{Field: "userId", Op: "==", Value: userID}},
	})
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to load orders")
	}

	return ReconcileOrders(docs), nil
}

// ListAllOrders returns the full reconciled board for administrators.
func (srv *orderService) ListAllOrders(ctx context.Context) (*usecase.OrderBoard, error) {
	docs, err := srv.store.QueryOnce(ctx, repository.Query{Collection: repository.CollectionOrders})
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to load orders")
	}

	return toOrderBoard(BuildOrderBoard(ReconcileOrders(docs))), nil
}

// WatchOrders subscribes the callback to the live reconciled board. The
// full reconciliation pass re-runs on every change notification.
func (srv *orderService) WatchOrders(ctx context.Context, onChange func(*usecase.OrderBoard)) (repository.Unsubscribe, error) {
	unsubscribe, err := srv.store.Subscribe(ctx,
		repository.Query{Collection: repository.CollectionOrders},
		func(docs []repository.Document) {
			onChange(toOrderBoard(BuildOrderBoard(ReconcileOrders(docs))))
		})
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to watch orders")
	}

	return unsubscribe, nil
}

// UpdateStatus transitions an order along the status graph. Transitions out
// of a terminal status are rejected instead of silently applied. Against
// concurrent administrators the write itself is last-write-wins with no
// version check; acceptable under the single-operator assumption.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID string, next entity.OrderStatus) error {
	if !next.IsValid() {
		return domainerrors.ErrOrderStatusInvalid.WithDetails(next.String())
	}

	doc, err := srv.store.GetDocument(ctx, repository.CollectionOrders, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return domainerrors.ErrOrderNotFound.WrapMessage("update status")
		}

		return domainerrors.NewRemoteOperationError(err, "failed to load order")
	}

	current := reconcileOrder(*doc).Status
	if current.IsTerminal() {
		return domainerrors.ErrOrderStatusFinal.WithDetails(current.String())
	}
	if !current.CanTransitionTo(next) {
		return domainerrors.ErrOrderTransitionIllegal.
			WithDetails(current.String() + " -> " + next.String())
	}

	if err := srv.store.UpdateDocument(ctx, repository.CollectionOrders, orderID, map[string]any{
		"status": next.String(),
	}); err != nil {
		return domainerrors.NewRemoteOperationError(err, "failed to update order status")
	}

	srv.publishEvent(ctx, &service.OrderEvent{
		Type:    service.EventTypeOrderStatusChanged,
		OrderID: orderID,
		Status:  next.String(),
	})

	srv.logger.Info("Order status updated",
		slog.String("orderID", orderID),
		slog.String("from", current.String()),
		slog.String("to", next.String()))

	return nil
}

// TrackingQR renders the tracking QR code for an existing order.
func (srv *orderService) TrackingQR(ctx context.Context, orderID string) ([]byte, error) {
	if _, err := srv.store.GetDocument(ctx, repository.CollectionOrders, orderID); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, domainerrors.ErrOrderNotFound.WrapMessage("tracking QR")
		}

		return nil, domainerrors.NewRemoteOperationError(err, "failed to load order")
	}

	png, err := srv.qrcodes.GenerateTrackingQR(orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tracking QR")
	}

	return png, nil
}

// publishEvent publishes best-effort: a broken event stream never fails the
// order operation that triggered it.
func (srv *orderService) publishEvent(ctx context.Context, event *service.OrderEvent) {
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.logger.Warn("Failed to publish order event",
			slog.String("type", event.Type),
			slog.String("orderID", event.OrderID),
			slog.Any("error", err))
	}
}

func validateCheckout(input *usecase.CheckoutInput) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("checkout input missing")
	}
	if countDigits(input.Phone) < minPhoneDigits {
		return domainerrors.ErrPhoneInvalid.WrapMessage("checkout")
	}
	if len(strings.TrimSpace(input.Address)) < minAddressLength {
		return domainerrors.ErrAddressInvalid.WrapMessage("checkout")
	}

	return nil
}

func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}

	return count
}

func toOrderBoard(view *OrderBoardView) *usecase.OrderBoard {
	return &usecase.OrderBoard{
		Orders:       view.Orders,
		PendingCount: view.PendingCount,
		Revenue:      view.Revenue,
		TotalCount:   view.TotalCount,
	}
}
