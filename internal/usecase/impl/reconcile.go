// Package impl contains the application-specific business rules implementations.
package impl

import (
	"sort"
	"time"

	"hotellee/internal/domain/entity"
	"hotellee/internal/domain/repository"
)

// The orders collection has accumulated records from at least two historical
// schema versions. Each logical attribute is recovered by probing an ordered
// list of candidate field names, left to right; the first present, non-empty
// value wins.
var (
	userNameFields  = []string{"userName", "user_name", "name", "customerName", "customer_name"}
	createdAtFields = []string{"createdAt", "created_at", "timestamp", "date", "orderDate"}
)

// guestName is the display name for records carrying no recognizable name.
const guestName = "Guest"

// timeLayouts are tried in order when a timestamp arrives as a string.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
}

// ReconcileOrders normalizes a heterogeneous set of raw order records into a
// uniform list sorted newest first. Records with no usable timestamp sort as
// the epoch, so they sink to the end instead of failing the pass. The pass
// is re-run in full on every change notification; at the expected volumes
// (tens to low thousands of orders) that is cheaper than being clever.
func ReconcileOrders(docs []repository.Document) []entity.Order {
	orders := make([]entity.Order, 0, len(docs))
	instants := make(map[string]time.Time, len(docs))

	for _, doc := range docs {
		order := reconcileOrder(doc)
		orders = append(orders, order)
		instants[order.ID] = sortInstant(probeValue(doc.Data, createdAtFields))
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return instants[orders[i].ID].After(instants[orders[j].ID])
	})

	return orders
}

// reconcileOrder maps one raw record onto the uniform order shape,
// defaulting every missing or malformed field instead of erroring.
func reconcileOrder(doc repository.Document) entity.Order {
	data := doc.Data

	order := entity.Order{
		ID:              doc.ID,
		UserID:          stringField(data, "userId"),
		UserName:        probeString(data, userNameFields, guestName),
		UserPhone:       stringField(data, "userPhone"),
		UserEmail:       stringField(data, "userEmail"),
		Items:           reconcileItems(data["items"]),
		TotalAmount:     floatValue(data["totalAmount"]),
		DeliveryAddress: stringField(data, "deliveryAddress"),
		Status:          entity.OrderStatus(stringField(data, "status")),
		PaymentMethod:   stringField(data, "paymentMethod"),
	}

	if raw := probeValue(data, createdAtFields); raw != nil {
		if ts, ok := timeValue(raw); ok {
			order.CreatedAt = &ts
		}
	}

	return order
}

// reconcileItems converts the raw items array into cart lines, tolerating
// both the current and the legacy field spellings.
func reconcileItems(raw any) []entity.CartLine {
	rawItems, ok := raw.([]any)
	if !ok {
		return nil
	}

	lines := make([]entity.CartLine, 0, len(rawItems))
	for _, rawItem := range rawItems {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}

		line := entity.CartLine{
			ItemID:   probeString(item, []string{"id", "itemId", "item_id"}, ""),
			Name:     stringField(item, "name"),
			Price:    floatValue(item["price"]),
			Quantity: intValue(item["quantity"]),
			Image:    probeString(item, []string{"image", "imageUrl", "image_url"}, ""),
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		lines = append(lines, line)
	}

	return lines
}

// BuildOrderBoard derives the dashboard aggregates from a reconciled list.
// The aggregates are recomputed on every pass, never cached.
func BuildOrderBoard(orders []entity.Order) *OrderBoardView {
	board := &OrderBoardView{
		Orders:     orders,
		TotalCount: len(orders),
	}

	for i := range orders {
		switch orders[i].Status {
		case entity.OrderStatusPending:
			board.PendingCount++
		case entity.OrderStatusDelivered:
			board.Revenue += orders[i].TotalAmount
		}
	}

	return board
}

// OrderBoardView mirrors usecase.OrderBoard without importing it, keeping
// the reconciliation helpers free of upward dependencies.
type OrderBoardView struct {
	Orders       []entity.Order
	PendingCount int
	Revenue      float64
	TotalCount   int
}

// probeValue returns the first present, non-nil candidate field.
func probeValue(data map[string]any, fields []string) any {
	for _, field := range fields {
		if v, ok := data[field]; ok && v != nil {
			if s, isString := v.(string); isString && s == "" {
				continue
			}

			return v
		}
	}

	return nil
}

// probeString returns the first present, non-empty string candidate,
// falling back to def.
func probeString(data map[string]any, fields []string, def string) string {
	for _, field := range fields {
		if s, ok := data[field].(string); ok && s != "" {
			return s
		}
	}

	return def
}

func stringField(data map[string]any, field string) string {
	s, _ := data[field].(string)

	return s
}

// sortInstant builds a comparable instant for ordering. Absent or
// unparseable timestamps degrade to the epoch rather than erroring.
func sortInstant(raw any) time.Time {
	if raw == nil {
		return time.Unix(0, 0).UTC()
	}

	if ts, ok := timeValue(raw); ok {
		return ts
	}

	return time.Unix(0, 0).UTC()
}

// timeValue attempts to interpret a raw field as an instant: native
// timestamps directly, strings via the known layouts, numbers as unix
// seconds or milliseconds.
func timeValue(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}

		return *v, true
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}

		return time.Time{}, false
	case int, int32, int64, float64:
		return unixInstant(floatValue(v)), true
	default:
		return time.Time{}, false
	}
}

// unixInstant treats values past the year ~33658 in seconds as milliseconds.
func unixInstant(v float64) time.Time {
	const millisThreshold = 1e12
	if v >= millisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}

	return time.Unix(int64(v), 0).UTC()
}

func floatValue(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func intValue(raw any) int {
	switch v := raw.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
