// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"
)

// Collection names used by the application. The hosted store is the single
// source of truth for all of them; the client never assumes exclusive access.
const (
	CollectionUsers      = "users"
	CollectionCategories = "categories"
	CollectionMenuItems  = "menuItems"
	CollectionOrders     = "orders"
)

// ErrDocumentNotFound is returned when a requested document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// FieldDocumentID is the pseudo field name that filters on the document ID
// itself. Every DocumentStore implementation must support equality on it.
const FieldDocumentID = "__name__"

// Document is a raw persisted record: an ID plus an untyped field map.
// Readers must tolerate heterogeneous shapes written by older schema
// versions and normalize them instead of failing.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter is a single field predicate within a query. Only equality is
// needed by this application.
type Filter struct {
	Field string
	Op    string // "==" is the only operator the stores are required to support.
	Value any
}

// Query selects documents from one collection. An empty Filters slice
// selects the whole collection.
type Query struct {
	Collection string
	Filters    []Filter
}

// Unsubscribe tears down a change subscription. It must be called when the
// owning scope becomes inactive, on all exit paths, and must be safe to
// call more than once.
type Unsubscribe func()

// serverTimestamp is the sentinel type behind ServerTimestamp.
type serverTimestamp struct{}

// ServerTimestamp is a sentinel field value that instructs the store to
// substitute its own authoritative write time for the field.
var ServerTimestamp = serverTimestamp{}

// DocumentStore is the generic document-database port. The hosted backend
// is reachable only through this interface; there is no other persistence
// surface for orders, menu items, categories, or profiles.
type DocumentStore interface {
	// GetDocument fetches a single document, ErrDocumentNotFound when absent.
	GetDocument(ctx context.Context, collection, id string) (*Document, error)

	// SetDocument writes a document under a caller-chosen ID. With merge
	// set, existing fields not present in data are preserved.
	SetDocument(ctx context.Context, collection, id string, data map[string]any, merge bool) error

	// AddDocument writes a document under a server-assigned ID and returns it.
	AddDocument(ctx context.Context, collection string, data map[string]any) (string, error)

	// UpdateDocument applies a partial update to an existing document.
	UpdateDocument(ctx context.Context, collection, id string, data map[string]any) error

	// DeleteDocument removes a document. Deleting an absent document is not
	// an error.
	DeleteDocument(ctx context.Context, collection, id string) error

	// QueryOnce runs the query and returns the matching documents once.
	QueryOnce(ctx context.Context, query Query) ([]Document, error)

	// Subscribe invokes onChange with the full matching document set, first
	// with the current state and then after every change, in the order the
	// store emits them. The subscription lives until the returned
	// Unsubscribe is called or ctx is done. A panic inside onChange must
	// not kill the subscription.
	Subscribe(ctx context.Context, query Query, onChange func([]Document)) (Unsubscribe, error)
}
