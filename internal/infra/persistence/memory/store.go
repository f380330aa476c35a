// Package memory provides an in-memory DocumentStore used for development
// and tests. It mirrors the hosted store's observable behavior: documents
// are untyped field maps, server timestamps resolve on write, and
// subscriptions deliver full result sets in order.
package memory

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"hotellee/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store implements repository.DocumentStore entirely in process memory.
// Documents keep insertion order per collection so unfiltered queries are
// deterministic.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	subs        map[int64]*subscription
	nextSubID   int64

	clock  func() time.Time
	logger *slog.Logger
}

type collection struct {
	order []string
	docs  map[string]map[string]any
}

// NewStore creates an empty store with the wall clock.
func NewStore(logger *slog.Logger) *Store {
	return NewStoreWithClock(logger, time.Now)
}

// NewStoreWithClock creates an empty store with an injectable clock,
// resolving server timestamps deterministically in tests.
func NewStoreWithClock(logger *slog.Logger, clock func() time.Time) *Store {
	return &Store{
		collections: make(map[string]*collection),
		subs:        make(map[int64]*subscription),
		clock:       clock,
		logger:      logger,
	}
}

// GetDocument fetches a single document.
func (s *Store) GetDocument(ctx context.Context, collectionName, id string) (*repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collectionName]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	data, ok := coll.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}

	return &repository.Document{ID: id, Data: cloneData(data)}, nil
}

// SetDocument writes a document under a caller-chosen ID.
func (s *Store) SetDocument(ctx context.Context, collectionName, id string, data map[string]any, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collectionLocked(collectionName)
	resolved := s.resolveData(data)

	existing, ok := coll.docs[id]
	if !ok {
		coll.order = append(coll.order, id)
		coll.docs[id] = resolved
	} else if merge {
		for k, v := range resolved {
			existing[k] = v
		}
	} else {
		coll.docs[id] = resolved
	}

	s.notifyLocked(collectionName)

	return nil
}

// AddDocument writes a document under a generated ID and returns it.
func (s *Store) AddDocument(ctx context.Context, collectionName string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	coll := s.collectionLocked(collectionName)
	coll.order = append(coll.order, id)
	coll.docs[id] = s.resolveData(data)

	s.notifyLocked(collectionName)

	return id, nil
}

// UpdateDocument applies a partial update to an existing document.
func (s *Store) UpdateDocument(ctx context.Context, collectionName, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collectionName]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	existing, ok := coll.docs[id]
	if !ok {
		return repository.ErrDocumentNotFound
	}

	for k, v := range s.resolveData(data) {
		existing[k] = v
	}

	s.notifyLocked(collectionName)

	return nil
}

// DeleteDocument removes a document. Deleting an absent document is not an
// error.
func (s *Store) DeleteDocument(ctx context.Context, collectionName, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collectionName]
	if !ok {
		return nil
	}
	if _, ok := coll.docs[id]; !ok {
		return nil
	}

	delete(coll.docs, id)
	for i, docID := range coll.order {
		if docID == id {
			coll.order = append(coll.order[:i], coll.order[i+1:]...)

			break
		}
	}

	s.notifyLocked(collectionName)

	return nil
}

// QueryOnce runs the query and returns the matching documents once.
func (s *Store) QueryOnce(ctx context.Context, query repository.Query) ([]repository.Document, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resultsLocked(query), nil
}

// Subscribe registers onChange for the query. Notifications are delivered
// from a dedicated goroutine per subscription, in mutation order, and a
// panicking callback does not kill the subscription.
func (s *Store) Subscribe(ctx context.Context, query repository.Query, onChange func([]repository.Document)) (repository.Unsubscribe, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	sub := &subscription{
		query:    query,
		onChange: onChange,
		signal:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
		logger:   s.logger,
	}

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = sub
	sub.enqueue(s.resultsLocked(query))
	s.mu.Unlock()

	go sub.run(ctx)

	unsubscribe := func() {
		sub.once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.stop)
		})
	}

	return unsubscribe, nil
}

// collectionLocked returns the named collection, creating it on first write.
func (s *Store) collectionLocked(name string) *collection {
	coll, ok := s.collections[name]
	if !ok {
		coll = &collection{docs: make(map[string]map[string]any)}
		s.collections[name] = coll
	}

	return coll
}

// resolveData deep-copies the caller's map and substitutes the store's
// current time for every server timestamp sentinel.
func (s *Store) resolveData(data map[string]any) map[string]any {
	resolved := make(map[string]any, len(data))
	for k, v := range data {
		if v == repository.ServerTimestamp {
			resolved[k] = s.clock()

			continue
		}
		resolved[k] = cloneValue(v)
	}

	return resolved
}

// resultsLocked evaluates the query against current state. Callers must
// hold at least the read lock.
func (s *Store) resultsLocked(query repository.Query) []repository.Document {
	docs := []repository.Document{}

	coll, ok := s.collections[query.Collection]
	if !ok {
		return docs
	}

	for _, id := range coll.order {
		data := coll.docs[id]
		if matches(query, id, data) {
			docs = append(docs, repository.Document{ID: id, Data: cloneData(data)})
		}
	}

	return docs
}

// notifyLocked snapshots results for every subscription on the mutated
// collection. Callers must hold the write lock, which is what serializes
// the notification order across subscriptions.
func (s *Store) notifyLocked(collectionName string) {
	for _, sub := range s.subs {
		if sub.query.Collection != collectionName {
			continue
		}
		sub.enqueue(s.resultsLocked(sub.query))
	}
}

func validateQuery(query repository.Query) error {
	for _, filter := range query.Filters {
		if filter.Op != "==" {
			return errors.Errorf("unsupported filter operator: %s", filter.Op)
		}
	}

	return nil
}

func matches(query repository.Query, id string, data map[string]any) bool {
	for _, filter := range query.Filters {
		if filter.Field == repository.FieldDocumentID {
			if filterValue, ok := filter.Value.(string); !ok || filterValue != id {
				return false
			}

			continue
		}
		if !reflect.DeepEqual(data[filter.Field], filter.Value) {
			return false
		}
	}

	return true
}

func cloneData(data map[string]any) map[string]any {
	cloned := make(map[string]any, len(data))
	for k, v := range data {
		cloned[k] = cloneValue(v)
	}

	return cloned
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return cloneData(value)
	case []any:
		cloned := make([]any, len(value))
		for i, item := range value {
			cloned[i] = cloneValue(item)
		}

		return cloned
	case []map[string]any:
		cloned := make([]any, len(value))
		for i, item := range value {
			cloned[i] = cloneData(item)
		}

		return cloned
	default:
		return v
	}
}

// subscription carries one subscriber's pending notification queue. The
// queue is unbounded so mutations never block on a slow subscriber.
type subscription struct {
	query    repository.Query
	onChange func([]repository.Document)
	signal   chan struct{}
	stop     chan struct{}
	once     sync.Once
	logger   *slog.Logger

	queueMu sync.Mutex
	queue   [][]repository.Document
}

func (sub *subscription) enqueue(docs []repository.Document) {
	sub.queueMu.Lock()
	sub.queue = append(sub.queue, docs)
	sub.queueMu.Unlock()

	select {
	case sub.signal <- struct{}{}:
	default:
	}
}

func (sub *subscription) run(ctx context.Context) {
	for {
		select {
		case <-sub.stop:
			return
		case <-ctx.Done():
			return
		case <-sub.signal:
			for {
				sub.queueMu.Lock()
				if len(sub.queue) == 0 {
					sub.queueMu.Unlock()

					break
				}
				docs := sub.queue[0]
				sub.queue = sub.queue[1:]
				sub.queueMu.Unlock()

				sub.deliver(docs)
			}
		}
	}
}

func (sub *subscription) deliver(docs []repository.Document) {
	defer func() {
		if r := recover(); r != nil {
			sub.logger.Error("Subscription callback panicked", slog.Any("panic", r))
		}
	}()

	sub.onChange(docs)
}
