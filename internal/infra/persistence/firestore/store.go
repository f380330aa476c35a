// Package firestore adapts Cloud Firestore to the DocumentStore port.
package firestore

import (
	"context"
	"log/slog"

	"hotellee/config"
	"hotellee/internal/domain/repository"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store implements repository.DocumentStore on Cloud Firestore.
type Store struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewStore connects to Firestore through the Firebase app for the
// configured project.
func NewStore(ctx context.Context, cfg *config.FirebaseConfig, logger *slog.Logger) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create firestore client")
	}

	logger.Info("Firestore store initialized", slog.String("project_id", cfg.ProjectID))

	return &Store{client: client, logger: logger}, nil
}

// Close releases the Firestore client.
func (s *Store) Close() error {
	return errors.WithStack(s.client.Close())
}

// GetDocument fetches a single document.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (*repository.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrDocumentNotFound
		}

		return nil, errors.Wrap(err, "failed to get document")
	}

	return &repository.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// SetDocument writes a document under a caller-chosen ID.
func (s *Store) SetDocument(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}

	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, resolveData(data), opts...); err != nil {
		return errors.Wrap(err, "failed to set document")
	}

	return nil
}

// AddDocument writes a document under a server-assigned ID.
func (s *Store) AddDocument(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, resolveData(data))
	if err != nil {
		return "", errors.Wrap(err, "failed to add document")
	}

	return ref.ID, nil
}

// UpdateDocument applies a partial update to an existing document.
func (s *Store) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) error {
	updates := make([]firestore.Update, 0, len(data))
	for field, value := range resolveData(data) {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}

	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.ErrDocumentNotFound
		}

		return errors.Wrap(err, "failed to update document")
	}

	return nil
}

// DeleteDocument removes a document. Firestore treats deleting an absent
// document as success, matching the port contract.
func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return errors.Wrap(err, "failed to delete document")
	}

	return nil
}

// QueryOnce runs the query and returns the matching documents once.
func (s *Store) QueryOnce(ctx context.Context, query repository.Query) ([]repository.Document, error) {
	snaps, err := s.buildQuery(query).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to run query")
	}

	docs := make([]repository.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, repository.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}

	return docs, nil
}

// Subscribe streams query snapshots to onChange until the subscription is
// torn down. Each notification carries the full current result set.
func (s *Store) Subscribe(ctx context.Context, query repository.Query, onChange func([]repository.Document)) (repository.Unsubscribe, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	iter := s.buildQuery(query).Snapshots(watchCtx)

	go func() {
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					s.logger.Error("Firestore snapshot stream ended",
						slog.String("collection", query.Collection),
						slog.Any("error", err))
				}

				return
			}

			snaps, err := snap.Documents.GetAll()
			if err != nil {
				s.logger.Error("Failed to read snapshot documents",
					slog.String("collection", query.Collection),
					slog.Any("error", err))

				continue
			}

			docs := make([]repository.Document, 0, len(snaps))
			for _, docSnap := range snaps {
				docs = append(docs, repository.Document{ID: docSnap.Ref.ID, Data: docSnap.Data()})
			}

			deliver(onChange, docs, s.logger)
		}
	}()

	return func() {
		cancel()
		iter.Stop()
	}, nil
}

func (s *Store) buildQuery(query repository.Query) firestore.Query {
	collection := s.client.Collection(query.Collection)
	q := collection.Query

	for _, filter := range query.Filters {
		if filter.Field == repository.FieldDocumentID {
			if id, ok := filter.Value.(string); ok {
				q = q.Where(firestore.DocumentID, filter.Op, collection.Doc(id))
			}

			continue
		}
		q = q.Where(filter.Field, filter.Op, filter.Value)
	}

	return q
}

// resolveData substitutes Firestore's server timestamp sentinel for the
// port-level one.
func resolveData(data map[string]any) map[string]any {
	resolved := make(map[string]any, len(data))
	for k, v := range data {
		if v == repository.ServerTimestamp {
			resolved[k] = firestore.ServerTimestamp

			continue
		}
		resolved[k] = v
	}

	return resolved
}

// deliver isolates the subscriber callback so a panic cannot kill the
// snapshot stream goroutine.
func deliver(onChange func([]repository.Document), docs []repository.Document, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Subscription callback panicked", slog.Any("panic", r))
		}
	}()

	onChange(docs)
}
