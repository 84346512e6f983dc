package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// ErrMissingProjectID is returned when the firestore backend has no project.
var ErrMissingProjectID = errors.New("firestore backend requires a project id")

// FirestoreStore persists records in a hosted Cloud Firestore database.
// Timestamps are assigned by Firestore itself.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the Firestore database of projectID.
// An empty database selects the default database.
func NewFirestoreStore(ctx context.Context, projectID, database, credentialsURL string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, ErrMissingProjectID
	}
	if database == "" {
		database = firestore.DefaultDatabaseID
	}

	opts, err := credentialOptions(ctx, credentialsURL)
	if err != nil {
		return nil, err
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, database, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

// Name implements Gateway.
func (f *FirestoreStore) Name() string {
	return BackendFirestore
}

// Insert implements Gateway.
func (f *FirestoreStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	doc := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			doc[k] = firestore.ServerTimestamp
			continue
		}
		doc[k] = v
	}

	ref, _, err := f.client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", wrap("insert", collection, err)
	}
	return ref.ID, nil
}

// QueryRecent implements Gateway. Firestore leaves out documents that lack
// orderField.
func (f *FirestoreStore) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error) {
	records := []Record{}
	if limit <= 0 {
		return records, nil
	}

	snaps, err := f.client.Collection(collection).
		OrderBy(orderField, firestore.Desc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, wrap("query", collection, err)
	}

	for _, snap := range snaps {
		records = append(records, Record{ID: snap.Ref.ID, Fields: Fields(snap.Data())})
	}
	return records, nil
}

// Ping implements Gateway by listing the first collection.
func (f *FirestoreStore) Ping(ctx context.Context) error {
	_, err := f.client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return wrap("ping", "", err)
	}
	return nil
}

// Close implements Gateway.
func (f *FirestoreStore) Close() error {
	return f.client.Close()
}
