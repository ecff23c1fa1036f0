package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore adapts a Firestore client to Store.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialised Firestore client (see gcp.InitFirestore).
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	if client == nil {
		panic("firestore client is required")
	}
	return &FirestoreStore{client: client}
}

// Get implements Store.
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return Document{}, mapFirestoreError(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	return fromSnapshot(snap), nil
}

// Query implements Store.
func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	snaps, err := s.buildQuery(collection, q).Documents(ctx).GetAll()
	if err != nil {
		return nil, mapFirestoreError("query "+collection, err)
	}
	return fromSnapshots(snaps), nil
}

// Create implements Store.
func (s *FirestoreStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestore(fields))
	if err != nil {
		return "", mapFirestoreError("create in "+collection, err)
	}
	return ref.ID, nil
}

// Set implements Store.
func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, toFirestore(fields)); err != nil {
		return mapFirestoreError(fmt.Sprintf("set %s/%s", collection, id), err)
	}
	return nil
}

// Update implements Store. Firestore rejects updates of missing documents, which surfaces as ErrNotFound.
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, toUpdates(fields)); err != nil {
		return mapFirestoreError(fmt.Sprintf("update %s/%s", collection, id), err)
	}
	return nil
}

// Delete implements Store.
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return mapFirestoreError(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	return nil
}

// RunTransaction implements Store on top of Firestore's optimistic transactions; fn may be retried.
func (s *FirestoreStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{client: s.client, tx: ftx})
	})
}

// Watch implements Store using query snapshot listeners.
func (s *FirestoreStore) Watch(ctx context.Context, collection string, q Query, fn func([]Document)) error {
	it := s.buildQuery(collection, q).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return mapFirestoreError("watch "+collection, err)
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			return mapFirestoreError("watch "+collection, err)
		}
		fn(fromSnapshots(docs))
	}
}

// Close implements Store.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) buildQuery(collection string, q Query) firestore.Query {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Direction == Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(o.Field, dir)
	}
	return query
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreTx) Get(collection, id string) (Document, error) {
	snap, err := t.tx.Get(t.client.Collection(collection).Doc(id))
	if err != nil {
		return Document{}, mapFirestoreError(fmt.Sprintf("tx get %s/%s", collection, id), err)
	}
	return fromSnapshot(snap), nil
}

func (t *firestoreTx) Create(collection, id string, fields map[string]any) error {
	if err := t.tx.Create(t.client.Collection(collection).Doc(id), toFirestore(fields)); err != nil {
		return mapFirestoreError(fmt.Sprintf("tx create %s/%s", collection, id), err)
	}
	return nil
}

func (t *firestoreTx) Update(collection, id string, fields map[string]any) error {
	if err := t.tx.Update(t.client.Collection(collection).Doc(id), toUpdates(fields)); err != nil {
		return mapFirestoreError(fmt.Sprintf("tx update %s/%s", collection, id), err)
	}
	return nil
}

func (t *firestoreTx) Delete(collection, id string) error {
	if err := t.tx.Delete(t.client.Collection(collection).Doc(id), firestore.Exists); err != nil {
		return mapFirestoreError(fmt.Sprintf("tx delete %s/%s", collection, id), err)
	}
	return nil
}

func mapFirestoreError(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func fromSnapshot(snap *firestore.DocumentSnapshot) Document {
	return Document{ID: snap.Ref.ID, Data: snap.Data()}
}

func fromSnapshots(snaps []*firestore.DocumentSnapshot) []Document {
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, fromSnapshot(snap))
	}
	return docs
}

func toFirestore(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if IsServerTimestamp(v) {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func toUpdates(fields map[string]any) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range toFirestore(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	return updates
}
