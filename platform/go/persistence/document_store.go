package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

// stampedData merges server timestamps for the keys listed in $3 into the JSON document in $2.
const stampedData = `($2::jsonb || COALESCE((SELECT jsonb_object_agg(k, to_jsonb(statement_timestamp())) FROM unnest($3::text[]) AS k), '{}'::jsonb))`

// DocumentStore implements docstore.Store on a single JSONB table (database/schema/documents.sql).
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore wraps a pool whose search_path resolves the documents table.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	if pool == nil {
		panic("pgx pool is required")
	}
	return &DocumentStore{pool: pool}
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Get implements docstore.Store.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	return getDocument(ctx, s.pool, collection, id, false)
}

// Query implements docstore.Store.
func (s *DocumentStore) Query(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	sql, args, err := buildDocumentQuery(collection, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	return docs, nil
}

// Create implements docstore.Store.
func (s *DocumentStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := insertDocument(ctx, s.pool, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Set implements docstore.Store.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := checkDocumentID(collection, id, false); err != nil {
		return err
	}
	data, stamps, err := encodeFields(fields)
	if err != nil {
		return err
	}

	const sql = `
INSERT INTO documents (collection, id, data)
VALUES ($1, $4, ` + stampedData + `)
ON CONFLICT (collection, id) DO UPDATE
SET data = EXCLUDED.data, updated_on = statement_timestamp()`

	if _, err := s.pool.Exec(ctx, sql, collection, data, stamps, id); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update implements docstore.Store.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return updateDocument(ctx, s.pool, collection, id, fields)
}

// Delete implements docstore.Store.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	return deleteDocument(ctx, s.pool, collection, id)
}

// RunTransaction implements docstore.Store. Reads inside fn lock the selected rows.
func (s *DocumentStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(ctx, &documentTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Watch is not available on PostgreSQL; repositories fall back to refresh-on-read.
func (s *DocumentStore) Watch(context.Context, string, docstore.Query, func([]docstore.Document)) error {
	return docstore.ErrWatchUnsupported
}

// Close releases the underlying pool.
func (s *DocumentStore) Close() error {
	ClosePool(s.pool)
	return nil
}

type documentTx struct {
	ctx context.Context
	tx  pgx.Tx
}

func (t *documentTx) Get(collection, id string) (docstore.Document, error) {
	return getDocument(t.ctx, t.tx, collection, id, true)
}

func (t *documentTx) Create(collection, id string, fields map[string]any) error {
	return insertDocument(t.ctx, t.tx, collection, id, fields)
}

func (t *documentTx) Update(collection, id string, fields map[string]any) error {
	return updateDocument(t.ctx, t.tx, collection, id, fields)
}

func (t *documentTx) Delete(collection, id string) error {
	return deleteDocument(t.ctx, t.tx, collection, id)
}

func getDocument(ctx context.Context, db dbtx, collection, id string, forUpdate bool) (docstore.Document, error) {
	if err := checkDocumentID(collection, id, true); err != nil {
		return docstore.Document{}, err
	}
	sql := `SELECT id, data FROM documents WHERE collection = $1 AND id = $2`
	if forUpdate {
		sql += ` FOR UPDATE`
	}

	doc, err := scanDocument(db.QueryRow(ctx, sql, collection, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.Document{}, fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
		}
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func insertDocument(ctx context.Context, db dbtx, collection, id string, fields map[string]any) error {
	if err := checkDocumentID(collection, id, false); err != nil {
		return err
	}
	data, stamps, err := encodeFields(fields)
	if err != nil {
		return err
	}

	const sql = `INSERT INTO documents (collection, id, data) VALUES ($1, $4, ` + stampedData + `)`
	if _, err := db.Exec(ctx, sql, collection, data, stamps, id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrAlreadyExists)
		}
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return nil
}

func updateDocument(ctx context.Context, db dbtx, collection, id string, fields map[string]any) error {
	if err := checkDocumentID(collection, id, true); err != nil {
		return err
	}
	data, stamps, err := encodeFields(fields)
	if err != nil {
		return err
	}

	const sql = `
UPDATE documents
SET data = data || ` + stampedData + `, updated_on = statement_timestamp()
WHERE collection = $1 AND id = $4`

	tag, err := db.Exec(ctx, sql, collection, data, stamps, id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

func deleteDocument(ctx context.Context, db dbtx, collection, id string) error {
	if err := checkDocumentID(collection, id, true); err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

func buildDocumentQuery(collection string, q docstore.Query) (string, []any, error) {
	var sb strings.Builder
	args := []any{collection}
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = $1`)

	for _, f := range q.Filters {
		predicate, err := json.Marshal(map[string]any{f.Field: f.Value})
		if err != nil {
			return "", nil, fmt.Errorf("encode filter %s: %w", f.Field, err)
		}
		args = append(args, string(predicate))
		fmt.Fprintf(&sb, ` AND data @> $%d::jsonb`, len(args))
	}

	sb.WriteString(` ORDER BY `)
	for _, o := range q.Orders {
		var column string
		switch o.Field {
		case docstore.FieldCreatedOn:
			column = "created_on"
		case docstore.FieldUpdatedOn:
			column = "updated_on"
		default:
			args = append(args, o.Field)
			column = fmt.Sprintf("data -> $%d::text", len(args))
		}
		if o.Direction == docstore.Desc {
			sb.WriteString(column + ` DESC NULLS LAST, `)
		} else {
			sb.WriteString(column + ` ASC NULLS FIRST, `)
		}
	}
	sb.WriteString(`id ASC`)

	return sb.String(), args, nil
}

func scanDocument(row pgx.Row) (docstore.Document, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return docstore.Document{}, err
	}

	data := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return docstore.Document{}, fmt.Errorf("decode document %s: %w", id, err)
		}
	}
	return docstore.Document{ID: id, Data: data}, nil
}

// encodeFields splits ServerTimestamp placeholders from regular values.
func encodeFields(fields map[string]any) (string, []string, error) {
	plain := make(map[string]any, len(fields))
	stamps := []string{}
	for k, v := range fields {
		if docstore.IsServerTimestamp(v) {
			stamps = append(stamps, k)
			continue
		}
		plain[k] = v
	}

	data, err := json.Marshal(plain)
	if err != nil {
		return "", nil, fmt.Errorf("encode document: %w", err)
	}
	return string(data), stamps, nil
}
