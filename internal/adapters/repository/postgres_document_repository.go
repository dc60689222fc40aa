package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.DocumentRepository = (*PostgresDocumentRepository)(nil)

// PostgresDocumentRepository keeps one JSONB row per user store.
type PostgresDocumentRepository struct {
	db *sqlx.DB
}

func NewPostgresDocumentRepository(db *sqlx.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

type documentRow struct {
	UserID    string    `db:"user_id"`
	Store     string    `db:"store"`
	Data      []byte    `db:"data"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row documentRow) toDomain() domain.Document {
	return domain.Document{
		UserID:    row.UserID,
		Store:     domain.StoreName(row.Store),
		Data:      json.RawMessage(row.Data),
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt,
	}
}

func (r *PostgresDocumentRepository) LoadAll(ctx context.Context, userID string) ([]domain.Document, error) {
	var rows []documentRow
	query := `SELECT user_id, store, data, version, updated_at FROM user_documents WHERE user_id = $1`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("load documents failed: %w", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDomain())
	}
	return docs, nil
}

func (r *PostgresDocumentRepository) Load(ctx context.Context, userID string, store domain.StoreName) (*domain.Document, error) {
	var row documentRow
	query := `SELECT user_id, store, data, version, updated_at FROM user_documents WHERE user_id = $1 AND store = $2`

	if err := r.db.GetContext(ctx, &row, query, userID, string(store)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load document failed: %w", err)
	}
	doc := row.toDomain()
	return &doc, nil
}

func (r *PostgresDocumentRepository) Save(ctx context.Context, userID string, store domain.StoreName, data json.RawMessage) (int64, error) {
	if !store.IsDocument() {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownStore, store)
	}

	query := `
        INSERT INTO user_documents (user_id, store, data, version, updated_at)
        VALUES ($1, $2, $3, 1, NOW())
        ON CONFLICT (user_id, store) DO UPDATE SET
            data = EXCLUDED.data,
            version = user_documents.version + 1,
            updated_at = NOW()
        RETURNING version`

	var version int64
	if err := r.db.QueryRowContext(ctx, query, userID, string(store), string(data)).Scan(&version); err != nil {
		return 0, fmt.Errorf("save document failed: %w", err)
	}
	return version, nil
}
