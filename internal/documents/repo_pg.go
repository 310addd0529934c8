package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, title, content, document_type, mime_type, detected_mime, file_key, size_bytes, status, extracted_data, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    title,
    content,
    document_type,
    mime_type,
    detected_mime,
    file_key,
    size_bytes,
    status,
    extracted_data,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	extracted, err := marshalExtracted(doc.ExtractedData)
	if err != nil {
		return fmt.Errorf("marshal extracted data: %w", err)
	}

	var detectedMime sql.NullString
	if doc.DetectedMime != "" {
		detectedMime = sql.NullString{String: doc.DetectedMime, Valid: true}
	}
	var fileKey sql.NullString
	if doc.FileKey != "" {
		fileKey = sql.NullString{String: doc.FileKey, Valid: true}
	}

	status := doc.Status
	if status == "" {
		status = StatusPending
	}
	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = doc.CreatedAt
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.Content,
		doc.DocumentType,
		doc.MimeType,
		detectedMime,
		fileKey,
		doc.SizeBytes,
		string(status),
		extracted,
		doc.CreatedAt,
		updatedAt,
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userId, documentID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userId string, filter ListFilter) ([]Document, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows *sql.Rows
	var err error
	if filter.DocumentType != "" {
		query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND document_type = $2
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`
		rows, err = r.DB.QueryContext(ctx, query, userId, filter.DocumentType, limit, offset)
	} else {
		query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
		rows, err = r.DB.QueryContext(ctx, query, userId, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateStatus moves a PENDING document to a new status with its extracted
// data. Terminal rows are left untouched.
func (r *PGRepo) UpdateStatus(ctx context.Context, documentID string, status Status, extractedData map[string]any) error {
	const query = `
UPDATE documents
SET status = $2, extracted_data = $3, updated_at = $4
WHERE id = $1 AND status = 'PENDING'`

	extracted, err := marshalExtracted(extractedData)
	if err != nil {
		return fmt.Errorf("marshal extracted data: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query, documentID, string(status), extracted, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var current string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM documents WHERE id = $1`, documentID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStatusFinal
}

// Delete removes a document owned by a user.
func (r *PGRepo) Delete(ctx context.Context, userId, documentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1 AND user_id = $2`, documentID, userId)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var detectedMime sql.NullString
	var fileKey sql.NullString
	var status string
	var extracted []byte
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.Content,
		&doc.DocumentType,
		&doc.MimeType,
		&detectedMime,
		&fileKey,
		&doc.SizeBytes,
		&status,
		&extracted,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if detectedMime.Valid {
		doc.DetectedMime = detectedMime.String
	}
	if fileKey.Valid {
		doc.FileKey = fileKey.String
	}
	doc.Status = Status(status)
	doc.ExtractedData = map[string]any{}
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &doc.ExtractedData); err != nil {
			return Document{}, fmt.Errorf("unmarshal extracted data: %w", err)
		}
	}
	return doc, nil
}

func marshalExtracted(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	return json.Marshal(data)
}

var _ Repo = (*PGRepo)(nil)
