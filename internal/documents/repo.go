package documents

import "context"

// ListFilter narrows ListByUser results.
type ListFilter struct {
	DocumentType string
	Limit        int
	Offset       int
}

// Repo defines persistence operations for documents. All read and delete
// operations are scoped to the owning user. UpdateStatus is keyed by ID only:
// it is called by the request that created the row, which is its single
// writer until deletion.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userId, documentID string) (Document, error)
	ListByUser(ctx context.Context, userId string, filter ListFilter) ([]Document, error)
	UpdateStatus(ctx context.Context, documentID string, status Status, extractedData map[string]any) error
	Delete(ctx context.Context, userId, documentID string) error
}
