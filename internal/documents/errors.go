package documents

import "errors"

var (
	// ErrNotFound covers both missing and not-owned documents so existence
	// is never leaked across owners.
	ErrNotFound = errors.New("document not found")

	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrFileTooLarge        = errors.New("file too large")

	// ErrStatusFinal is returned when an update would move a document out
	// of a terminal state.
	ErrStatusFinal = errors.New("document status is final")
)
