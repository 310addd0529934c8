package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"mineaction-backend/internal/parse"
	"mineaction-backend/internal/shared/metrics"
	"mineaction-backend/internal/shared/storage/object"
	"mineaction-backend/internal/shared/telemetry"
)

// Service runs the upload pipeline: blob put, format dispatch, document
// creation, and one synchronous extraction attempt per upload.
type Service struct {
	Store          object.ObjectStore
	Repo           Repo
	Parser         *parse.Dispatcher
	Extractor      *Extractor
	MaxUploadBytes int64

	now func() time.Time
}

// NewService constructs a Service.
func NewService(store object.ObjectStore, repo Repo, parser *parse.Dispatcher, extractor *Extractor, maxUploadBytes int64) *Service {
	return &Service{
		Store:          store,
		Repo:           repo,
		Parser:         parser,
		Extractor:      extractor,
		MaxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// UploadInput carries one upload request.
type UploadInput struct {
	FileName     string
	DocumentType string
	MimeType     string
	Body         io.Reader
}

// Upload ingests one file. Parser failures are absorbed into diagnostic
// content and never fail the upload; a collaborator failure marks the
// document FAILED but the upload itself still succeeds because the resource
// was created.
func (s *Service) Upload(ctx context.Context, userId string, in UploadInput) (Document, error) {
	if userId == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.FileName) == "" {
		return Document{}, fmt.Errorf("%w: file name required", ErrInvalidInput)
	}
	if !ValidDocumentType(in.DocumentType) {
		return Document{}, ErrInvalidDocumentType
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if s.MaxUploadBytes > 0 && int64(len(data)) > s.MaxUploadBytes {
		return Document{}, ErrFileTooLarge
	}

	fileKey, size, detectedMime, err := s.Store.Save(ctx, userId, in.FileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	parsed := s.Parser.Parse(data, in.MimeType)
	if parsed.Fallback {
		metrics.IncParseFallback()
		telemetry.Warn("parse.fallback", map[string]any{
			"user_id":   userId,
			"file_name": in.FileName,
			"mime_type": in.MimeType,
			"error":     parsed.Metadata["error"],
		})
	}

	now := s.now().UTC()
	doc := Document{
		ID:            uuid.NewString(),
		UserID:        userId,
		Title:         in.FileName,
		Content:       parsed.Raw,
		DocumentType:  in.DocumentType,
		MimeType:      in.MimeType,
		DetectedMime:  detectedMime,
		FileKey:       fileKey,
		SizeBytes:     size,
		Status:        StatusPending,
		ExtractedData: map[string]any{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	metrics.IncUpload()

	return s.runExtraction(ctx, doc, parsed), nil
}

// runExtraction performs the single synchronous extraction attempt and writes
// the terminal status. The returned document reflects the terminal state.
func (s *Service) runExtraction(ctx context.Context, doc Document, parsed parse.Result) Document {
	startedAt := s.now()

	payload, err := s.Extractor.Extract(ctx, doc.Content, doc.DocumentType)
	if err != nil {
		metrics.IncExtractionFailed()
		telemetry.Error("extraction.failed", map[string]any{
			"user_id":           doc.UserID,
			"document_id":       doc.ID,
			"document_type":     doc.DocumentType,
			"status_transition": "PENDING->FAILED",
			"error":             err.Error(),
		})
		data := map[string]any{
			"error":         "AI extraction failed",
			"parseMetadata": parsed.Metadata,
		}
		s.writeTerminalStatus(ctx, &doc, StatusFailed, data)
		return doc
	}

	payload["parseMetadata"] = parsed.Metadata
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(float64(s.now().Sub(startedAt).Microseconds()) / 1000.0)
	telemetry.Info("extraction.completed", map[string]any{
		"user_id":           doc.UserID,
		"document_id":       doc.ID,
		"document_type":     doc.DocumentType,
		"status_transition": "PENDING->COMPLETED",
	})
	s.writeTerminalStatus(ctx, &doc, StatusCompleted, payload)
	return doc
}

func (s *Service) writeTerminalStatus(ctx context.Context, doc *Document, status Status, data map[string]any) {
	if err := s.Repo.UpdateStatus(ctx, doc.ID, status, data); err != nil {
		telemetry.Error("document.status_write_failed", map[string]any{
			"document_id": doc.ID,
			"status":      string(status),
			"error":       err.Error(),
		})
		return
	}
	doc.Status = status
	doc.ExtractedData = data
	doc.UpdatedAt = s.now().UTC()
}

// Get returns a document by ID, scoped to its owner.
func (s *Service) Get(ctx context.Context, userId, documentID string) (Document, error) {
	if userId == "" || documentID == "" {
		return Document{}, fmt.Errorf("%w: user id and document id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userId, documentID)
}

// List returns documents for an owner, newest first.
func (s *Service) List(ctx context.Context, userId string, filter ListFilter) ([]Document, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if filter.DocumentType != "" && !ValidDocumentType(filter.DocumentType) {
		return nil, ErrInvalidDocumentType
	}
	return s.Repo.ListByUser(ctx, userId, filter)
}

// Delete removes a document and releases its blob if one exists.
func (s *Service) Delete(ctx context.Context, userId, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, userId, documentID)
	if err != nil {
		return err
	}
	if doc.FileKey != "" {
		if err := s.Store.Delete(ctx, doc.FileKey); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("delete blob: %w", err)
		}
	}
	return s.Repo.Delete(ctx, userId, documentID)
}
