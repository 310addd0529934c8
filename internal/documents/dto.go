package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID    string         `json:"documentId"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	DocumentType  string         `json:"documentType"`
	MimeType      string         `json:"mimeType"`
	SizeBytes     int64          `json:"sizeBytes"`
	Status        Status         `json:"status"`
	ExtractedData map[string]any `json:"extractedData,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// DocumentSummary omits content and extracted data for list responses.
type DocumentSummary struct {
	DocumentID   string    `json:"documentId"`
	Title        string    `json:"title"`
	DocumentType string    `json:"documentType"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StatusResponse is the poll endpoint payload.
type StatusResponse struct {
	DocumentID string    `json:"documentId"`
	Status     Status    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:    doc.ID,
		Title:         doc.Title,
		Content:       doc.Content,
		DocumentType:  doc.DocumentType,
		MimeType:      doc.MimeType,
		SizeBytes:     doc.SizeBytes,
		Status:        doc.Status,
		ExtractedData: doc.ExtractedData,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func toSummary(doc Document) DocumentSummary {
	return DocumentSummary{
		DocumentID:   doc.ID,
		Title:        doc.Title,
		DocumentType: doc.DocumentType,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		Status:       doc.Status,
		CreatedAt:    doc.CreatedAt,
	}
}

func toStatusResponse(doc Document) StatusResponse {
	return StatusResponse{
		DocumentID: doc.ID,
		Status:     doc.Status,
		UpdatedAt:  doc.UpdatedAt,
	}
}
