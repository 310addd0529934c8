package documents

import (
	"context"
	"encoding/json"

	"mineaction-backend/internal/llm"
	"mineaction-backend/internal/shared/metrics"
)

const (
	// extractionInputLimit caps the characters of document content sent to
	// the collaborator.
	extractionInputLimit = 4000
	// extractionPreviewLimit caps the content excerpt stored alongside a
	// response that failed to parse as JSON.
	extractionPreviewLimit = 1000
)

// Extractor sends normalized document text to the AI collaborator and
// interprets the response. A response that is not valid JSON degrades into a
// fallback payload and still counts as success; only a failed collaborator
// call is an error. One attempt per document, no retries.
type Extractor struct {
	LLM llm.Client
}

// Extract runs a single extraction attempt for the given content and
// document category.
func (e *Extractor) Extract(ctx context.Context, content, documentType string) (map[string]any, error) {
	system := llm.ExtractionSystemPrompt(documentType)
	user := llm.ExtractionUserPrompt(documentType, truncateRunes(content, extractionInputLimit))

	response, err := e.LLM.GenerateResponse(ctx, system, []llm.Message{
		{Role: "user", Content: user},
	})
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if jsonErr := json.Unmarshal([]byte(response), &payload); jsonErr == nil {
		return payload, nil
	}

	metrics.IncExtractionDegraded()
	return map[string]any{
		"raw":           response,
		"error":         "Failed to parse as JSON",
		"extractedText": truncateRunes(content, extractionPreviewLimit),
	}, nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
