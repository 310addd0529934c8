package documents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mineaction-backend/internal/llm"
)

func TestExtractTruncatesInput(t *testing.T) {
	var sawPrompt string
	client := llmFunc(func(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
		sawPrompt = messages[0].Content
		return "{}", nil
	})
	ex := &Extractor{LLM: client}

	content := strings.Repeat("x", extractionInputLimit+500)
	if _, err := ex.Extract(context.Background(), content, TypeFieldReport); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// The content follows the instruction line after a blank line.
	idx := strings.Index(sawPrompt, "\n\n")
	if idx < 0 {
		t.Fatalf("expected instruction/content separator in prompt, got %q", sawPrompt)
	}
	sent := sawPrompt[idx+2:]
	if len(sent) != extractionInputLimit {
		t.Fatalf("expected %d content chars in prompt, got %d", extractionInputLimit, len(sent))
	}
	if sent != content[:extractionInputLimit] {
		t.Fatalf("expected a prefix of the original content")
	}
}

func TestExtractDegradesOnNonJSON(t *testing.T) {
	client := llmFunc(func(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
		return "plain prose answer", nil
	})
	ex := &Extractor{LLM: client}

	content := strings.Repeat("y", extractionPreviewLimit+200)
	payload, err := ex.Extract(context.Background(), content, TypeSurveyForm)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if payload["error"] != "Failed to parse as JSON" {
		t.Fatalf("expected degradation marker, got %v", payload["error"])
	}
	if payload["raw"] != "plain prose answer" {
		t.Fatalf("expected raw response, got %v", payload["raw"])
	}
	excerpt, _ := payload["extractedText"].(string)
	if len(excerpt) != extractionPreviewLimit {
		t.Fatalf("expected %d-char excerpt, got %d", extractionPreviewLimit, len(excerpt))
	}
}

func TestExtractPropagatesCollaboratorError(t *testing.T) {
	wantErr := errors.New("boom")
	client := llmFunc(func(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
		return "", wantErr
	})
	ex := &Extractor{LLM: client}

	if _, err := ex.Extract(context.Background(), "content", TypeIncidentLog); !errors.Is(err, wantErr) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestExtractMentionsCategoryInPrompt(t *testing.T) {
	var sawSystem string
	client := llmFunc(func(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
		sawSystem = systemPrompt
		return "{}", nil
	})
	ex := &Extractor{LLM: client}

	if _, err := ex.Extract(context.Background(), "content", TypeHazardSurvey); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(sawSystem, "hazard survey") {
		t.Fatalf("expected category in system prompt, got %q", sawSystem)
	}
}
