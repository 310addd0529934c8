package riskanalysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mineaction-backend/internal/documents"
	"mineaction-backend/internal/llm"
)

// ErrInsufficientData indicates the owner has no hazard surveys or incident
// logs to analyze.
var ErrInsufficientData = errors.New("insufficient data for risk analysis")

// Assessment is the collaborator's risk verdict for an area.
type Assessment struct {
	Area            string   `json:"area"`
	Level           string   `json:"riskLevel"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	SurveyCount     int      `json:"surveyCount"`
	IncidentCount   int      `json:"incidentCount"`
}

// Service aggregates the owner's hazard surveys and incident logs and asks
// the collaborator for a risk assessment.
type Service struct {
	Repo documents.Repo
	LLM  llm.Client
}

// Assess runs one risk assessment for the given area.
func (s *Service) Assess(ctx context.Context, userID, area string) (Assessment, error) {
	if strings.TrimSpace(area) == "" {
		return Assessment{}, fmt.Errorf("%w: area required", documents.ErrInvalidInput)
	}

	surveys, err := s.Repo.ListByUser(ctx, userID, documents.ListFilter{DocumentType: documents.TypeHazardSurvey})
	if err != nil {
		return Assessment{}, fmt.Errorf("list hazard surveys: %w", err)
	}
	incidents, err := s.Repo.ListByUser(ctx, userID, documents.ListFilter{DocumentType: documents.TypeIncidentLog})
	if err != nil {
		return Assessment{}, fmt.Errorf("list incident logs: %w", err)
	}
	if len(surveys) == 0 && len(incidents) == 0 {
		return Assessment{}, ErrInsufficientData
	}

	prompt := llm.RiskAssessmentUserPrompt(area, renderExtracted(surveys), renderExtracted(incidents))
	response, err := s.LLM.GenerateResponse(ctx, llm.RiskAssessmentSystemPrompt(), []llm.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("risk assessment: %w", err)
	}

	assessment := interpretResponse(response)
	assessment.Area = area
	assessment.SurveyCount = len(surveys)
	assessment.IncidentCount = len(incidents)
	return assessment, nil
}

// interpretResponse parses the collaborator's JSON verdict; a non-JSON
// response degrades to keyword level detection with fixed recommendations.
func interpretResponse(response string) Assessment {
	var parsed struct {
		Level           string   `json:"level"`
		Analysis        string   `json:"analysis"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err == nil && parsed.Level != "" {
		return Assessment{
			Level:           parsed.Level,
			Analysis:        parsed.Analysis,
			Recommendations: parsed.Recommendations,
		}
	}

	level := "LOW"
	switch {
	case strings.Contains(response, "CRITICAL"):
		level = "CRITICAL"
	case strings.Contains(response, "HIGH"):
		level = "HIGH"
	case strings.Contains(response, "MEDIUM"):
		level = "MEDIUM"
	}
	return Assessment{
		Level:           level,
		Analysis:        response,
		Recommendations: []string{"Review assessment manually", "Consult field specialists"},
	}
}

func renderExtracted(docs []documents.Document) string {
	items := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		items = append(items, map[string]any{
			"title":         doc.Title,
			"createdAt":     doc.CreatedAt,
			"extractedData": doc.ExtractedData,
		})
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
