package llm

import (
	"fmt"
	"strings"
)

// ExtractionSystemPrompt builds the instruction prompt for structured data
// extraction from one document of the given category.
func ExtractionSystemPrompt(documentType string) string {
	label := humanizeDocumentType(documentType)
	return fmt.Sprintf(`You are an expert in mine action operations. Extract structured data from the following %s document and format it as JSON. Include key information such as:
- Location/coordinates
- Date/time
- Personnel involved
- Activities performed
- Hazards identified
- Safety measures
- Equipment used
- Results/outcomes

Respond with valid JSON only.`, label)
}

// ExtractionUserPrompt wraps the document content for the extraction request.
func ExtractionUserPrompt(documentType, content string) string {
	return fmt.Sprintf("Parse this %s document and extract key information:\n\n%s", humanizeDocumentType(documentType), content)
}

// RiskAssessmentSystemPrompt builds the instruction prompt for area risk analysis.
func RiskAssessmentSystemPrompt() string {
	return `You are a mine action risk assessment expert. Analyze survey data and incident logs to predict risk levels and priority areas according to IMAS standards.

Risk levels: LOW, MEDIUM, HIGH, CRITICAL

Consider:
- Historical incident patterns
- Hazard density and types
- Population proximity
- Infrastructure importance
- Environmental factors

Respond with JSON containing: level, analysis, recommendations array.`
}

// RiskAssessmentUserPrompt wraps survey and incident data for the risk request.
func RiskAssessmentUserPrompt(area, surveyData, incidentData string) string {
	return fmt.Sprintf("Analyze risk for area %q based on:\n\nSurvey Data: %s\nIncident Logs: %s\n\nProvide comprehensive risk assessment with actionable recommendations.", area, surveyData, incidentData)
}

func humanizeDocumentType(documentType string) string {
	return strings.ToLower(strings.ReplaceAll(documentType, "_", " "))
}
