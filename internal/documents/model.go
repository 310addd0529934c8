package documents

import "time"

// Status is the persisted lifecycle state of a document.
// Transitions are forward-only: PENDING moves to exactly one of the
// terminal states and never back.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document categories chosen by the uploader, orthogonal to file format.
const (
	TypeFieldReport      = "FIELD_REPORT"
	TypeSurveyForm       = "SURVEY_FORM"
	TypeSOPManual        = "SOP_MANUAL"
	TypeDonorReport      = "DONOR_REPORT"
	TypeTrainingMaterial = "TRAINING_MATERIAL"
	TypeHazardSurvey     = "HAZARD_SURVEY"
	TypeIncidentLog      = "INCIDENT_LOG"
)

var documentTypes = map[string]struct{}{
	TypeFieldReport:      {},
	TypeSurveyForm:       {},
	TypeSOPManual:        {},
	TypeDonorReport:      {},
	TypeTrainingMaterial: {},
	TypeHazardSurvey:     {},
	TypeIncidentLog:      {},
}

// ValidDocumentType reports whether t is one of the fixed document categories.
func ValidDocumentType(t string) bool {
	_, ok := documentTypes[t]
	return ok
}

// Document is a normalized record of one uploaded file plus its AI-derived
// annotation and lifecycle status.
type Document struct {
	ID            string
	UserID        string
	Title         string
	Content       string
	DocumentType  string
	MimeType      string // declared by the uploader, used only for parser selection
	DetectedMime  string // sniffed from the payload at storage time
	FileKey       string // blob reference, empty for synthetic uploads
	SizeBytes     int64
	Status        Status
	ExtractedData map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
