// Package events turns authenticated SNS envelopes into typed processing
// events.
package events

import (
	"errors"
)

// Discriminants published by the resume processor in the event_type field.
const (
	TypeProcessingStarted   = "processing_started"
	TypeProcessingCompleted = "processing_completed"
	TypeProcessingError     = "processing_error"
)

var (
	// ErrMalformedPayload means the notification body is not valid JSON or
	// lacks the correlation key.
	ErrMalformedPayload = errors.New("events: malformed payload")
	// ErrUnknownEventType means the body parsed but carries a discriminant
	// this service does not act on.
	ErrUnknownEventType = errors.New("events: unknown event type")
)

// Event is one of Confirmation, Started, Completed or Failed.
type Event interface {
	isEvent()
}

// Common holds the fields every processing notification carries.
type Common struct {
	EventType string `json:"event_type"`
	FileKey   string `json:"file_key"`
	Bucket    string `json:"bucket"`
	Timestamp string `json:"timestamp"`
}

// Confirmation is a subscribe or unsubscribe handshake.
type Confirmation struct {
	Kind         string
	SubscribeURL string
	Token        string
}

// Started is published when the processor picks up a file.
type Started struct {
	Common
	FileSize *int64  `json:"file_size,omitempty"`
	FileType *string `json:"file_type,omitempty"`
}

// Completed carries the analysis of a processed file.
type Completed struct {
	Common
	Status  string  `json:"status"`
	Results Results `json:"results"`
}

// Failed is published when processing a file failed.
type Failed struct {
	Common
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	ErrorType    string `json:"error_type"`
}

func (Confirmation) isEvent() {}
func (Started) isEvent()      {}
func (Completed) isEvent()    {}
func (Failed) isEvent()       {}

// Results is the analysis document produced for a resume.
type Results struct {
	OverallScore     *float64      `json:"overall_score"`
	ATSCompatibility *float64      `json:"ats_compatibility"`
	ContentQuality   *float64      `json:"content_quality"`
	KeywordDensity   *float64      `json:"keyword_density"`
	SectionScores    SectionScores `json:"section_scores"`
	KeywordsFound    []string      `json:"keywords_found"`
	Recommendations  []string      `json:"recommendations"`
	Strengths        []string      `json:"strengths"`
	ImprovementAreas []string      `json:"improvement_areas"`
}

// SectionScores are the per-section sub-scores of a resume.
type SectionScores struct {
	ContactInformation  *float64 `json:"contact_information"`
	ProfessionalSummary *float64 `json:"professional_summary"`
	WorkExperience      *float64 `json:"work_experience"`
	Education           *float64 `json:"education"`
	Skills              *float64 `json:"skills"`
	Formatting          *float64 `json:"formatting"`
}

// FileKey returns the correlation key of a processing event, or "" for
// confirmations.
func FileKey(e Event) string {
	switch ev := e.(type) {
	case Started:
		return ev.FileKey
	case Completed:
		return ev.FileKey
	case Failed:
		return ev.FileKey
	}
	return ""
}

// Name returns the event_type of e, or the envelope kind for confirmations.
func Name(e Event) string {
	switch ev := e.(type) {
	case Confirmation:
		return ev.Kind
	case Started:
		return TypeProcessingStarted
	case Completed:
		return TypeProcessingCompleted
	case Failed:
		return TypeProcessingError
	}
	return ""
}
