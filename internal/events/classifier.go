package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumeflow/ingest-gateway/models"
)

// Classify parses an authenticated envelope into an Event.
//
// Confirmations never look at the message body. Notifications must carry a
// JSON object; an unrecognised event_type yields ErrUnknownEventType together
// with a nil Event whether or not file_key is present. Known event types
// without a file_key are malformed.
func Classify(env *models.Envelope) (Event, error) {
	if env.IsConfirmation() {
		return Confirmation{
			Kind:         env.Type,
			SubscribeURL: env.SubscribeURL,
			Token:        env.Token,
		}, nil
	}
	if env.Type != models.EnvelopeNotification {
		return nil, fmt.Errorf("%w: unsupported envelope type %q", ErrMalformedPayload, env.Type)
	}

	body := []byte(env.Message)
	var head Common
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	var ev Event
	switch head.EventType {
	case TypeProcessingStarted:
		var started Started
		if err := json.Unmarshal(body, &started); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		ev = started
	case TypeProcessingCompleted:
		var completed Completed
		if err := json.Unmarshal(body, &completed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		completed.Results.normalize()
		ev = completed
	case TypeProcessingError:
		var failed Failed
		if err := json.Unmarshal(body, &failed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		ev = failed
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, head.EventType)
	}

	if strings.TrimSpace(head.FileKey) == "" {
		return nil, fmt.Errorf("%w: missing file_key", ErrMalformedPayload)
	}
	return ev, nil
}

// normalize replaces absent lists with empty ones.
func (r *Results) normalize() {
	if r.KeywordsFound == nil {
		r.KeywordsFound = []string{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.ImprovementAreas == nil {
		r.ImprovementAreas = []string{}
	}
}
