package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/ingest-gateway/models"
)

func envelope(message string) *models.Envelope {
	return &models.Envelope{Type: models.EnvelopeNotification, Message: message}
}

func TestClassify_Started(t *testing.T) {
	ev, err := Classify(envelope(`{
		"event_type": "processing_started",
		"file_key": "resumes/u123/cv.pdf",
		"bucket": "resume-uploads",
		"timestamp": "2024-05-01T12:00:00Z",
		"file_size": 48213,
		"file_type": "pdf"
	}`))
	require.NoError(t, err)

	started, ok := ev.(Started)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, "resumes/u123/cv.pdf", started.FileKey)
	assert.Equal(t, "resume-uploads", started.Bucket)
	require.NotNil(t, started.FileSize)
	assert.EqualValues(t, 48213, *started.FileSize)
	require.NotNil(t, started.FileType)
	assert.Equal(t, "pdf", *started.FileType)
	assert.Equal(t, TypeProcessingStarted, Name(ev))
	assert.Equal(t, "resumes/u123/cv.pdf", FileKey(ev))
}

func TestClassify_Completed(t *testing.T) {
	ev, err := Classify(envelope(`{
		"event_type": "processing_completed",
		"file_key": "resumes/guest/cv.pdf",
		"status": "completed",
		"results": {
			"overall_score": 82.5,
			"ats_compatibility": 75,
			"section_scores": {"contact_information": 90, "skills": 70},
			"keywords_found": ["go", "sql"],
			"recommendations": ["Quantify achievements"]
		}
	}`))
	require.NoError(t, err)

	completed, ok := ev.(Completed)
	require.True(t, ok, "got %T", ev)
	r := completed.Results
	require.NotNil(t, r.OverallScore)
	assert.Equal(t, 82.5, *r.OverallScore)
	require.NotNil(t, r.SectionScores.ContactInformation)
	assert.Equal(t, 90.0, *r.SectionScores.ContactInformation)
	assert.Nil(t, r.ContentQuality)
	assert.Nil(t, r.SectionScores.Education)
	assert.Equal(t, []string{"go", "sql"}, r.KeywordsFound)
	assert.Equal(t, []string{}, r.Strengths)
	assert.Equal(t, []string{}, r.ImprovementAreas)
}

func TestClassify_CompletedWithoutResults(t *testing.T) {
	ev, err := Classify(envelope(`{"event_type":"processing_completed","file_key":"uploads/u1/a.pdf"}`))
	require.NoError(t, err)

	completed := ev.(Completed)
	assert.Nil(t, completed.Results.OverallScore)
	assert.NotNil(t, completed.Results.KeywordsFound)
	assert.Empty(t, completed.Results.KeywordsFound)
}

func TestClassify_Failed(t *testing.T) {
	ev, err := Classify(envelope(`{
		"event_type": "processing_error",
		"file_key": "resumes/u123/cv.pdf",
		"status": "error",
		"error_message": "Could not extract text",
		"error_type": "extraction_failed"
	}`))
	require.NoError(t, err)

	failed, ok := ev.(Failed)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, "Could not extract text", failed.ErrorMessage)
	assert.Equal(t, "extraction_failed", failed.ErrorType)
}

func TestClassify_UnknownEventType(t *testing.T) {
	for _, kind := range []string{"duplicate_detected", "processing_archived", ""} {
		ev, err := Classify(envelope(`{"event_type":"` + kind + `","file_key":"resumes/u1/cv.pdf"}`))
		assert.ErrorIs(t, err, ErrUnknownEventType, kind)
		assert.Nil(t, ev)
	}
}

func TestClassify_UnknownEventTypeWithoutFileKey(t *testing.T) {
	for _, message := range []string{
		`{"event_type":"duplicate_detected"}`,
		`{"event_type":"processing_archived","file_key":""}`,
		`{}`,
	} {
		ev, err := Classify(envelope(message))
		assert.ErrorIs(t, err, ErrUnknownEventType, message)
		assert.NotErrorIs(t, err, ErrMalformedPayload, message)
		assert.Nil(t, ev)
	}
}

func TestClassify_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `processing_started`,
		"array":            `[1,2,3]`,
		"missing file_key": `{"event_type":"processing_started"}`,
		"blank file_key":   `{"event_type":"processing_started","file_key":"  "}`,
		"bad results type": `{"event_type":"processing_completed","file_key":"resumes/u1/a.pdf","results":"high"}`,
	}
	for name, message := range cases {
		t.Run(name, func(t *testing.T) {
			ev, err := Classify(envelope(message))
			assert.ErrorIs(t, err, ErrMalformedPayload)
			assert.Nil(t, ev)
		})
	}
}

func TestClassify_Confirmation(t *testing.T) {
	for _, kind := range []string{models.EnvelopeSubscriptionConfirmation, models.EnvelopeUnsubscribeConfirmation} {
		ev, err := Classify(&models.Envelope{
			Type:         kind,
			Message:      "not json at all",
			SubscribeURL: "https://sns.us-east-1.amazonaws.com/?Action=ConfirmSubscription",
			Token:        "tok",
		})
		require.NoError(t, err)

		conf, ok := ev.(Confirmation)
		require.True(t, ok)
		assert.Equal(t, kind, conf.Kind)
		assert.Equal(t, "tok", conf.Token)
		assert.Equal(t, kind, Name(ev))
		assert.Empty(t, FileKey(ev))
	}
}
