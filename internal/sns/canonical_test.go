package sns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumeflow/ingest-gateway/models"
)

func TestStringToSign_Notification(t *testing.T) {
	env := notification(`{"event_type":"processing_started"}`)

	want := "Message\n{\"event_type\":\"processing_started\"}\n" +
		"MessageId\n22b80b92-fdea-4c2c-8f9d-bdfb0c7bf324\n" +
		"Timestamp\n2024-05-01T12:00:00.000Z\n" +
		"TopicArn\n" + testTopicArn + "\n" +
		"Type\nNotification\n"
	assert.Equal(t, want, StringToSign(env))
}

func TestStringToSign_NotificationWithSubject(t *testing.T) {
	env := notification("hello")
	subject := "Resume processed"
	env.Subject = &subject

	got := StringToSign(env)
	assert.Contains(t, got, "MessageId\n22b80b92-fdea-4c2c-8f9d-bdfb0c7bf324\nSubject\nResume processed\nTimestamp\n")
}

func TestStringToSign_EmptySubjectIsSigned(t *testing.T) {
	env := notification("hello")
	empty := ""
	env.Subject = &empty

	assert.Contains(t, StringToSign(env), "Subject\n\n")
}

func TestStringToSign_Confirmation(t *testing.T) {
	env := &models.Envelope{
		Type:         models.EnvelopeSubscriptionConfirmation,
		MessageID:    "m-1",
		TopicArn:     testTopicArn,
		Message:      "You have chosen to subscribe",
		Timestamp:    "2024-05-01T12:00:00.000Z",
		SubscribeURL: "https://sns.us-east-1.amazonaws.com/?Action=ConfirmSubscription&Token=tok",
		Token:        "tok",
	}

	want := "Message\nYou have chosen to subscribe\n" +
		"MessageId\nm-1\n" +
		"SubscribeURL\nhttps://sns.us-east-1.amazonaws.com/?Action=ConfirmSubscription&Token=tok\n" +
		"Timestamp\n2024-05-01T12:00:00.000Z\n" +
		"Token\ntok\n" +
		"TopicArn\n" + testTopicArn + "\n" +
		"Type\nSubscriptionConfirmation\n"
	assert.Equal(t, want, StringToSign(env))
}
