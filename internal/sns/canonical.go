package sns

import (
	"strings"

	"resumeflow/ingest-gateway/models"
)

// StringToSign rebuilds the exact bytes SNS signed for env. Fields appear
// in alphabetical order as "Name\nvalue\n" pairs; Subject is only part of a
// notification's signature when it is present.
func StringToSign(env *models.Envelope) string {
	var b strings.Builder
	add := func(name, value string) {
		b.WriteString(name)
		b.WriteByte('\n')
		b.WriteString(value)
		b.WriteByte('\n')
	}

	if env.IsConfirmation() {
		add("Message", env.Message)
		add("MessageId", env.MessageID)
		add("SubscribeURL", env.SubscribeURL)
		add("Timestamp", env.Timestamp)
		add("Token", env.Token)
		add("TopicArn", env.TopicArn)
		add("Type", env.Type)
		return b.String()
	}

	add("Message", env.Message)
	add("MessageId", env.MessageID)
	if env.Subject != nil {
		add("Subject", *env.Subject)
	}
	add("Timestamp", env.Timestamp)
	add("TopicArn", env.TopicArn)
	add("Type", env.Type)
	return b.String()
}
