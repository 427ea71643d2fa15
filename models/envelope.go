package models

// Envelope types sent by SNS in the Type field.
const (
	EnvelopeSubscriptionConfirmation = "SubscriptionConfirmation"
	EnvelopeNotification             = "Notification"
	EnvelopeUnsubscribeConfirmation  = "UnsubscribeConfirmation"
)

// Envelope is an HTTP(S) push delivery from an SNS topic. It is never
// persisted; only its effect on ResumeJob and AnalysisResult is.
type Envelope struct {
	Type             string  `json:"Type" validate:"required,oneof=SubscriptionConfirmation Notification UnsubscribeConfirmation"`
	MessageID        string  `json:"MessageId" validate:"required"`
	TopicArn         string  `json:"TopicArn" validate:"required"`
	Subject          *string `json:"Subject,omitempty"`
	Message          string  `json:"Message" validate:"required"`
	Timestamp        string  `json:"Timestamp" validate:"required"`
	SignatureVersion string  `json:"SignatureVersion" validate:"required"`
	Signature        string  `json:"Signature" validate:"required"`
	SigningCertURL   string  `json:"SigningCertURL" validate:"required"`
	SubscribeURL     string  `json:"SubscribeURL,omitempty"`
	Token            string  `json:"Token,omitempty"`
	UnsubscribeURL   string  `json:"UnsubscribeURL,omitempty"`
}

// IsConfirmation reports whether the envelope is a subscription handshake
// message rather than a notification.
func (e *Envelope) IsConfirmation() bool {
	return e.Type == EnvelopeSubscriptionConfirmation || e.Type == EnvelopeUnsubscribeConfirmation
}
