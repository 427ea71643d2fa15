package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resumeflow/ingest-gateway/internal/events"
	"resumeflow/ingest-gateway/models"
)

// SignatureVerifier authenticates an envelope; nil means verified.
type SignatureVerifier interface {
	Verify(ctx context.Context, env *models.Envelope) error
}

// SubscriptionConfirmer completes the SNS subscription handshake.
type SubscriptionConfirmer interface {
	Confirm(ctx context.Context, subscribeURL string) error
}

// JobLocator resolves a correlation key to its job.
type JobLocator interface {
	Locate(ctx context.Context, objectKey string) (*models.ResumeJob, error)
}

// StateApplier applies a processing event to a located job.
type StateApplier interface {
	Apply(ctx context.Context, job *models.ResumeJob, ev events.Event) error
}

// JobReader serves the read-only job status endpoint.
type JobReader interface {
	GetJob(ctx context.Context, id uuid.UUID) (*models.ResumeJob, error)
	GetResult(ctx context.Context, jobID uuid.UUID) (*models.AnalysisResult, error)
}

// WebhookSettings carries the configuration the webhook handler consults.
type WebhookSettings struct {
	TopicArn                 string
	ResubscribeOnUnsubscribe bool
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Verifier  SignatureVerifier
	Confirmer SubscriptionConfirmer
	Locator   JobLocator
	Applier   StateApplier
	Jobs      JobReader
	Logger    *logrus.Logger
	Settings  WebhookSettings

	validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(
	settings WebhookSettings,
	verifier SignatureVerifier,
	confirmer SubscriptionConfirmer,
	locator JobLocator,
	applier StateApplier,
	jobs JobReader,
	logger *logrus.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		Verifier:  verifier,
		Confirmer: confirmer,
		Locator:   locator,
		Applier:   applier,
		Jobs:      jobs,
		Logger:    logger,
		Settings:  settings,
		validate:  validator.New(),
	}
}
