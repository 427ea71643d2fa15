// Package store defines the persistence contract for resume jobs and their
// analysis results.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"resumeflow/ingest-gateway/models"
)

// ErrNotFound is returned when no row matches a lookup or update.
var ErrNotFound = errors.New("store: record not found")

// Store is implemented by every persistence backend.
type Store interface {
	CreateJob(ctx context.Context, job *models.ResumeJob) error
	// FindJob matches on the exact object key and on owner: anonymous owners
	// only match jobs without a user, others need the same user id.
	FindJob(ctx context.Context, objectKey string, owner models.Owner) (*models.ResumeJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*models.ResumeJob, error)
	GetResult(ctx context.Context, jobID uuid.UUID) (*models.AnalysisResult, error)
	SetStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus) error
	// CompleteJob marks the job COMPLETED and replaces its result in one
	// transaction.
	CompleteJob(ctx context.Context, jobID uuid.UUID, result *models.AnalysisResult) error
	Close() error
}
