package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a ResumeJob.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// ResumeJob represents one submitted document in the resume_jobs table.
// The object key is unique per submission and the owner never changes after
// the row is created.
type ResumeJob struct {
	ID             uuid.UUID `json:"id"`
	ObjectKey      string    `json:"object_key"`
	UserID         *string   `json:"user_id,omitempty"`          // Nullable, absent for guest uploads
	GuestSessionID *string   `json:"guest_session_id,omitempty"` // Set only for guest uploads
	ClientIP       *string   `json:"client_ip,omitempty"`        // Set only for guest uploads
	Status         JobStatus `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAnonymous reports whether the job was submitted without a signed-in user.
func (j *ResumeJob) IsAnonymous() bool {
	return j.UserID == nil
}

// Owner identifies who a storage key belongs to, as derived from the key path.
type Owner struct {
	UserID    string
	Anonymous bool
}

// Matches reports whether the job belongs to o.
func (o Owner) Matches(j *ResumeJob) bool {
	if o.Anonymous {
		return j.UserID == nil
	}
	return j.UserID != nil && *j.UserID == o.UserID
}
