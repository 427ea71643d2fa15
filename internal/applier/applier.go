// Package applier performs the job state transition implied by a
// processing event.
package applier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"resumeflow/ingest-gateway/internal/events"
	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/models"
)

// ErrPersistence wraps store failures that the delivery system should retry.
var ErrPersistence = errors.New("applier: persistence failure")

// JobWriter is the subset of store.Store the applier needs.
type JobWriter interface {
	SetStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus) error
	CompleteJob(ctx context.Context, jobID uuid.UUID, result *models.AnalysisResult) error
}

// Applier writes transitions unconditionally: the incoming event decides the
// new status regardless of the current one, so redelivery is harmless.
type Applier struct {
	jobs JobWriter
}

func New(jobs JobWriter) *Applier {
	return &Applier{jobs: jobs}
}

// Apply transitions job according to ev. A job that disappeared since it was
// located yields store.ErrNotFound; other store errors wrap ErrPersistence.
func (a *Applier) Apply(ctx context.Context, job *models.ResumeJob, ev events.Event) error {
	var err error
	switch e := ev.(type) {
	case events.Started:
		err = a.jobs.SetStatus(ctx, job.ID, models.JobStatusProcessing)
	case events.Completed:
		err = a.jobs.CompleteJob(ctx, job.ID, NewResult(job.ID, e.Results))
	case events.Failed:
		err = a.jobs.SetStatus(ctx, job.ID, models.JobStatusFailed)
	case events.Confirmation:
		return fmt.Errorf("applier: %s does not change job state", e.Kind)
	default:
		return fmt.Errorf("applier: unhandled event %T", ev)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s for job %s: %w", ErrPersistence, events.Name(ev), job.ID, err)
}

// NewResult maps a completion payload onto the stored result. Missing scores
// stay nil and missing lists become empty.
func NewResult(jobID uuid.UUID, r events.Results) *models.AnalysisResult {
	return &models.AnalysisResult{
		JobID:            jobID,
		OverallScore:     r.OverallScore,
		ATSCompatibility: r.ATSCompatibility,
		ContentQuality:   r.ContentQuality,
		ContactScore:     r.SectionScores.ContactInformation,
		SummaryScore:     r.SectionScores.ProfessionalSummary,
		ExperienceScore:  r.SectionScores.WorkExperience,
		EducationScore:   r.SectionScores.Education,
		SkillsScore:      r.SectionScores.Skills,
		FormattingScore:  r.SectionScores.Formatting,
		KeywordDensity:   r.KeywordDensity,
		ExtractedSkills:  orEmpty(r.KeywordsFound),
		Recommendations:  orEmpty(r.Recommendations),
		Strengths:        orEmpty(r.Strengths),
		ImprovementAreas: orEmpty(r.ImprovementAreas),
	}
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
