// Package supabase persists resume jobs through the Supabase REST API.
//
// Reads and single-row status updates use the table endpoints. Completion
// runs the apply_resume_completion Postgres function over RPC so the status
// change and result upsert commit together (see migrations/supabase).
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/models"
)

const (
	jobsTable          = "resume_jobs"
	resultsTable       = "resume_analysis_results"
	completionFunction = "apply_resume_completion"
)

// Store implements store.Store on Supabase.
type Store struct {
	client     *supa.Client
	restURL    string
	serviceKey string
	now        func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates a Store for the project at url using the service role key.
func New(url, serviceKey string) (*Store, error) {
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: init client: %w", err)
	}
	return &Store{
		client:     client,
		restURL:    strings.TrimRight(url, "/") + "/rest/v1",
		serviceKey: serviceKey,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) CreateJob(_ context.Context, job *models.ResumeJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	now := s.now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	var rows []models.ResumeJob
	body, _, err := s.client.From(jobsTable).
		Insert(job, false, "", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("supabase: insert job %s: %w", job.ID, err)
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("supabase: decode inserted job %s: %w", job.ID, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("supabase: no row returned after inserting job %s", job.ID)
	}
	return nil
}

func (s *Store) FindJob(_ context.Context, objectKey string, owner models.Owner) (*models.ResumeJob, error) {
	q := s.client.From(jobsTable).
		Select("*", "", false).
		Eq("object_key", objectKey)
	if owner.Anonymous {
		q = q.Is("user_id", "null")
	} else {
		q = q.Eq("user_id", owner.UserID)
	}
	body, _, err := q.Limit(1, "").Execute()
	if err != nil {
		return nil, fmt.Errorf("supabase: find job by key: %w", err)
	}
	return firstJob(body)
}

func (s *Store) GetJob(_ context.Context, id uuid.UUID) (*models.ResumeJob, error) {
	body, _, err := s.client.From(jobsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("supabase: get job %s: %w", id, err)
	}
	return firstJob(body)
}

func (s *Store) GetResult(_ context.Context, jobID uuid.UUID) (*models.AnalysisResult, error) {
	body, _, err := s.client.From(resultsTable).
		Select("*", "", false).
		Eq("job_id", jobID.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("supabase: get result %s: %w", jobID, err)
	}
	var rows []models.AnalysisResult
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("supabase: decode result %s: %w", jobID, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) SetStatus(_ context.Context, jobID uuid.UUID, status models.JobStatus) error {
	update := map[string]interface{}{
		"status":     string(status),
		"updated_at": s.now(),
	}
	body, _, err := s.client.From(jobsTable).
		Update(update, "representation", "").
		Eq("id", jobID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("supabase: update job %s status: %w", jobID, err)
	}
	var rows []models.ResumeJob
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("supabase: decode updated job %s: %w", jobID, err)
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CompleteJob calls apply_resume_completion, which returns false when the
// job does not exist.
func (s *Store) CompleteJob(_ context.Context, jobID uuid.UUID, result *models.AnalysisResult) error {
	// A fresh client per call: postgrest-go reports RPC failures through the
	// shared ClientError field.
	rest := postgrest.NewClient(s.restURL, "", map[string]string{
		"apikey":        s.serviceKey,
		"Authorization": "Bearer " + s.serviceKey,
	})
	if rest.ClientError != nil {
		return fmt.Errorf("supabase: init rest client: %w", rest.ClientError)
	}

	params := map[string]interface{}{
		"p_job_id": jobID.String(),
		"p_result": completionParams(result),
	}
	body := rest.Rpc(completionFunction, "", params)
	if rest.ClientError != nil {
		return fmt.Errorf("supabase: %s for job %s: %w", completionFunction, jobID, rest.ClientError)
	}

	var applied bool
	if err := json.Unmarshal([]byte(body), &applied); err != nil {
		return fmt.Errorf("supabase: %s for job %s returned %q", completionFunction, jobID, body)
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

func completionParams(r *models.AnalysisResult) map[string]interface{} {
	return map[string]interface{}{
		"overall_score":     r.OverallScore,
		"ats_compatibility": r.ATSCompatibility,
		"content_quality":   r.ContentQuality,
		"contact_score":     r.ContactScore,
		"summary_score":     r.SummaryScore,
		"experience_score":  r.ExperienceScore,
		"education_score":   r.EducationScore,
		"skills_score":      r.SkillsScore,
		"formatting_score":  r.FormattingScore,
		"keyword_density":   r.KeywordDensity,
		"extracted_skills":  orEmpty(r.ExtractedSkills),
		"recommendations":   orEmpty(r.Recommendations),
		"strengths":         orEmpty(r.Strengths),
		"improvement_areas": orEmpty(r.ImprovementAreas),
	}
}

func firstJob(body []byte) (*models.ResumeJob, error) {
	var rows []models.ResumeJob
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("supabase: decode job: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
