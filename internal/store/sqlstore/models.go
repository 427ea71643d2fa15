package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"resumeflow/ingest-gateway/models"
)

type jobRecord struct {
	bun.BaseModel `bun:"table:resume_jobs,alias:rj"`

	ID             string    `bun:"id,pk"`
	ObjectKey      string    `bun:"object_key,notnull,unique"`
	UserID         *string   `bun:"user_id"`
	GuestSessionID *string   `bun:"guest_session_id"`
	ClientIP       *string   `bun:"client_ip"`
	Status         string    `bun:"status,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

type resultRecord struct {
	bun.BaseModel `bun:"table:resume_analysis_results,alias:rar"`

	JobID            string    `bun:"job_id,pk"`
	OverallScore     *float64  `bun:"overall_score"`
	ATSCompatibility *float64  `bun:"ats_compatibility"`
	ContentQuality   *float64  `bun:"content_quality"`
	ContactScore     *float64  `bun:"contact_score"`
	SummaryScore     *float64  `bun:"summary_score"`
	ExperienceScore  *float64  `bun:"experience_score"`
	EducationScore   *float64  `bun:"education_score"`
	SkillsScore      *float64  `bun:"skills_score"`
	FormattingScore  *float64  `bun:"formatting_score"`
	KeywordDensity   *float64  `bun:"keyword_density"`
	ExtractedSkills  []string  `bun:"extracted_skills,type:jsonb,notnull"`
	Recommendations  []string  `bun:"recommendations,type:jsonb,notnull"`
	Strengths        []string  `bun:"strengths,type:jsonb,notnull"`
	ImprovementAreas []string  `bun:"improvement_areas,type:jsonb,notnull"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
	UpdatedAt        time.Time `bun:"updated_at,notnull"`
}

func newJobRecord(job *models.ResumeJob) *jobRecord {
	return &jobRecord{
		ID:             job.ID.String(),
		ObjectKey:      job.ObjectKey,
		UserID:         job.UserID,
		GuestSessionID: job.GuestSessionID,
		ClientIP:       job.ClientIP,
		Status:         string(job.Status),
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

func (r *jobRecord) toDomain() (*models.ResumeJob, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &models.ResumeJob{
		ID:             id,
		ObjectKey:      r.ObjectKey,
		UserID:         r.UserID,
		GuestSessionID: r.GuestSessionID,
		ClientIP:       r.ClientIP,
		Status:         models.JobStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

func newResultRecord(jobID uuid.UUID, res *models.AnalysisResult, now time.Time) *resultRecord {
	return &resultRecord{
		JobID:            jobID.String(),
		OverallScore:     res.OverallScore,
		ATSCompatibility: res.ATSCompatibility,
		ContentQuality:   res.ContentQuality,
		ContactScore:     res.ContactScore,
		SummaryScore:     res.SummaryScore,
		ExperienceScore:  res.ExperienceScore,
		EducationScore:   res.EducationScore,
		SkillsScore:      res.SkillsScore,
		FormattingScore:  res.FormattingScore,
		KeywordDensity:   res.KeywordDensity,
		ExtractedSkills:  nonNil(res.ExtractedSkills),
		Recommendations:  nonNil(res.Recommendations),
		Strengths:        nonNil(res.Strengths),
		ImprovementAreas: nonNil(res.ImprovementAreas),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (r *resultRecord) toDomain() (*models.AnalysisResult, error) {
	id, err := uuid.Parse(r.JobID)
	if err != nil {
		return nil, err
	}
	return &models.AnalysisResult{
		JobID:            id,
		OverallScore:     r.OverallScore,
		ATSCompatibility: r.ATSCompatibility,
		ContentQuality:   r.ContentQuality,
		ContactScore:     r.ContactScore,
		SummaryScore:     r.SummaryScore,
		ExperienceScore:  r.ExperienceScore,
		EducationScore:   r.EducationScore,
		SkillsScore:      r.SkillsScore,
		FormattingScore:  r.FormattingScore,
		KeywordDensity:   r.KeywordDensity,
		ExtractedSkills:  nonNil(r.ExtractedSkills),
		Recommendations:  nonNil(r.Recommendations),
		Strengths:        nonNil(r.Strengths),
		ImprovementAreas: nonNil(r.ImprovementAreas),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
