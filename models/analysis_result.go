package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResult is the scored output of a completed ResumeJob. There is at
// most one per job; a later completion replaces every field.
type AnalysisResult struct {
	JobID            uuid.UUID `json:"job_id"`
	OverallScore     *float64  `json:"overall_score,omitempty"`
	ATSCompatibility *float64  `json:"ats_compatibility,omitempty"`
	ContentQuality   *float64  `json:"content_quality,omitempty"`
	ContactScore     *float64  `json:"contact_score,omitempty"`
	SummaryScore     *float64  `json:"summary_score,omitempty"`
	ExperienceScore  *float64  `json:"experience_score,omitempty"`
	EducationScore   *float64  `json:"education_score,omitempty"`
	SkillsScore      *float64  `json:"skills_score,omitempty"`
	FormattingScore  *float64  `json:"formatting_score,omitempty"`
	KeywordDensity   *float64  `json:"keyword_density,omitempty"`
	ExtractedSkills  []string  `json:"extracted_skills"`
	Recommendations  []string  `json:"recommendations"`
	Strengths        []string  `json:"strengths"`
	ImprovementAreas []string  `json:"improvement_areas"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
