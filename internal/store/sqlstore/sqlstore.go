// Package sqlstore persists resume jobs with bun on Postgres or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store implements store.Store on a bun.DB.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn with the named driver.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: open postgres: %w", err)
		}
		return New(bun.NewDB(sqlDB, pgdialect.New())), nil
	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return New(bun.NewDB(sqlDB, sqlitedialect.New())), nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

func New(db *bun.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying connection.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Migrate creates the tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*jobRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("sqlstore: create resume_jobs: %w", err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*resultRecord)(nil)).
		IfNotExists().
		ForeignKey(`("job_id") REFERENCES "resume_jobs" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("sqlstore: create resume_analysis_results: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateJob(ctx context.Context, job *models.ResumeJob) error {
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

	if _, err := s.db.NewInsert().Model(newJobRecord(job)).Exec(ctx); err != nil {
		return fmt.Errorf("sqlstore: insert job %s: %w", job.ID, err)
	}
	return nil
}

func (s *Store) FindJob(ctx context.Context, objectKey string, owner models.Owner) (*models.ResumeJob, error) {
	record := new(jobRecord)
	q := s.db.NewSelect().Model(record).Where("rj.object_key = ?", objectKey)
	if owner.Anonymous {
		q = q.Where("rj.user_id IS NULL")
	} else {
		q = q.Where("rj.user_id = ?", owner.UserID)
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("sqlstore: find job by key: %w", err)
	}
	return record.toDomain()
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*models.ResumeJob, error) {
	record := new(jobRecord)
	if err := s.db.NewSelect().Model(record).Where("rj.id = ?", id.String()).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("sqlstore: get job %s: %w", id, err)
	}
	return record.toDomain()
}

func (s *Store) GetResult(ctx context.Context, jobID uuid.UUID) (*models.AnalysisResult, error) {
	record := new(resultRecord)
	if err := s.db.NewSelect().Model(record).Where("rar.job_id = ?", jobID.String()).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("sqlstore: get result %s: %w", jobID, err)
	}
	return record.toDomain()
}

func (s *Store) SetStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus) error {
	return setStatus(ctx, s.db, jobID, status, s.now())
}

func (s *Store) CompleteJob(ctx context.Context, jobID uuid.UUID, result *models.AnalysisResult) error {
	now := s.now()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := setStatus(ctx, tx, jobID, models.JobStatusCompleted, now); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(newResultRecord(jobID, result, now)).
			On("CONFLICT (job_id) DO UPDATE").
			Set("overall_score = EXCLUDED.overall_score").
			Set("ats_compatibility = EXCLUDED.ats_compatibility").
			Set("content_quality = EXCLUDED.content_quality").
			Set("contact_score = EXCLUDED.contact_score").
			Set("summary_score = EXCLUDED.summary_score").
			Set("experience_score = EXCLUDED.experience_score").
			Set("education_score = EXCLUDED.education_score").
			Set("skills_score = EXCLUDED.skills_score").
			Set("formatting_score = EXCLUDED.formatting_score").
			Set("keyword_density = EXCLUDED.keyword_density").
			Set("extracted_skills = EXCLUDED.extracted_skills").
			Set("recommendations = EXCLUDED.recommendations").
			Set("strengths = EXCLUDED.strengths").
			Set("improvement_areas = EXCLUDED.improvement_areas").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("sqlstore: upsert result %s: %w", jobID, err)
		}
		return nil
	})
}

func setStatus(ctx context.Context, db bun.IDB, jobID uuid.UUID, status models.JobStatus, now time.Time) error {
	res, err := db.NewUpdate().
		Model((*jobRecord)(nil)).
		Set("status = ?", string(status)).
		Set("updated_at = ?", now).
		Where("id = ?", jobID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: update job %s status: %w", jobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: update job %s status: %w", jobID, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
