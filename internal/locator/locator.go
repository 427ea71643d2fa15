// Package locator maps a storage object key to the resume job it was
// uploaded for.
package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/models"
)

// ErrUnrecognizedKey is returned for keys that do not follow
// <prefix>/<owner>/<file>. It always wraps store.ErrNotFound as well.
var ErrUnrecognizedKey = errors.New("locator: unrecognized object key layout")

// DefaultAnonymousToken is the owner segment used for guest uploads.
const DefaultAnonymousToken = "guest"

// DefaultPrefixes are the first path segments uploads are written under.
var DefaultPrefixes = []string{"resumes", "uploads"}

// KeyLayout describes how upload keys encode their owner.
type KeyLayout struct {
	Prefixes       []string
	AnonymousToken string
}

// Owner parses the owner segment of objectKey.
//
// TODO: guest ownership is inferred from the key path; switch to matching
// guest_session_id once uploads carry it in the event payload.
func (l KeyLayout) Owner(objectKey string) (models.Owner, error) {
	parts := strings.SplitN(objectKey, "/", 3)
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return models.Owner{}, ErrUnrecognizedKey
	}
	if !l.knownPrefix(parts[0]) {
		return models.Owner{}, ErrUnrecognizedKey
	}
	if parts[1] == l.anonymousToken() {
		return models.Owner{Anonymous: true}, nil
	}
	return models.Owner{UserID: parts[1]}, nil
}

func (l KeyLayout) knownPrefix(segment string) bool {
	prefixes := l.Prefixes
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	for _, p := range prefixes {
		if segment == strings.Trim(p, "/") {
			return true
		}
	}
	return false
}

func (l KeyLayout) anonymousToken() string {
	if l.AnonymousToken == "" {
		return DefaultAnonymousToken
	}
	return l.AnonymousToken
}

// JobFinder is the subset of store.Store the locator needs.
type JobFinder interface {
	FindJob(ctx context.Context, objectKey string, owner models.Owner) (*models.ResumeJob, error)
}

// Locator resolves correlation keys to jobs.
type Locator struct {
	layout KeyLayout
	jobs   JobFinder
}

func New(layout KeyLayout, jobs JobFinder) *Locator {
	return &Locator{layout: layout, jobs: jobs}
}

// Locate returns the job stored under objectKey for the owner encoded in the
// key. Every "no such job" outcome wraps store.ErrNotFound.
func (l *Locator) Locate(ctx context.Context, objectKey string) (*models.ResumeJob, error) {
	owner, err := l.layout.Owner(objectKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	job, err := l.jobs.FindJob(ctx, objectKey, owner)
	if err != nil {
		return nil, err
	}
	return job, nil
}
