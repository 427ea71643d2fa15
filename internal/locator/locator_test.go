package locator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/models"
)

type fakeFinder struct {
	jobs  []*models.ResumeJob
	calls int
	err   error
}

func (f *fakeFinder) FindJob(_ context.Context, objectKey string, owner models.Owner) (*models.ResumeJob, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, j := range f.jobs {
		if j.ObjectKey == objectKey && owner.Matches(j) {
			return j, nil
		}
	}
	return nil, store.ErrNotFound
}

func strPtr(s string) *string { return &s }

func TestKeyLayout_Owner(t *testing.T) {
	layout := KeyLayout{}
	cases := []struct {
		key     string
		want    models.Owner
		wantErr bool
	}{
		{key: "resumes/u123/cv.pdf", want: models.Owner{UserID: "u123"}},
		{key: "uploads/u123/nested/cv.pdf", want: models.Owner{UserID: "u123"}},
		{key: "resumes/guest/cv.pdf", want: models.Owner{Anonymous: true}},
		{key: "other/u123/cv.pdf", wantErr: true},
		{key: "resumes/cv.pdf", wantErr: true},
		{key: "resumes//cv.pdf", wantErr: true},
		{key: "resumes/u123/", wantErr: true},
		{key: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			owner, err := layout.Owner(tc.key)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnrecognizedKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, owner)
		})
	}
}

func TestKeyLayout_CustomSettings(t *testing.T) {
	layout := KeyLayout{Prefixes: []string{"cv/"}, AnonymousToken: "anon"}

	owner, err := layout.Owner("cv/anon/file.pdf")
	require.NoError(t, err)
	assert.True(t, owner.Anonymous)

	owner, err = layout.Owner("cv/guest/file.pdf")
	require.NoError(t, err)
	assert.Equal(t, models.Owner{UserID: "guest"}, owner)

	_, err = layout.Owner("resumes/u1/file.pdf")
	assert.ErrorIs(t, err, ErrUnrecognizedKey)
}

func TestLocate(t *testing.T) {
	userJob := &models.ResumeJob{ObjectKey: "resumes/u123/cv.pdf", UserID: strPtr("u123")}
	guestJob := &models.ResumeJob{ObjectKey: "resumes/guest/cv.pdf", GuestSessionID: strPtr("sess-1")}
	finder := &fakeFinder{jobs: []*models.ResumeJob{userJob, guestJob}}
	l := New(KeyLayout{}, finder)
	ctx := context.Background()

	got, err := l.Locate(ctx, "resumes/u123/cv.pdf")
	require.NoError(t, err)
	assert.Same(t, userJob, got)

	got, err = l.Locate(ctx, "resumes/guest/cv.pdf")
	require.NoError(t, err)
	assert.Same(t, guestJob, got)
}

func TestLocate_OwnerMismatchIsNotFound(t *testing.T) {
	// A guest-path key must not resolve to a signed-in user's job.
	finder := &fakeFinder{jobs: []*models.ResumeJob{
		{ObjectKey: "resumes/guest/cv.pdf", UserID: strPtr("u123")},
	}}
	_, err := New(KeyLayout{}, finder).Locate(context.Background(), "resumes/guest/cv.pdf")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLocate_UnrecognizedKeySkipsStore(t *testing.T) {
	finder := &fakeFinder{}
	_, err := New(KeyLayout{}, finder).Locate(context.Background(), "tmp/x")

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, err, ErrUnrecognizedKey)
	assert.Zero(t, finder.calls)
}

func TestLocate_StoreErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := New(KeyLayout{}, &fakeFinder{err: boom}).Locate(context.Background(), "resumes/u1/cv.pdf")

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}
