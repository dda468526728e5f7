package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/domain"
	"talentflow/internal/infrastructure/migration"
	infra "talentflow/pkg/infrastructure"
)

func testJob(id, title string) *domain.Job {
	now := time.Now().UTC()
	return &domain.Job{
		ID:        id,
		Title:     title,
		Slug:      domain.Slugify(title),
		Status:    domain.JobActive,
		Tags:      []string{"Engineering"},
		Order:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testCandidate(id, jobID string, stage domain.Stage) *domain.Candidate {
	now := time.Now().UTC()
	return &domain.Candidate{
		ID:        id,
		Name:      "Sam Chen",
		Email:     "sam.chen@example.com",
		Stage:     stage,
		JobID:     jobID,
		Skills:    []string{"Engineering"},
		Timeline:  []domain.TimelineEvent{{ID: "ev1", Type: "applied", Timestamp: now}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPutGetJob(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	job := testJob("j1", "Backend Engineer")
	require.NoError(t, s.PutJob(ctx, job))

	got, err := s.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, job, got)

	_, err = s.GetJob("missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestPutJobValidation(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	bad := testJob("j1", "")
	err := s.PutJob(ctx, bad)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	// No partial write: the invalid record never landed.
	_, err = s.GetJob("j1")
	assert.True(t, domain.IsNotFound(err))

	bad = testJob("j2", "Engineer")
	bad.Status = "open"
	err = s.PutJob(ctx, bad)
	assert.True(t, domain.IsValidation(err))
}

func TestStoreHandsOutCopies(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	job := testJob("j1", "Backend Engineer")
	require.NoError(t, s.PutJob(ctx, job))

	// Mutating the original after the put must not reach the store.
	job.Title = "changed"
	job.Tags[0] = "changed"

	got, err := s.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, "Engineering", got.Tags[0])

	// Mutating a read result must not reach the store either.
	got.Tags[0] = "changed"
	again, err := s.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", again.Tags[0])
}

func TestSecondaryLookups(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	require.NoError(t, s.PutJob(ctx, testJob("j1", "Backend Engineer")))
	archived := testJob("j2", "Old Role")
	archived.Status = domain.JobArchived
	require.NoError(t, s.PutJob(ctx, archived))

	require.NoError(t, s.PutCandidate(ctx, testCandidate("c1", "j1", domain.StageScreen)))
	require.NoError(t, s.PutCandidate(ctx, testCandidate("c2", "j1", domain.StageTech)))
	require.NoError(t, s.PutCandidate(ctx, testCandidate("c3", "j2", domain.StageScreen)))

	assert.Len(t, s.JobsByStatus(domain.JobArchived), 1)
	assert.Len(t, s.CandidatesByStage(domain.StageScreen), 2)
	assert.Len(t, s.CandidatesByJob("j1"), 2)
}

func TestDeleteJobNoCascade(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	require.NoError(t, s.PutJob(ctx, testJob("j1", "Backend Engineer")))
	require.NoError(t, s.PutCandidate(ctx, testCandidate("c1", "j1", domain.StageApplied)))

	require.NoError(t, s.DeleteJob(ctx, "j1"))
	assert.True(t, domain.IsNotFound(mustErr(s.GetJob("j1"))))

	// The candidate referencing the deleted job stays.
	_, err := s.GetCandidate("c1")
	assert.NoError(t, err)

	err = s.DeleteJob(ctx, "j1")
	assert.True(t, domain.IsNotFound(err))
}

func TestAssessmentPerJobUniqueness(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	a := &domain.Assessment{ID: "a1", JobID: "j1", Title: "Tech Screen"}
	require.NoError(t, s.PutAssessment(ctx, a))

	dup := &domain.Assessment{ID: "a2", JobID: "j1", Title: "Second"}
	err := s.PutAssessment(ctx, dup)
	assert.True(t, domain.IsValidation(err))

	// Replacing the same assessment is fine.
	a.Title = "Updated"
	require.NoError(t, s.PutAssessment(ctx, a))

	got, err := s.AssessmentByJob("j1")
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
}

func TestWarmLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db, err := infra.OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, migration.RunMigrations(ctx, db))

	s := New(db)
	assert.False(t, s.Warmed())
	require.NoError(t, s.Warm(ctx))
	assert.True(t, s.Warmed())
	assert.True(t, s.Empty())

	require.NoError(t, s.PutJob(ctx, testJob("j1", "Backend Engineer")))
	require.NoError(t, s.PutCandidate(ctx, testCandidate("c1", "j1", domain.StageApplied)))
	require.NoError(t, db.Close())

	// Reopen: the durable tier must round-trip everything.
	db2, err := infra.OpenDB(path)
	require.NoError(t, err)
	defer db2.Close()

	s2 := New(db2)
	require.NoError(t, s2.Warm(ctx))
	assert.False(t, s2.Empty())

	job, err := s2.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)

	cand, err := s2.GetCandidate("c1")
	require.NoError(t, err)
	require.Len(t, cand.Timeline, 1)
	assert.Equal(t, "applied", cand.Timeline[0].Type)
}

func TestDeletePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db, err := infra.OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migration.RunMigrations(ctx, db))

	s := New(db)
	require.NoError(t, s.Warm(ctx))
	require.NoError(t, s.PutJob(ctx, testJob("j1", "Backend Engineer")))
	require.NoError(t, s.DeleteJob(ctx, "j1"))

	s2 := New(db)
	require.NoError(t, s2.Warm(ctx))
	assert.True(t, s2.Empty())
}

func mustErr[T any](_ T, err error) error { return err }
