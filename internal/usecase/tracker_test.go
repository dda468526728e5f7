package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/domain"
)

func TestTrackerDeleteJob(t *testing.T) {
	tr, store := newTestTracker(t)
	ctx := context.Background()

	job, err := tr.backend.CreateJob(ctx, CreateJobInput{Title: "Backend Engineer", Status: domain.JobActive})
	require.NoError(t, err)

	// The optimistic delete must settle cleanly even though the speculative
	// removal empties the row before the remote leg runs.
	require.NoError(t, tr.DeleteJob(ctx, job.ID))

	_, err = store.GetJob(job.ID)
	assert.True(t, domain.IsNotFound(err), "deleted job must be gone for good")

	err = tr.DeleteJob(ctx, job.ID)
	assert.True(t, domain.IsNotFound(err), "deleting a missing id stays a deterministic 404")
}

func TestTrackerDeleteCandidate(t *testing.T) {
	tr, store := newTestTracker(t)
	ctx := context.Background()

	job, err := tr.backend.CreateJob(ctx, CreateJobInput{Title: "Backend Engineer", Status: domain.JobActive})
	require.NoError(t, err)
	cand, err := tr.backend.CreateCandidate(ctx, CreateCandidateInput{
		Name: "Sam Chen", Email: "sam@example.com", JobID: job.ID,
	})
	require.NoError(t, err)

	require.NoError(t, tr.DeleteCandidate(ctx, cand.ID))

	_, err = store.GetCandidate(cand.ID)
	assert.True(t, domain.IsNotFound(err))

	err = tr.DeleteCandidate(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestTrackerDeleteJobRollback(t *testing.T) {
	tr, store := newTestTracker(t)
	ctx := context.Background()

	job, err := tr.backend.CreateJob(ctx, CreateJobInput{Title: "Backend Engineer", Status: domain.JobActive})
	require.NoError(t, err)

	tr.backend.cfg.ErrorRate = 1
	err = tr.DeleteJob(ctx, job.ID)
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))

	restored, err := store.GetJob(job.ID)
	require.NoError(t, err, "failed delete restores the record")
	assert.Equal(t, job.Title, restored.Title)
}

func TestDeleteSectionUnknownID(t *testing.T) {
	tr, store := newTestTracker(t)
	ctx := context.Background()
	jobID := buildAssessment(t, tr)

	_, err := tr.DeleteSection(ctx, jobID, "nope")
	assert.True(t, domain.IsNotFound(err))

	a, err := store.AssessmentByJob(jobID)
	require.NoError(t, err)
	assert.Len(t, a.Sections, 3, "failed delete must not touch the document")

	a, err = tr.DeleteSection(ctx, jobID, "s3")
	require.NoError(t, err)
	assert.Len(t, a.Sections, 2)
	for i, s := range a.Sections {
		assert.Equal(t, i, s.Order)
	}
}

func TestDeleteQuestionUnknownID(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()
	jobID := buildAssessment(t, tr)

	_, err := tr.DeleteQuestion(ctx, jobID, "s1", "nope")
	assert.True(t, domain.IsNotFound(err))

	a, err := tr.DeleteQuestion(ctx, jobID, "s1", "q2")
	require.NoError(t, err)
	require.Len(t, a.Sections[0].Questions, 2)
	assert.Equal(t, "q1", a.Sections[0].Questions[0].ID)
	assert.Equal(t, "q3", a.Sections[0].Questions[1].ID)
}

func TestNoOpMoveSkipsDispatch(t *testing.T) {
	tr, store := newTestTracker(t)
	ctx := context.Background()
	jobID := buildAssessment(t, tr)

	before, err := store.AssessmentByJob(jobID)
	require.NoError(t, err)

	// With every write failing, only a dispatched PUT could error; a no-op
	// move must not reach the backend at all.
	tr.backend.cfg.ErrorRate = 1

	a, err := tr.MoveSection(ctx, jobID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, sectionIDs(before), sectionIDs(a))

	// Out-of-range on both ends clamps to the same slot.
	_, err = tr.MoveSection(ctx, jobID, 7, 99)
	require.NoError(t, err)

	_, err = tr.MoveQuestion(ctx, jobID, "s1", 0, "s1", 0)
	require.NoError(t, err)

	after, err := store.AssessmentByJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "no-op moves never write")
}
