package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"talentflow/internal/domain"
	"talentflow/internal/model"
)

func (b *Backend) GetAssessment(ctx context.Context, jobID string) (*domain.Assessment, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	return b.store.AssessmentByJob(jobID)
}

// SaveAssessment replaces the whole assessment for a job. The incoming
// document keeps the existing assessment's id and createdAt when one exists,
// so a PUT is always an upsert against the single per-job slot.
func (b *Backend) SaveAssessment(ctx context.Context, jobID string, in *domain.Assessment) (*domain.Assessment, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	if err := b.sampleFailure("save assessment"); err != nil {
		return nil, err
	}
	a := in.Clone()
	a.JobID = jobID
	now := time.Now().UTC()
	if existing, err := b.store.AssessmentByJob(jobID); err == nil {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else if a.ID == "" {
		a.ID = uuid.NewString()
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	if err := model.ValidateAssessment(a); err != nil {
		return nil, err
	}
	if err := b.store.PutAssessment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
