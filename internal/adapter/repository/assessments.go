package repository

import (
	"context"

	"talentflow/internal/domain"
)

func (s *Store) GetAssessment(id string) (*domain.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok {
		return nil, &domain.NotFoundError{Table: TableAssessments, ID: id}
	}
	return a.Clone(), nil
}

// AssessmentByJob looks up the single assessment attached to a job.
func (s *Store) AssessmentByJob(jobID string) (*domain.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assessments {
		if a.JobID == jobID {
			return a.Clone(), nil
		}
	}
	return nil, &domain.NotFoundError{Table: TableAssessments, ID: jobID}
}

func (s *Store) ListAssessments(pred func(*domain.Assessment) bool) []*domain.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Assessment, 0, len(s.assessments))
	for _, a := range s.assessments {
		if pred == nil || pred(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

// PutAssessment upserts a whole assessment. Besides field validation it
// enforces the one-assessment-per-job invariant.
func (s *Store) PutAssessment(ctx context.Context, a *domain.Assessment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.assessments {
		if other.JobID == a.JobID && other.ID != a.ID {
			return &domain.ValidationError{Field: "jobId", Message: "job already has an assessment"}
		}
	}
	cp := a.Clone()
	if err := s.persist(ctx, TableAssessments, cp.ID, cp); err != nil {
		return err
	}
	s.assessments[cp.ID] = cp
	return nil
}

func (s *Store) DeleteAssessment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assessments[id]; !ok {
		return &domain.NotFoundError{Table: TableAssessments, ID: id}
	}
	if err := s.unpersist(ctx, TableAssessments, id); err != nil {
		return err
	}
	delete(s.assessments, id)
	return nil
}
