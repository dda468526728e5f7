package repository

import (
	"context"

	"talentflow/internal/domain"
)

func (s *Store) GetJob(id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, &domain.NotFoundError{Table: TableJobs, ID: id}
	}
	return j.Clone(), nil
}

// ListJobs returns all jobs matching pred (nil matches everything), as deep
// copies. Iteration order is unspecified; callers sort.
func (s *Store) ListJobs(pred func(*domain.Job) bool) []*domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if pred == nil || pred(j) {
			out = append(out, j.Clone())
		}
	}
	return out
}

func (s *Store) JobsByStatus(status domain.JobStatus) []*domain.Job {
	return s.ListJobs(func(j *domain.Job) bool { return j.Status == status })
}

// MaxJobOrder returns the highest order value in the job collection, or -1
// when it is empty. New jobs take MaxJobOrder()+1 so order stays unique and
// monotonic with insertion.
func (s *Store) MaxJobOrder() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := int64(-1)
	for _, j := range s.jobs {
		if j.Order > max {
			max = j.Order
		}
	}
	return max
}

// PutJob upserts a whole job record. The record is validated first; an
// invalid record leaves both tiers unchanged.
func (s *Store) PutJob(ctx context.Context, j *domain.Job) error {
	if err := j.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := j.Clone()
	if err := s.persist(ctx, TableJobs, cp.ID, cp); err != nil {
		return err
	}
	s.jobs[cp.ID] = cp
	return nil
}

// DeleteJob removes a job. Candidates and the assessment referencing it are
// deliberately left in place: no cascade semantics are defined.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return &domain.NotFoundError{Table: TableJobs, ID: id}
	}
	if err := s.unpersist(ctx, TableJobs, id); err != nil {
		return err
	}
	delete(s.jobs, id)
	return nil
}
