package repository

import (
	"context"

	"talentflow/internal/domain"
)

func (s *Store) GetCandidate(id string) (*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, &domain.NotFoundError{Table: TableCandidates, ID: id}
	}
	return c.Clone(), nil
}

func (s *Store) ListCandidates(pred func(*domain.Candidate) bool) []*domain.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if pred == nil || pred(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func (s *Store) CandidatesByStage(stage domain.Stage) []*domain.Candidate {
	return s.ListCandidates(func(c *domain.Candidate) bool { return c.Stage == stage })
}

func (s *Store) CandidatesByJob(jobID string) []*domain.Candidate {
	return s.ListCandidates(func(c *domain.Candidate) bool { return c.JobID == jobID })
}

func (s *Store) PutCandidate(ctx context.Context, c *domain.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := c.Clone()
	if err := s.persist(ctx, TableCandidates, cp.ID, cp); err != nil {
		return err
	}
	s.candidates[cp.ID] = cp
	return nil
}

func (s *Store) DeleteCandidate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[id]; !ok {
		return &domain.NotFoundError{Table: TableCandidates, ID: id}
	}
	if err := s.unpersist(ctx, TableCandidates, id); err != nil {
		return err
	}
	delete(s.candidates, id)
	return nil
}
