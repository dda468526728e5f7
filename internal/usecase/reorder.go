package usecase

import (
	"context"
	"fmt"

	"talentflow/internal/adapter/repository"
	"talentflow/internal/domain"
)

// Move splices items[from] out and reinserts it at to, returning a new
// slice. Out-of-range indexes clamp to the nearest valid boundary; a move to
// the item's own slot returns the input unchanged. Pure by design so drags
// are testable without any UI in sight.
func Move[T any](items []T, from, to int) []T {
	from = clamp(from, len(items)-1)
	to = clamp(to, len(items)-1)
	if from == to || len(items) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	item := items[from]
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// MoveCandidate is the kanban cross-column move: a single stage change plus
// a status_change timeline event. Columns are derived by filtering on stage,
// so no positional bookkeeping exists. Moving to the current stage is a
// no-op.
func (t *Tracker) MoveCandidate(ctx context.Context, id string, to domain.Stage) (*domain.Candidate, error) {
	if !to.Valid() {
		return nil, &domain.ValidationError{Field: "stage", Message: "invalid candidate stage: " + string(to)}
	}
	current, err := t.store.GetCandidate(id)
	if err != nil {
		return nil, err
	}
	if current.Stage == to {
		return current, nil
	}

	ref := EntityRef{Table: repository.TableCandidates, ID: id}
	result, err := t.engine.Mutate(ctx, ref,
		func(cur any) (any, error) {
			c, ok := cur.(*domain.Candidate)
			if !ok || c == nil {
				return nil, &domain.NotFoundError{Table: repository.TableCandidates, ID: id}
			}
			if c.Stage == to {
				return c, nil
			}
			c.Timeline = append(c.Timeline, StageChangeEvent(c.Stage, to))
			c.Stage = to
			return c, nil
		},
		func(ctx context.Context, next any) (any, error) {
			stage := to
			return t.backend.UpdateCandidate(ctx, id, CandidatePatch{Stage: &stage})
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*domain.Candidate), nil
}

// MoveSection reorders assessment sections by splicing and persists the
// whole sections array in one replace-on-write save, so a mid-flight
// failure rolls back the entire ordering.
func (t *Tracker) MoveSection(ctx context.Context, jobID string, from, to int) (*domain.Assessment, error) {
	// A move that clamps to its own slot changes nothing; skip the
	// optimistic cycle entirely rather than dispatch a pointless PUT.
	if cur, err := t.store.AssessmentByJob(jobID); err == nil {
		if clamp(from, len(cur.Sections)-1) == clamp(to, len(cur.Sections)-1) {
			return cur, nil
		}
	}
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		a.Sections = Move(a.Sections, from, to)
		renumberSections(a)
		return nil
	})
}

// MoveQuestion moves a question within a section or across sections; either
// way the whole assessment document is persisted as one write.
func (t *Tracker) MoveQuestion(ctx context.Context, jobID, fromSectionID string, fromIdx int, toSectionID string, toIdx int) (*domain.Assessment, error) {
	if fromSectionID == toSectionID {
		if cur, err := t.store.AssessmentByJob(jobID); err == nil {
			if s := sectionByID(cur, fromSectionID); s != nil &&
				clamp(fromIdx, len(s.Questions)-1) == clamp(toIdx, len(s.Questions)-1) {
				return cur, nil
			}
		}
	}
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		src := sectionByID(a, fromSectionID)
		dst := sectionByID(a, toSectionID)
		if src == nil || dst == nil {
			return &domain.NotFoundError{Table: "sections", ID: fromSectionID + "/" + toSectionID}
		}
		if src == dst {
			src.Questions = Move(src.Questions, fromIdx, toIdx)
			return nil
		}
		fromIdx = clamp(fromIdx, len(src.Questions)-1)
		if len(src.Questions) == 0 {
			return fmt.Errorf("section %s has no questions", fromSectionID)
		}
		q := src.Questions[fromIdx]
		src.Questions = append(src.Questions[:fromIdx], src.Questions[fromIdx+1:]...)
		toIdx = clamp(toIdx, len(dst.Questions))
		dst.Questions = append(dst.Questions[:toIdx], append([]domain.Question{q}, dst.Questions[toIdx:]...)...)
		return nil
	})
}

func renumberSections(a *domain.Assessment) {
	for i := range a.Sections {
		a.Sections[i].Order = i
	}
}

func sectionByID(a *domain.Assessment, id string) *domain.Section {
	for i := range a.Sections {
		if a.Sections[i].ID == id {
			return &a.Sections[i]
		}
	}
	return nil
}
