package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentflow/internal/domain"
)

func (b *Backend) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	return b.store.GetCandidate(id)
}

// GetTimeline returns the candidate's timeline, oldest event first.
func (b *Backend) GetTimeline(ctx context.Context, id string) ([]domain.TimelineEvent, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	c, err := b.store.GetCandidate(id)
	if err != nil {
		return nil, err
	}
	events := c.Timeline
	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp.Before(events[j].Timestamp) })
	return events, nil
}

// ListCandidates mirrors the jobs pipeline; search matches name and email,
// filtering is by stage.
func (b *Backend) ListCandidates(ctx context.Context, p ListParams) (*CandidatePage, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	p = p.withDefaults()

	cands := b.store.ListCandidates(nil)
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].CreatedAt.Equal(cands[j].CreatedAt) {
			return cands[i].CreatedAt.Before(cands[j].CreatedAt)
		}
		return cands[i].ID < cands[j].ID
	})

	if p.Search != "" {
		needle := strings.ToLower(p.Search)
		filtered := cands[:0]
		for _, c := range cands {
			if strings.Contains(strings.ToLower(c.Name), needle) ||
				strings.Contains(strings.ToLower(c.Email), needle) {
				filtered = append(filtered, c)
			}
		}
		cands = filtered
	}
	if stage := domain.Stage(p.Stage); p.Stage != "" && stage.Valid() {
		filtered := cands[:0]
		for _, c := range cands {
			if c.Stage == stage {
				filtered = append(filtered, c)
			}
		}
		cands = filtered
	}

	switch p.Sort {
	case "name":
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Name < cands[j].Name })
	case "-name":
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Name > cands[j].Name })
	case "stage":
		sort.SliceStable(cands, func(i, j int) bool { return stageRank(cands[i].Stage) < stageRank(cands[j].Stage) })
	case "experience":
		sort.SliceStable(cands, func(i, j int) bool { return expOf(cands[i]) < expOf(cands[j]) })
	default:
	}

	total := len(cands)
	page := paginate(total, p.Page, p.PageSize)
	return &CandidatePage{
		Candidates: cands[page.lo:page.hi],
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages(total, p.PageSize),
	}, nil
}

func (b *Backend) CreateCandidate(ctx context.Context, in CreateCandidateInput) (*domain.Candidate, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	if _, err := b.store.GetJob(in.JobID); err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.IntegrityError{JobID: in.JobID}
		}
		return nil, err
	}
	if err := b.sampleFailure("create candidate"); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	stage := in.Stage
	if stage == "" {
		stage = domain.StageApplied
	}
	c := &domain.Candidate{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Stage:      stage,
		JobID:      in.JobID,
		Skills:     in.Skills,
		Experience: in.Experience,
		Timeline: []domain.TimelineEvent{{
			ID:        uuid.NewString(),
			Type:      "applied",
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.store.PutCandidate(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (b *Backend) UpdateCandidate(ctx context.Context, id string, patch CandidatePatch) (*domain.Candidate, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	c, err := b.store.GetCandidate(id)
	if err != nil {
		return nil, err
	}
	if err := b.sampleFailure("update candidate"); err != nil {
		return nil, err
	}
	applyCandidatePatch(c, patch)
	c.UpdatedAt = time.Now().UTC()
	if err := b.store.PutCandidate(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (b *Backend) DeleteCandidate(ctx context.Context, id string) error {
	if err := b.delay(ctx); err != nil {
		return err
	}
	if _, err := b.store.GetCandidate(id); err != nil {
		return err
	}
	if err := b.sampleFailure("delete candidate"); err != nil {
		return err
	}
	return b.store.DeleteCandidate(ctx, id)
}

// deleteCandidateIfPresent is the remote leg of an optimistic delete; see
// deleteJobIfPresent.
func (b *Backend) deleteCandidateIfPresent(ctx context.Context, id string) error {
	if err := b.delay(ctx); err != nil {
		return err
	}
	if err := b.sampleFailure("delete candidate"); err != nil {
		return err
	}
	if err := b.store.DeleteCandidate(ctx, id); err != nil && !domain.IsNotFound(err) {
		return err
	}
	return nil
}

// applyCandidatePatch merges a partial update. A stage change appends the
// status_change timeline event recording the transition; every other field
// replaces in place.
func applyCandidatePatch(c *domain.Candidate, patch CandidatePatch) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Stage != nil && *patch.Stage != c.Stage {
		c.Timeline = append(c.Timeline, StageChangeEvent(c.Stage, *patch.Stage))
		c.Stage = *patch.Stage
	}
	if patch.JobID != nil {
		c.JobID = *patch.JobID
	}
	if patch.Skills != nil {
		c.Skills = append([]string(nil), (*patch.Skills)...)
	}
	if patch.Experience != nil {
		c.Experience = patch.Experience
	}
}

// StageChangeEvent builds the timeline entry appended on a stage transition.
func StageChangeEvent(from, to domain.Stage) domain.TimelineEvent {
	return domain.TimelineEvent{
		ID:        uuid.NewString(),
		Type:      domain.EventStatusChange,
		Data:      map[string]any{"from": string(from), "to": string(to)},
		Timestamp: time.Now().UTC(),
	}
}

// stageRank orders stages by pipeline position.
func stageRank(s domain.Stage) int {
	for i, v := range domain.Stages {
		if v == s {
			return i
		}
	}
	return len(domain.Stages)
}

func expOf(c *domain.Candidate) int {
	if c.Experience == nil {
		return 0
	}
	return *c.Experience
}
