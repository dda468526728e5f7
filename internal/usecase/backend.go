package usecase

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentflow/internal/adapter/repository"
	"talentflow/internal/domain"
)

// Backend simulates the server side of the tracker. It owns no state of its
// own: every operation reads and writes the shared entity store, after an
// artificial latency window and, for writes, a sampled transient failure.
//
// The delay always elapses before the store is touched, so concurrent writes
// to the same entity race the way they would against real infrastructure.
// Failures are atomic: a failed write performs no store mutation at all.
type Backend struct {
	store *repository.Store
	cfg   BackendConfig
}

func NewBackend(store *repository.Store, cfg BackendConfig) *Backend {
	return &Backend{store: store, cfg: cfg}
}

// delay suspends the caller for a uniform duration in [MinDelay, MaxDelay],
// honoring context cancellation.
func (b *Backend) delay(ctx context.Context) error {
	if b.cfg.MaxDelay <= 0 {
		return ctx.Err()
	}
	d := b.cfg.MinDelay
	if span := b.cfg.MaxDelay - b.cfg.MinDelay; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sampleFailure rolls the write failure rate. Reads never call this, and
// neither do not-found paths: not-found is deterministic.
func (b *Backend) sampleFailure(op string) error {
	if b.cfg.ErrorRate > 0 && rand.Float64() < b.cfg.ErrorRate {
		return &domain.TransientError{Op: op}
	}
	return nil
}

func (b *Backend) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	return b.store.GetJob(id)
}

// ListJobs runs the list pipeline: search filter, status filter, sort,
// paginate. Search matches case-insensitively on title and tags.
func (b *Backend) ListJobs(ctx context.Context, p ListParams) (*JobPage, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	p = p.withDefaults()

	jobs := b.store.ListJobs(nil)
	// Baseline order: board position, then id for ties. Map iteration is
	// unordered, and pagination needs a stable sequence.
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Order != jobs[j].Order {
			return jobs[i].Order < jobs[j].Order
		}
		return jobs[i].ID < jobs[j].ID
	})

	if p.Search != "" {
		needle := strings.ToLower(p.Search)
		filtered := jobs[:0]
		for _, j := range jobs {
			if matchesJob(j, needle) {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}
	if status := domain.JobStatus(p.Status); p.Status != "" && status.Valid() {
		filtered := jobs[:0]
		for _, j := range jobs {
			if j.Status == status {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}

	switch p.Sort {
	case "title":
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Title < jobs[j].Title })
	case "-title":
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Title > jobs[j].Title })
	case "order":
		// already the baseline
	default:
		// unsupported sort keys are a no-op
	}

	total := len(jobs)
	page := paginate(len(jobs), p.Page, p.PageSize)
	return &JobPage{
		Jobs:       jobs[page.lo:page.hi],
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages(total, p.PageSize),
	}, nil
}

func (b *Backend) CreateJob(ctx context.Context, in CreateJobInput) (*domain.Job, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	if err := b.sampleFailure("create job"); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        domain.Slugify(in.Title),
		Status:      in.Status,
		Tags:        in.Tags,
		Order:       b.store.MaxJobOrder() + 1,
		Description: in.Description,
		Location:    in.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.store.PutJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (b *Backend) UpdateJob(ctx context.Context, id string, patch JobPatch) (*domain.Job, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	job, err := b.store.GetJob(id)
	if err != nil {
		return nil, err
	}
	if err := b.sampleFailure("update job"); err != nil {
		return nil, err
	}
	applyJobPatch(job, patch)
	job.UpdatedAt = time.Now().UTC()
	if err := b.store.PutJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (b *Backend) DeleteJob(ctx context.Context, id string) error {
	if err := b.delay(ctx); err != nil {
		return err
	}
	if _, err := b.store.GetJob(id); err != nil {
		return err
	}
	if err := b.sampleFailure("delete job"); err != nil {
		return err
	}
	return b.store.DeleteJob(ctx, id)
}

// deleteJobIfPresent is the remote leg of an optimistic delete. The
// speculative removal has already emptied the row, so absence here means the
// delete is settled, not that the id was bad; existence was checked before
// dispatch. Failure sampling still applies.
func (b *Backend) deleteJobIfPresent(ctx context.Context, id string) error {
	if err := b.delay(ctx); err != nil {
		return err
	}
	if err := b.sampleFailure("delete job"); err != nil {
		return err
	}
	if err := b.store.DeleteJob(ctx, id); err != nil && !domain.IsNotFound(err) {
		return err
	}
	return nil
}

// applyJobPatch merges a partial update; the slug follows the title because
// it is server-derived.
func applyJobPatch(job *domain.Job, patch JobPatch) {
	if patch.Title != nil {
		job.Title = *patch.Title
		job.Slug = domain.Slugify(*patch.Title)
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Tags != nil {
		job.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Order != nil {
		job.Order = *patch.Order
	}
	if patch.Description != nil {
		job.Description = *patch.Description
	}
	if patch.Location != nil {
		job.Location = *patch.Location
	}
}

func matchesJob(j *domain.Job, needle string) bool {
	if strings.Contains(strings.ToLower(j.Title), needle) {
		return true
	}
	for _, tag := range j.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

type pageBounds struct{ lo, hi int }

func paginate(total, page, pageSize int) pageBounds {
	lo := (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	return pageBounds{lo: lo, hi: hi}
}

func totalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}
