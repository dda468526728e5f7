package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"talentflow/internal/adapter/repository"
	"talentflow/internal/domain"
)

// Tracker is the UI-facing surface of the sync layer: cached reads through
// the query cache and optimistic writes through the mutation engine, all
// backed by the simulated backend.
type Tracker struct {
	store   *repository.Store
	backend *Backend
	cache   *QueryCache
	engine  *MutationEngine
}

func NewTracker(store *repository.Store, backend *Backend, cache *QueryCache, engine *MutationEngine) *Tracker {
	return &Tracker{store: store, backend: backend, cache: cache, engine: engine}
}

// Subscribe exposes the mutation engine's event feed.
func (t *Tracker) Subscribe(fn func(MutationEvent)) { t.engine.Subscribe(fn) }

// ---- cached reads ----

func (t *Tracker) ListJobs(ctx context.Context, p ListParams) (*JobPage, error) {
	key := QueryKey("/jobs", p.Values())
	v, err := t.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		return t.backend.ListJobs(ctx, p)
	})
	return pageOrNil[JobPage](v), err
}

func (t *Tracker) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	v, err := t.cache.Read(ctx, "/jobs/"+id, func(ctx context.Context) (any, error) {
		return t.backend.GetJob(ctx, id)
	})
	return pageOrNil[domain.Job](v), err
}

func (t *Tracker) ListCandidates(ctx context.Context, p ListParams) (*CandidatePage, error) {
	key := QueryKey("/candidates", p.Values())
	v, err := t.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		return t.backend.ListCandidates(ctx, p)
	})
	return pageOrNil[CandidatePage](v), err
}

func (t *Tracker) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	v, err := t.cache.Read(ctx, "/candidates/"+id, func(ctx context.Context) (any, error) {
		return t.backend.GetCandidate(ctx, id)
	})
	return pageOrNil[domain.Candidate](v), err
}

func (t *Tracker) GetCandidateTimeline(ctx context.Context, id string) ([]domain.TimelineEvent, error) {
	v, err := t.cache.Read(ctx, "/candidates/"+id+"/timeline", func(ctx context.Context) (any, error) {
		return t.backend.GetTimeline(ctx, id)
	})
	if events, ok := v.([]domain.TimelineEvent); ok {
		return events, err
	}
	return nil, err
}

func (t *Tracker) GetAssessment(ctx context.Context, jobID string) (*domain.Assessment, error) {
	v, err := t.cache.Read(ctx, "/assessments/"+jobID, func(ctx context.Context) (any, error) {
		return t.backend.GetAssessment(ctx, jobID)
	})
	return pageOrNil[domain.Assessment](v), err
}

// ---- optimistic writes: jobs ----

// CreateJob publishes a speculative job immediately (client-generated id,
// derived slug, next board position) and reconciles with the server-assigned
// record on success.
func (t *Tracker) CreateJob(ctx context.Context, in CreateJobInput) (*domain.Job, error) {
	specID := uuid.NewString()
	ref := EntityRef{Table: repository.TableJobs, ID: specID}
	result, err := t.engine.Mutate(ctx, ref,
		func(any) (any, error) {
			now := time.Now().UTC()
			return &domain.Job{
				ID:          specID,
				Title:       in.Title,
				Slug:        domain.Slugify(in.Title),
				Status:      in.Status,
				Tags:        in.Tags,
				Order:       t.store.MaxJobOrder() + 1,
				Description: in.Description,
				Location:    in.Location,
				CreatedAt:   now,
				UpdatedAt:   now,
			}, nil
		},
		func(ctx context.Context, _ any) (any, error) {
			return t.backend.CreateJob(ctx, in)
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*domain.Job), nil
}

func (t *Tracker) UpdateJob(ctx context.Context, id string, patch JobPatch) (*domain.Job, error) {
	ref := EntityRef{Table: repository.TableJobs, ID: id}
	result, err := t.engine.Mutate(ctx, ref,
		func(cur any) (any, error) {
			j, ok := cur.(*domain.Job)
			if !ok || j == nil {
				return nil, &domain.NotFoundError{Table: repository.TableJobs, ID: id}
			}
			applyJobPatch(j, patch)
			j.UpdatedAt = time.Now().UTC()
			return j, nil
		},
		func(ctx context.Context, _ any) (any, error) {
			return t.backend.UpdateJob(ctx, id, patch)
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*domain.Job), nil
}

// ArchiveJob flips a job to archived, the board's soft-delete.
func (t *Tracker) ArchiveJob(ctx context.Context, id string) (*domain.Job, error) {
	status := domain.JobArchived
	return t.UpdateJob(ctx, id, JobPatch{Status: &status})
}

func (t *Tracker) DeleteJob(ctx context.Context, id string) error {
	ref := EntityRef{Table: repository.TableJobs, ID: id}
	_, err := t.engine.Mutate(ctx, ref,
		func(cur any) (any, error) {
			if cur == nil {
				return nil, &domain.NotFoundError{Table: repository.TableJobs, ID: id}
			}
			return nil, nil // speculative delete
		},
		func(ctx context.Context, _ any) (any, error) {
			// The speculative removal already emptied the row, so the
			// strict delete would 404 against its own store.
			return nil, t.backend.deleteJobIfPresent(ctx, id)
		},
	)
	return err
}

// ---- optimistic writes: candidates ----

func (t *Tracker) CreateCandidate(ctx context.Context, in CreateCandidateInput) (*domain.Candidate, error) {
	// Referential check up front: a speculative candidate pointing at a
	// missing job would violate integrity even transiently.
	if _, err := t.store.GetJob(in.JobID); err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.IntegrityError{JobID: in.JobID}
		}
		return nil, err
	}
	specID := uuid.NewString()
	ref := EntityRef{Table: repository.TableCandidates, ID: specID}
	result, err := t.engine.Mutate(ctx, ref,
		func(any) (any, error) {
			now := time.Now().UTC()
			stage := in.Stage
			if stage == "" {
				stage = domain.StageApplied
			}
			return &domain.Candidate{
				ID:         specID,
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
			}, nil
		},
		func(ctx context.Context, _ any) (any, error) {
			return t.backend.CreateCandidate(ctx, in)
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*domain.Candidate), nil
}

func (t *Tracker) UpdateCandidate(ctx context.Context, id string, patch CandidatePatch) (*domain.Candidate, error) {
	ref := EntityRef{Table: repository.TableCandidates, ID: id}
	result, err := t.engine.Mutate(ctx, ref,
		func(cur any) (any, error) {
			c, ok := cur.(*domain.Candidate)
			if !ok || c == nil {
				return nil, &domain.NotFoundError{Table: repository.TableCandidates, ID: id}
			}
			applyCandidatePatch(c, patch)
			c.UpdatedAt = time.Now().UTC()
			return c, nil
		},
		func(ctx context.Context, _ any) (any, error) {
			return t.backend.UpdateCandidate(ctx, id, patch)
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*domain.Candidate), nil
}

func (t *Tracker) DeleteCandidate(ctx context.Context, id string) error {
	ref := EntityRef{Table: repository.TableCandidates, ID: id}
	_, err := t.engine.Mutate(ctx, ref,
		func(cur any) (any, error) {
			if cur == nil {
				return nil, &domain.NotFoundError{Table: repository.TableCandidates, ID: id}
			}
			return nil, nil
		},
		func(ctx context.Context, _ any) (any, error) {
			return nil, t.backend.deleteCandidateIfPresent(ctx, id)
		},
	)
	return err
}

// ---- optimistic writes: assessments ----

// SaveAssessment replaces a job's assessment whole.
func (t *Tracker) SaveAssessment(ctx context.Context, jobID string, a *domain.Assessment) (*domain.Assessment, error) {
	return t.mutateAssessment(ctx, jobID, func(target *domain.Assessment) error {
		target.Title = a.Title
		target.Sections = a.Clone().Sections
		renumberSections(target)
		return nil
	})
}

func (t *Tracker) AddSection(ctx context.Context, jobID, title string) (*domain.Assessment, error) {
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		a.Sections = append(a.Sections, domain.Section{
			ID:        uuid.NewString(),
			Title:     title,
			Order:     len(a.Sections),
			Questions: []domain.Question{},
		})
		return nil
	})
}

func (t *Tracker) UpdateSection(ctx context.Context, jobID, sectionID, title string) (*domain.Assessment, error) {
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		s := sectionByID(a, sectionID)
		if s == nil {
			return &domain.NotFoundError{Table: "sections", ID: sectionID}
		}
		s.Title = title
		return nil
	})
}

func (t *Tracker) DeleteSection(ctx context.Context, jobID, sectionID string) (*domain.Assessment, error) {
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		if sectionByID(a, sectionID) == nil {
			return &domain.NotFoundError{Table: "sections", ID: sectionID}
		}
		kept := a.Sections[:0]
		for _, s := range a.Sections {
			if s.ID != sectionID {
				kept = append(kept, s)
			}
		}
		a.Sections = kept
		renumberSections(a)
		return nil
	})
}

func (t *Tracker) AddQuestion(ctx context.Context, jobID, sectionID string, q domain.Question) (*domain.Assessment, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		s := sectionByID(a, sectionID)
		if s == nil {
			return &domain.NotFoundError{Table: "sections", ID: sectionID}
		}
		s.Questions = append(s.Questions, q)
		return nil
	})
}

func (t *Tracker) UpdateQuestion(ctx context.Context, jobID, sectionID string, q domain.Question) (*domain.Assessment, error) {
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		s := sectionByID(a, sectionID)
		if s == nil {
			return &domain.NotFoundError{Table: "sections", ID: sectionID}
		}
		for i := range s.Questions {
			if s.Questions[i].ID == q.ID {
				s.Questions[i] = q
				return nil
			}
		}
		return &domain.NotFoundError{Table: "questions", ID: q.ID}
	})
}

func (t *Tracker) DeleteQuestion(ctx context.Context, jobID, sectionID, questionID string) (*domain.Assessment, error) {
	return t.mutateAssessment(ctx, jobID, func(a *domain.Assessment) error {
		s := sectionByID(a, sectionID)
		if s == nil {
			return &domain.NotFoundError{Table: "sections", ID: sectionID}
		}
		kept := s.Questions[:0]
		found := false
		for _, q := range s.Questions {
			if q.ID == questionID {
				found = true
				continue
			}
			kept = append(kept, q)
		}
		if !found {
			return &domain.NotFoundError{Table: "questions", ID: questionID}
		}
		s.Questions = kept
		return nil
	})
}

// mutateAssessment runs edit against the job's assessment (creating an empty
// one for a first edit) and persists the whole document through the
// optimistic engine.
func (t *Tracker) mutateAssessment(ctx context.Context, jobID string, edit func(*domain.Assessment) error) (*domain.Assessment, error) {
	existing, err := t.store.AssessmentByJob(jobID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	assessmentID := uuid.NewString()
	if existing != nil {
		assessmentID = existing.ID
	}

	ref := EntityRef{Table: repository.TableAssessments, ID: assessmentID}
	result, err := t.engine.Mutate(ctx, ref,
		func(cur any) (any, error) {
			a, _ := cur.(*domain.Assessment)
			if a == nil {
				now := time.Now().UTC()
				a = &domain.Assessment{
					ID:        assessmentID,
					JobID:     jobID,
					Title:     "Assessment",
					Sections:  []domain.Section{},
					CreatedAt: now,
					UpdatedAt: now,
				}
			}
			if err := edit(a); err != nil {
				return nil, err
			}
			a.UpdatedAt = time.Now().UTC()
			return a, nil
		},
		func(ctx context.Context, next any) (any, error) {
			return t.backend.SaveAssessment(ctx, jobID, next.(*domain.Assessment))
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*domain.Assessment), nil
}

// pageOrNil narrows a cached any back to its concrete pointer, tolerating
// the nil that rides along with surfaced errors.
func pageOrNil[T any](v any) *T {
	if p, ok := v.(*T); ok {
		return p
	}
	return nil
}
