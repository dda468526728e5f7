package usecase

import (
	"net/url"
	"strconv"
	"time"

	"talentflow/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// ListParams carries the query parameters shared by the list endpoints.
// Status applies to jobs, Stage to candidates; an invalid value for either
// is ignored rather than rejected, matching the lenient filter contract.
type ListParams struct {
	Search   string
	Status   string
	Stage    string
	Page     int
	PageSize int
	Sort     string
}

func (p ListParams) withDefaults() ListParams {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	return p
}

// Values renders the normalized parameter set used to build query cache keys.
// Keys are sorted by url.Values encoding, so two equivalent parameter sets
// always produce the same cache key.
func (p ListParams) Values() url.Values {
	p = p.withDefaults()
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.Stage != "" {
		v.Set("stage", p.Stage)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("pageSize", strconv.Itoa(p.PageSize))
	return v
}

type JobPage struct {
	Jobs       []*domain.Job `json:"jobs"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

type CandidatePage struct {
	Candidates []*domain.Candidate `json:"candidates"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

type CreateJobInput struct {
	Title       string           `json:"title"`
	Status      domain.JobStatus `json:"status"`
	Tags        []string         `json:"tags"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
}

// JobPatch is a partial job update; nil fields are left untouched. The
// record is always replaced whole after the merge.
type JobPatch struct {
	Title       *string           `json:"title"`
	Status      *domain.JobStatus `json:"status"`
	Tags        *[]string         `json:"tags"`
	Order       *int64            `json:"order"`
	Description *string           `json:"description"`
	Location    *string           `json:"location"`
}

type CreateCandidateInput struct {
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Stage      domain.Stage `json:"stage"`
	JobID      string       `json:"jobId"`
	Skills     []string     `json:"skills"`
	Experience *int         `json:"experience"`
}

type CandidatePatch struct {
	Name       *string       `json:"name"`
	Email      *string       `json:"email"`
	Stage      *domain.Stage `json:"stage"`
	JobID      *string       `json:"jobId"`
	Skills     *[]string     `json:"skills"`
	Experience *int          `json:"experience"`
}

// BackendConfig tunes the simulated network. Zero values give instant,
// always-successful responses, which is what the tests want.
type BackendConfig struct {
	MinDelay  time.Duration
	MaxDelay  time.Duration
	ErrorRate float64
}

// DefaultBackendConfig mirrors a believable flaky network: 200-1200ms of
// latency and a 10% write failure rate.
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		MinDelay:  200 * time.Millisecond,
		MaxDelay:  1200 * time.Millisecond,
		ErrorRate: 0.1,
	}
}
