package domain

import (
	"strings"
	"time"
)

type JobStatus string

const (
	JobActive   JobStatus = "active"
	JobArchived JobStatus = "archived"
	JobDraft    JobStatus = "draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobActive, JobArchived, JobDraft:
		return true
	}
	return false
}

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Status      JobStatus `json:"status"`
	Tags        []string  `json:"tags"`
	Order       int64     `json:"order"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (j *Job) Validate() error {
	if j.ID == "" {
		return &ValidationError{Field: "id", Message: "job id is required"}
	}
	if j.Title == "" {
		return &ValidationError{Field: "title", Message: "job title is required"}
	}
	if !j.Status.Valid() {
		return &ValidationError{Field: "status", Message: "invalid job status: " + string(j.Status)}
	}
	return nil
}

func (j *Job) Clone() *Job {
	c := *j
	c.Tags = append([]string(nil), j.Tags...)
	return &c
}

// Slugify derives a URL-safe slug from a job title: lowercase, runs of
// non-alphanumerics collapsed to single dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
