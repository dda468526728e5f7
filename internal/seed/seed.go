// Package seed fills an empty store with a plausible dataset: 25 jobs, 1000
// candidates spread across them, and assessments for the first three jobs.
// Intended for first-run bootstrapping after the store has warmed and turned
// out empty.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"talentflow/internal/adapter/repository"
	"talentflow/internal/domain"
)

const (
	JobCount        = 25
	CandidateCount  = 1000
	AssessmentCount = 3
)

var (
	roles      = []string{"Backend Engineer", "Frontend Engineer", "Product Manager", "Data Analyst", "DevOps Engineer", "QA Engineer", "Engineering Manager", "UX Designer", "Technical Writer", "Site Reliability Engineer", "Mobile Engineer", "Security Engineer"}
	seniority  = []string{"", "Senior ", "Staff ", "Junior ", "Lead "}
	tags       = []string{"Engineering", "Product", "Design", "Marketing", "Sales"}
	cities     = []string{"Berlin", "Lisbon", "Austin", "Toronto", "Amsterdam", "Singapore", "Remote"}
	firstNames = []string{"Alex", "Sam", "Jordan", "Taylor", "Casey", "Morgan", "Riley", "Jamie", "Avery", "Quinn", "Dana", "Robin", "Kim", "Lee", "Noor", "Priya", "Mateo", "Yuki", "Omar", "Ines"}
	lastNames  = []string{"Garcia", "Smith", "Chen", "Patel", "Kim", "Nguyen", "Muller", "Silva", "Okafor", "Ivanov", "Tanaka", "Haddad", "Kowalski", "Johnson", "Brown", "Davis", "Santos", "Ali", "Novak", "Berg"}
)

// Run seeds the store using rng; pass a fixed-seed source for reproducible
// datasets.
func Run(ctx context.Context, store *repository.Store, rng *rand.Rand) error {
	now := time.Now().UTC()

	jobIDs := make([]string, 0, JobCount)
	usedTitles := make(map[string]bool, JobCount)
	for i := 0; i < JobCount; i++ {
		title := seniority[rng.Intn(len(seniority))] + roles[rng.Intn(len(roles))]
		for usedTitles[title] {
			title = seniority[rng.Intn(len(seniority))] + roles[rng.Intn(len(roles))]
		}
		usedTitles[title] = true
		job := &domain.Job{
			ID:          uuid.NewString(),
			Title:       title,
			Slug:        domain.Slugify(title),
			Status:      pickStatus(rng),
			Tags:        pickSome(rng, tags, 1, 3),
			Order:       int64(i),
			Description: fmt.Sprintf("We are hiring a %s to join the team.", title),
			Location:    cities[rng.Intn(len(cities))],
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.PutJob(ctx, job); err != nil {
			return fmt.Errorf("seed job %d: %w", i, err)
		}
		jobIDs = append(jobIDs, job.ID)
	}

	for i := 0; i < CandidateCount; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		stageIdx := rng.Intn(len(domain.Stages))
		exp := 1 + rng.Intn(15)
		c := &domain.Candidate{
			ID:         uuid.NewString(),
			Name:       first + " " + last,
			Email:      fmt.Sprintf("%s.%s.%d@example.com", first, last, i),
			Stage:      domain.Stages[stageIdx],
			JobID:      jobIDs[rng.Intn(len(jobIDs))],
			Skills:     pickSome(rng, tags, 2, 4),
			Experience: &exp,
			Timeline:   timeline(rng, stageIdx, now),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := store.PutCandidate(ctx, c); err != nil {
			return fmt.Errorf("seed candidate %d: %w", i, err)
		}
	}

	for i := 0; i < AssessmentCount && i < len(jobIDs); i++ {
		a := &domain.Assessment{
			ID:    uuid.NewString(),
			JobID: jobIDs[i],
			Title: "Technical Assessment",
			Sections: []domain.Section{
				section(rng, 0, "Basic Information"),
				section(rng, 1, "Technical Skills"),
				section(rng, 2, "Project Experience"),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.PutAssessment(ctx, a); err != nil {
			return fmt.Errorf("seed assessment %d: %w", i, err)
		}
	}

	return nil
}

func pickStatus(rng *rand.Rand) domain.JobStatus {
	switch rng.Intn(3) {
	case 0:
		return domain.JobArchived
	case 1:
		return domain.JobDraft
	default:
		return domain.JobActive
	}
}

func pickSome(rng *rand.Rand, from []string, min, max int) []string {
	n := min + rng.Intn(max-min+1)
	idx := rng.Perm(len(from))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, from[i])
	}
	return out
}

// timeline rebuilds the candidate's pipeline history: one applied event
// followed by the status_change hops up to the current stage.
func timeline(rng *rand.Rand, stageIdx int, now time.Time) []domain.TimelineEvent {
	events := []domain.TimelineEvent{{
		ID:        uuid.NewString(),
		Type:      "applied",
		Timestamp: now.Add(-time.Duration(30+rng.Intn(30)) * 24 * time.Hour),
	}}
	for i := 1; i <= stageIdx && i < len(domain.Stages); i++ {
		events = append(events, domain.TimelineEvent{
			ID:   uuid.NewString(),
			Type: domain.EventStatusChange,
			Data: map[string]any{
				"from": string(domain.Stages[i-1]),
				"to":   string(domain.Stages[i]),
			},
			Timestamp: events[i-1].Timestamp.Add(time.Duration(1+rng.Intn(5)) * 24 * time.Hour),
		})
	}
	return events
}

func section(rng *rand.Rand, order int, title string) domain.Section {
	n := 3 + rng.Intn(4)
	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, question(rng, i))
	}
	return domain.Section{
		ID:        uuid.NewString(),
		Title:     title,
		Order:     order,
		Questions: questions,
	}
}

func question(rng *rand.Rand, i int) domain.Question {
	types := []domain.QuestionType{
		domain.QuestionShortText, domain.QuestionLongText, domain.QuestionNumeric,
		domain.QuestionSingleChoice, domain.QuestionMultipleChoice, domain.QuestionCheckboxes,
	}
	q := domain.Question{
		ID:       uuid.NewString(),
		Type:     types[rng.Intn(len(types))],
		Label:    fmt.Sprintf("Question %d?", i+1),
		Required: rng.Intn(2) == 0,
	}
	switch {
	case q.Type == domain.QuestionNumeric:
		min := float64(rng.Intn(10))
		max := min + 1 + float64(rng.Intn(90))
		q.Min, q.Max = &min, &max
	case q.Type.NeedsOptions():
		count := 3 + rng.Intn(4)
		for j := 0; j < count; j++ {
			q.Options = append(q.Options, fmt.Sprintf("Option %d", j+1))
		}
	}
	return q
}
