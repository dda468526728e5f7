package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Backend Engineer":        "backend-engineer",
		"Senior C++ Developer":    "senior-c-developer",
		"  QA / Test   Engineer ": "qa-test-engineer",
		"Go":                      "go",
		"100% Remote Role":        "100-remote-role",
		"---":                     "",
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestJobValidate(t *testing.T) {
	job := &Job{ID: "j1", Title: "Backend Engineer", Status: JobActive}
	assert.NoError(t, job.Validate())

	assert.Error(t, (&Job{Title: "x", Status: JobActive}).Validate())
	assert.Error(t, (&Job{ID: "j1", Status: JobActive}).Validate())
	assert.Error(t, (&Job{ID: "j1", Title: "x", Status: "paused"}).Validate())
}

func TestJobCloneIsolation(t *testing.T) {
	job := &Job{ID: "j1", Title: "Backend Engineer", Status: JobActive, Tags: []string{"go"}}
	c := job.Clone()
	c.Tags[0] = "rust"
	c.Title = "changed"

	assert.Equal(t, "go", job.Tags[0])
	assert.Equal(t, "Backend Engineer", job.Title)
}

func TestStageOrdering(t *testing.T) {
	require.Equal(t, []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}, Stages)
	for _, s := range Stages {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Stage("limbo").Valid())
}

func TestCandidateCloneIsolation(t *testing.T) {
	exp := 5
	c := &Candidate{
		ID:         "c1",
		Name:       "Sam Chen",
		Email:      "sam@example.com",
		Stage:      StageScreen,
		JobID:      "j1",
		Skills:     []string{"go", "sql"},
		Experience: &exp,
		Timeline: []TimelineEvent{{
			ID:        "t1",
			Type:      EventStatusChange,
			Data:      map[string]any{"from": "applied", "to": "screen"},
			Timestamp: time.Now().UTC(),
		}},
	}

	clone := c.Clone()
	clone.Skills[0] = "cobol"
	*clone.Experience = 20
	clone.Timeline[0].Data["to"] = "hired"
	clone.Timeline = append(clone.Timeline, TimelineEvent{ID: "t2"})

	assert.Equal(t, "go", c.Skills[0])
	assert.Equal(t, 5, *c.Experience)
	assert.Equal(t, "screen", c.Timeline[0].Data["to"])
	assert.Len(t, c.Timeline, 1)
}

func TestQuestionValidateBounds(t *testing.T) {
	lo, hi := 10.0, 2.0
	q := &Question{ID: "q1", Type: QuestionNumeric, Label: "Years?", Min: &lo, Max: &hi}
	assert.Error(t, q.Validate(), "min above max")

	hi = 20.0
	assert.NoError(t, q.Validate())
}

func TestAssessmentValidateOrder(t *testing.T) {
	a := &Assessment{
		ID: "a1", JobID: "j1", Title: "Screen",
		Sections: []Section{
			{ID: "s1", Title: "One", Order: 0, Questions: []Question{}},
			{ID: "s2", Title: "Two", Order: 2, Questions: []Question{}},
		},
	}
	err := a.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	a.Sections[1].Order = 1
	assert.NoError(t, a.Validate())
}
