package domain

import "time"

type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages in pipeline order, used by the kanban board columns and the seeder.
var Stages = []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

func (s Stage) Valid() bool {
	for _, v := range Stages {
		if s == v {
			return true
		}
	}
	return false
}

// EventStatusChange is the timeline event type appended on every stage
// transition; its data carries {"from": ..., "to": ...}.
const EventStatusChange = "status_change"

type TimelineEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Candidate struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Stage      Stage           `json:"stage"`
	JobID      string          `json:"jobId"`
	Skills     []string        `json:"skills"`
	Experience *int            `json:"experience,omitempty"`
	Timeline   []TimelineEvent `json:"timeline"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (c *Candidate) Validate() error {
	if c.ID == "" {
		return &ValidationError{Field: "id", Message: "candidate id is required"}
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "candidate name is required"}
	}
	if c.Email == "" {
		return &ValidationError{Field: "email", Message: "candidate email is required"}
	}
	if !c.Stage.Valid() {
		return &ValidationError{Field: "stage", Message: "invalid candidate stage: " + string(c.Stage)}
	}
	if c.Experience != nil && *c.Experience < 0 {
		return &ValidationError{Field: "experience", Message: "experience must be non-negative"}
	}
	return nil
}

func (c *Candidate) Clone() *Candidate {
	cl := *c
	cl.Skills = append([]string(nil), c.Skills...)
	if c.Experience != nil {
		exp := *c.Experience
		cl.Experience = &exp
	}
	cl.Timeline = make([]TimelineEvent, len(c.Timeline))
	for i, ev := range c.Timeline {
		cl.Timeline[i] = ev
		if ev.Data != nil {
			data := make(map[string]any, len(ev.Data))
			for k, v := range ev.Data {
				data[k] = v
			}
			cl.Timeline[i].Data = data
		}
	}
	return &cl
}
