package domain

import "time"

type QuestionType string

const (
	QuestionShortText      QuestionType = "short-text"
	QuestionLongText       QuestionType = "long-text"
	QuestionNumeric        QuestionType = "numeric"
	QuestionSingleChoice   QuestionType = "single-choice"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionCheckboxes     QuestionType = "checkboxes"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionNumeric,
		QuestionSingleChoice, QuestionMultipleChoice, QuestionCheckboxes:
		return true
	}
	return false
}

// NeedsOptions reports whether the question type carries an options list.
func (t QuestionType) NeedsOptions() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionCheckboxes:
		return true
	}
	return false
}

type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Label    string       `json:"label"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
}

type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Order     int        `json:"order"`
	Questions []Question `json:"questions"`
}

// Assessment is the per-job questionnaire. At most one exists per job; the
// store keys assessments by id but enforces the jobId uniqueness on put.
type Assessment struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	Title     string    `json:"title"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *Question) Validate() error {
	if q.ID == "" {
		return &ValidationError{Field: "question.id", Message: "question id is required"}
	}
	if !q.Type.Valid() {
		return &ValidationError{Field: "question.type", Message: "invalid question type: " + string(q.Type)}
	}
	if q.Label == "" {
		return &ValidationError{Field: "question.label", Message: "question label is required"}
	}
	if q.Type.NeedsOptions() && len(q.Options) == 0 {
		return &ValidationError{Field: "question.options", Message: "choice questions require options"}
	}
	if q.Type != QuestionNumeric && (q.Min != nil || q.Max != nil) {
		return &ValidationError{Field: "question.min", Message: "bounds are only valid on numeric questions"}
	}
	if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
		return &ValidationError{Field: "question.min", Message: "min must not exceed max"}
	}
	return nil
}

func (a *Assessment) Validate() error {
	if a.ID == "" {
		return &ValidationError{Field: "id", Message: "assessment id is required"}
	}
	if a.JobID == "" {
		return &ValidationError{Field: "jobId", Message: "assessment jobId is required"}
	}
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "assessment title is required"}
	}
	for i := range a.Sections {
		s := &a.Sections[i]
		if s.ID == "" {
			return &ValidationError{Field: "section.id", Message: "section id is required"}
		}
		if s.Title == "" {
			return &ValidationError{Field: "section.title", Message: "section title is required"}
		}
		// Section order must stay contiguous so reorders are pure permutations.
		if s.Order != i {
			return &ValidationError{Field: "section.order", Message: "section order must be contiguous"}
		}
		for j := range s.Questions {
			if err := s.Questions[j].Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Assessment) Clone() *Assessment {
	c := *a
	c.Sections = make([]Section, len(a.Sections))
	for i, s := range a.Sections {
		cs := s
		cs.Questions = make([]Question, len(s.Questions))
		for j, q := range s.Questions {
			cq := q
			cq.Options = append([]string(nil), q.Options...)
			if q.Min != nil {
				m := *q.Min
				cq.Min = &m
			}
			if q.Max != nil {
				m := *q.Max
				cq.Max = &m
			}
			cs.Questions[j] = cq
		}
		c.Sections[i] = cs
	}
	return &c
}
