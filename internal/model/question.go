package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	QuestionProgramming = "programming"
	QuestionTheory      = "theory"
	QuestionMCQ         = "mcq"
)

// Question is embedded in an Assessment and has no identity outside it.
// The three variants share one row; Variant() exposes the typed view.
type Question struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	AssessmentID uint    `json:"assessment_id" gorm:"not null;index"`
	Type         string  `json:"type" gorm:"not null"` // "programming", "theory", "mcq"
	Title        string  `json:"title" gorm:"not null"`
	Description  string  `json:"description" gorm:"type:text;not null"`
	Points       float64 `json:"points" gorm:"not null"`
	OrderIndex   int     `json:"order_index" gorm:"not null"`

	// programming
	StarterCode   *string        `json:"starter_code,omitempty" gorm:"type:text"`
	TestCases     datatypes.JSON `json:"test_cases,omitempty"` // []TestCase
	TimeLimitMS   *int           `json:"time_limit_ms,omitempty"`
	MemoryLimitMB *int           `json:"memory_limit_mb,omitempty"`

	// theory
	Keywords datatypes.JSON `json:"keywords,omitempty"` // []string
	MinWords *int           `json:"min_words,omitempty"`
	MaxWords *int           `json:"max_words,omitempty"`

	// mcq
	Options       datatypes.JSON `json:"options,omitempty"` // []string
	CorrectOption *int           `json:"correct_option,omitempty"`
	Explanation   *string        `json:"explanation,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Hidden   bool   `json:"hidden"`
}

type ProgrammingSpec struct {
	StarterCode   string
	TestCases     []TestCase
	TimeLimitMS   int
	MemoryLimitMB int
}

type TheorySpec struct {
	Keywords []string
	MinWords int
	MaxWords int
}

type McqSpec struct {
	Options       []string
	CorrectOption int
	Explanation   string
}

// Variant returns exactly one non-nil spec matching the question type, so
// grading and rendering code can switch exhaustively.
func (q *Question) Variant() (*ProgrammingSpec, *TheorySpec, *McqSpec) {
	switch q.Type {
	case QuestionProgramming:
		spec := ProgrammingSpec{}
		if q.StarterCode != nil {
			spec.StarterCode = *q.StarterCode
		}
		_ = json.Unmarshal(q.TestCases, &spec.TestCases)
		if q.TimeLimitMS != nil {
			spec.TimeLimitMS = *q.TimeLimitMS
		}
		if q.MemoryLimitMB != nil {
			spec.MemoryLimitMB = *q.MemoryLimitMB
		}
		return &spec, nil, nil
	case QuestionTheory:
		spec := TheorySpec{}
		_ = json.Unmarshal(q.Keywords, &spec.Keywords)
		if q.MinWords != nil {
			spec.MinWords = *q.MinWords
		}
		if q.MaxWords != nil {
			spec.MaxWords = *q.MaxWords
		}
		return nil, &spec, nil
	case QuestionMCQ:
		spec := McqSpec{}
		_ = json.Unmarshal(q.Options, &spec.Options)
		if q.CorrectOption != nil {
			spec.CorrectOption = *q.CorrectOption
		}
		if q.Explanation != nil {
			spec.Explanation = *q.Explanation
		}
		return nil, nil, &spec
	}
	return nil, nil, nil
}

// OptionList decodes the MCQ option list.
func (q *Question) OptionList() []string {
	var opts []string
	_ = json.Unmarshal(q.Options, &opts)
	return opts
}

// TestCaseList decodes the programming test cases.
func (q *Question) TestCaseList() []TestCase {
	var cases []TestCase
	_ = json.Unmarshal(q.TestCases, &cases)
	return cases
}
