package dto

import "time"

// QuestionCreateDTO is used within AssessmentCreateDTO. Variant-specific
// fields are validated in the service layer against the declared type.
type QuestionCreateDTO struct {
	Type        string  `json:"type" binding:"required,oneof=programming theory mcq"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Points      float64 `json:"points" binding:"required,gt=0"`
	OrderIndex  int     `json:"order_index"`

	StarterCode   *string       `json:"starter_code,omitempty"`
	TestCases     []TestCaseDTO `json:"test_cases,omitempty"`
	TimeLimitMS   *int          `json:"time_limit_ms,omitempty"`
	MemoryLimitMB *int          `json:"memory_limit_mb,omitempty"`

	Keywords []string `json:"keywords,omitempty"`
	MinWords *int     `json:"min_words,omitempty"`
	MaxWords *int     `json:"max_words,omitempty"`

	Options       []string `json:"options,omitempty"`
	CorrectOption *int     `json:"correct_option,omitempty"`
	Explanation   *string  `json:"explanation,omitempty"`
}

type TestCaseDTO struct {
	Input    string `json:"input"`
	Expected string `json:"expected" binding:"required"`
	Hidden   bool   `json:"hidden"`
}

// AssessmentCreateDTO is for a teacher to create an assessment with its full
// question list up front.
type AssessmentCreateDTO struct {
	Title           string              `json:"title" binding:"required"`
	Topic           string              `json:"topic" binding:"required"`
	Language        string              `json:"language" binding:"required"`
	Difficulty      string              `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	DurationMinutes int                 `json:"duration_minutes" binding:"required,gt=0"`
	Questions       []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
	AssignedEmails  []string            `json:"assigned_emails,omitempty"`
}

type AssignStudentsDTO struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

type GenerateQuestionsDTO struct {
	Type       string `json:"type" binding:"required,oneof=programming theory mcq"`
	Topic      string `json:"topic" binding:"required"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Count      int    `json:"count" binding:"required,min=1,max=20"`
}

// QuestionResponseDTO is the teacher-facing question view, including hidden
// test cases and the correct option.
type QuestionResponseDTO struct {
	ID          uint    `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
	OrderIndex  int     `json:"order_index"`

	StarterCode   *string       `json:"starter_code,omitempty"`
	TestCases     []TestCaseDTO `json:"test_cases,omitempty"`
	TimeLimitMS   *int          `json:"time_limit_ms,omitempty"`
	MemoryLimitMB *int          `json:"memory_limit_mb,omitempty"`

	Keywords []string `json:"keywords,omitempty"`
	MinWords *int     `json:"min_words,omitempty"`
	MaxWords *int     `json:"max_words,omitempty"`

	Options       []string `json:"options,omitempty"`
	CorrectOption *int     `json:"correct_option,omitempty"`
	Explanation   *string  `json:"explanation,omitempty"`
}

// StudentQuestionDTO is the sanitized student view: hidden test cases are
// stripped and the correct option and explanation are never included.
type StudentQuestionDTO struct {
	ID          uint    `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
	OrderIndex  int     `json:"order_index"`

	StarterCode *string       `json:"starter_code,omitempty"`
	TestCases   []TestCaseDTO `json:"test_cases,omitempty"` // visible cases only
	TimeLimitMS *int          `json:"time_limit_ms,omitempty"`

	MinWords *int `json:"min_words,omitempty"`
	MaxWords *int `json:"max_words,omitempty"`

	Options []string `json:"options,omitempty"`
}

type AssessmentResponseDTO struct {
	ID              uint                  `json:"id"`
	Title           string                `json:"title"`
	Topic           string                `json:"topic"`
	Language        string                `json:"language"`
	Difficulty      string                `json:"difficulty"`
	DurationMinutes int                   `json:"duration_minutes"`
	MaxScore        float64               `json:"max_score"`
	Questions       []QuestionResponseDTO `json:"questions,omitempty"`
	AssignedEmails  []string              `json:"assigned_emails,omitempty"`
	IsActive        bool                  `json:"is_active"`
	CreatedAt       time.Time             `json:"created_at"`
}

type AssessmentSummaryDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Topic           string    `json:"topic"`
	Language        string    `json:"language"`
	Difficulty      string    `json:"difficulty"`
	DurationMinutes int       `json:"duration_minutes"`
	QuestionCount   int       `json:"question_count"`
	AssignedCount   int       `json:"assigned_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// StudentAssessmentDTO is the assigned-assessment listing with the derived
// attempt status for the requesting student.
type StudentAssessmentDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Topic           string    `json:"topic"`
	Language        string    `json:"language"`
	Difficulty      string    `json:"difficulty"`
	DurationMinutes int       `json:"duration_minutes"`
	QuestionCount   int       `json:"question_count"`
	Status          string    `json:"status"` // "not-started", "in-progress", "completed"
	Percentage      *int      `json:"percentage,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type StudentAssessmentDetailDTO struct {
	ID              uint                 `json:"id"`
	Title           string               `json:"title"`
	Topic           string               `json:"topic"`
	Language        string               `json:"language"`
	Difficulty      string               `json:"difficulty"`
	DurationMinutes int                  `json:"duration_minutes"`
	Questions       []StudentQuestionDTO `json:"questions"`
}
