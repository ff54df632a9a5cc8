package dto

import "time"

// StartSessionResponseDTO is returned by the idempotent start operation. The
// Resumed flag is informational only; a resumed session keeps its original
// start timestamp.
type StartSessionResponseDTO struct {
	SessionID       uint      `json:"session_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxScore        float64   `json:"max_score"`
	Resumed         bool      `json:"resumed"`
}

type SubmitAnswerDTO struct {
	Answer   string `json:"answer" binding:"required"`
	Language string `json:"language,omitempty"`
}

// SubmissionResponseDTO reports the outcome of one submit call. Evaluated is
// false when the evaluator was unavailable and the answer was stored pending.
type SubmissionResponseDTO struct {
	SubmissionID uint       `json:"submission_id"`
	QuestionID   uint       `json:"question_id"`
	Status       string     `json:"status"`
	Score        float64    `json:"score"`
	MaxScore     float64    `json:"max_score"`
	Feedback     string     `json:"feedback,omitempty"`
	Evaluated    bool       `json:"evaluated"`
	EvaluatedAt  *time.Time `json:"evaluated_at,omitempty"`
	SessionTotal float64    `json:"session_total"`
	SessionMax   float64    `json:"session_max"`
	Percentage   int        `json:"percentage"`
}

type CompleteSessionDTO struct {
	AutoSubmitted bool `json:"auto_submitted"` // accepted but not persisted
}

type SessionResponseDTO struct {
	ID               uint       `json:"id"`
	AssessmentID     uint       `json:"assessment_id"`
	AssessmentTitle  string     `json:"assessment_title,omitempty"`
	StudentEmail     string     `json:"student_email"`
	TotalScore       float64    `json:"total_score"`
	MaxScore         float64    `json:"max_score"`
	Percentage       int        `json:"percentage"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TimeSpentMinutes int        `json:"time_spent_minutes"`
}

type SubmissionDetailDTO struct {
	ID           uint       `json:"id"`
	QuestionID   uint       `json:"question_id"`
	StudentEmail string     `json:"student_email"`
	Answer       string     `json:"answer"`
	Language     string     `json:"language,omitempty"`
	Status       string     `json:"status"`
	Score        float64    `json:"score"`
	Feedback     string     `json:"feedback,omitempty"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	EvaluatedAt  *time.Time `json:"evaluated_at,omitempty"`
}

// AssessmentResultsDTO is the teacher-facing aggregate view of all sessions
// and submissions for one assessment.
type AssessmentResultsDTO struct {
	AssessmentID uint                  `json:"assessment_id"`
	Title        string                `json:"title"`
	MaxScore     float64               `json:"max_score"`
	Sessions     []SessionResponseDTO  `json:"sessions"`
	Submissions  []SubmissionDetailDTO `json:"submissions"`
}

type RunCodeDTO struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Stdin    string `json:"stdin,omitempty"`
}

type RunCodeResponseDTO struct {
	Output   string `json:"output"`
	Error    string `json:"error,omitempty"`
	ExitCode int    `json:"exit_code"`
	TimeMS   int    `json:"time_ms"`
}

type StudentStatsDTO struct {
	TotalAssigned     int     `json:"total_assigned"`
	Completed         int     `json:"completed"`
	InProgress        int     `json:"in_progress"`
	AveragePercentage float64 `json:"average_percentage"`
	BestPercentage    int     `json:"best_percentage"`
	TotalTimeMinutes  int     `json:"total_time_minutes"`
}
