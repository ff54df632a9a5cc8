package model

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusAccepted = "accepted"
	StatusWrong    = "wrong"
	StatusError    = "error"
	StatusTimeout  = "timeout"
	StatusPartial  = "partial"
)

// Submission holds one student's answer to one question. Re-submitting the
// same question overwrites the existing row; the unique index enforces at
// most one per (assessment, question, student).
type Submission struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	SessionID       uint       `json:"session_id" gorm:"not null;index"`
	AssessmentID    uint       `json:"assessment_id" gorm:"not null;uniqueIndex:idx_submissions_assessment_question_student"`
	QuestionID      uint       `json:"question_id" gorm:"not null;uniqueIndex:idx_submissions_assessment_question_student"`
	Question        Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	StudentEmail    string     `json:"student_email" gorm:"not null;uniqueIndex:idx_submissions_assessment_question_student"`
	Answer          string     `json:"answer" gorm:"type:text;not null"` // code or free text
	Language        string     `json:"language,omitempty"`
	Status          string     `json:"status" gorm:"default:'pending'"`
	Score           float64    `json:"score"`
	Feedback        string     `json:"feedback,omitempty" gorm:"type:text"`
	ExecutionTimeMS *int       `json:"execution_time_ms,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at" gorm:"not null"`
	EvaluatedAt     *time.Time `json:"evaluated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
