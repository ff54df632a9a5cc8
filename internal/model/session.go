package model

import (
	"math"
	"time"
)

// Session tracks one student's timed attempt at one assessment. There is at
// most one per (assessment, student) pair.
type Session struct {
	ID               uint         `gorm:"primarykey" json:"id"`
	AssessmentID     uint         `json:"assessment_id" gorm:"not null;uniqueIndex:idx_sessions_assessment_student"`
	Assessment       Assessment   `json:"assessment,omitempty" gorm:"foreignKey:AssessmentID"`
	StudentEmail     string       `json:"student_email" gorm:"not null;uniqueIndex:idx_sessions_assessment_student"`
	TotalScore       float64      `json:"total_score"`
	MaxScore         float64      `json:"max_score"` // snapshotted from the assessment at start
	Percentage       int          `json:"percentage"`
	Submissions      []Submission `json:"submissions,omitempty" gorm:"foreignKey:SessionID"`
	StartedAt        time.Time    `json:"started_at" gorm:"not null"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
	TimeSpentMinutes int          `json:"time_spent_minutes"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Open reports whether the session has not been completed yet.
func (s *Session) Open() bool {
	return s.CompletedAt == nil
}

// Expired reports whether more than the given duration has elapsed since the
// session started. Expiry is detected lazily at request time; nothing sweeps
// stale sessions in the background.
func (s *Session) Expired(now time.Time, durationMinutes int) bool {
	return now.Sub(s.StartedAt) > time.Duration(durationMinutes)*time.Minute
}

// Percent computes the rounded percentage for a score pair, defined as 0 when
// maxScore is 0.
func Percent(totalScore, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(totalScore / maxScore * 100))
}
