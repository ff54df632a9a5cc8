package model

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

type Assessment struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Title           string         `json:"title" gorm:"not null"`
	Topic           string         `json:"topic" gorm:"not null"`
	Language        string         `json:"language" gorm:"not null"` // target programming language
	Difficulty      string         `json:"difficulty" gorm:"not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	Questions       []Question     `json:"questions,omitempty" gorm:"foreignKey:AssessmentID"`
	AssignedEmails  datatypes.JSON `json:"assigned_emails,omitempty"` // []string, lowercase
	CreatedBy       uint           `json:"created_by" gorm:"not null;index:idx_assessments_creator_active"`
	IsActive        bool           `json:"is_active" gorm:"default:true;index:idx_assessments_creator_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// MaxScore is the sum of the point values of all embedded questions.
func (a *Assessment) MaxScore() float64 {
	var total float64
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}

// AssignedList decodes the assigned-student email list.
func (a *Assessment) AssignedList() []string {
	if len(a.AssignedEmails) == 0 {
		return nil
	}
	var emails []string
	if err := json.Unmarshal(a.AssignedEmails, &emails); err != nil {
		return nil
	}
	return emails
}

// SetAssignedList stores the assigned emails, lowercased and deduplicated.
func (a *Assessment) SetAssignedList(emails []string) error {
	seen := make(map[string]bool, len(emails))
	clean := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		clean = append(clean, e)
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return err
	}
	a.AssignedEmails = raw
	return nil
}

// IsAssigned reports whether the given email is on the assigned list.
func (a *Assessment) IsAssigned(email string) bool {
	email = strings.ToLower(email)
	for _, e := range a.AssignedList() {
		if e == email {
			return true
		}
	}
	return false
}
