package model

import (
	"time"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type Account struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"` // stored lowercase
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;index"` // "teacher" or "student"
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
