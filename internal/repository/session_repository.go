package repository

import (
	"strings"

	"github.com/harshgurla/codeassess/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.Session) error
	Update(session *model.Session) error
	FindByID(id uint) (*model.Session, error)
	FindByAssessmentAndStudent(assessmentID uint, studentEmail string) (*model.Session, error)
	FindAllByAssessment(assessmentID uint) ([]model.Session, error)
	FindAllByStudent(studentEmail string) ([]model.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	session.StudentEmail = strings.ToLower(session.StudentEmail)
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *model.Session) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) FindByID(id uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByAssessmentAndStudent(assessmentID uint, studentEmail string) (*model.Session, error) {
	var session model.Session
	err := r.db.
		Where("assessment_id = ? AND student_email = ?", assessmentID, strings.ToLower(studentEmail)).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindAllByAssessment(assessmentID uint) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.
		Where("assessment_id = ?", assessmentID).
		Order("started_at desc").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) FindAllByStudent(studentEmail string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.
		Preload("Assessment").
		Where("student_email = ?", strings.ToLower(studentEmail)).
		Order("started_at desc").
		Find(&sessions).Error
	return sessions, err
}
