package repository

import (
	"github.com/harshgurla/codeassess/internal/model"
	"gorm.io/gorm"
)

type AssessmentRepository interface {
	Create(assessment *model.Assessment) error
	Update(assessment *model.Assessment) error
	FindByID(id uint) (*model.Assessment, error)
	FindByIDWithQuestions(id uint) (*model.Assessment, error)
	FindActiveByCreator(creatorID uint) ([]model.Assessment, error)
	FindActive() ([]model.Assessment, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(assessment *model.Assessment) error {
	// Embedded questions are created in the same insert via the association.
	return r.db.Create(assessment).Error
}

func (r *assessmentRepository) Update(assessment *model.Assessment) error {
	return r.db.Save(assessment).Error
}

func (r *assessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := r.db.First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindByIDWithQuestions(id uint) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_index ASC")
	}).First(&assessment, id).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindActiveByCreator(creatorID uint) ([]model.Assessment, error) {
	var assessments []model.Assessment
	err := r.db.
		Preload("Questions").
		Where("created_by = ? AND is_active = ?", creatorID, true).
		Order("created_at desc").
		Find(&assessments).Error
	return assessments, err
}

// FindActive lists every active assessment; assignment filtering happens in
// the service layer against the JSON email list.
func (r *assessmentRepository) FindActive() ([]model.Assessment, error) {
	var assessments []model.Assessment
	err := r.db.
		Preload("Questions").
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&assessments).Error
	return assessments, err
}
