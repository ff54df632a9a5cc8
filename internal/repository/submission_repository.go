package repository

import (
	"strings"

	"github.com/harshgurla/codeassess/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Save(submission *model.Submission) error
	FindByKey(assessmentID, questionID uint, studentEmail string) (*model.Submission, error)
	FindAllByAssessmentAndStudent(assessmentID uint, studentEmail string) ([]model.Submission, error)
	FindAllByAssessment(assessmentID uint) ([]model.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Save creates or overwrites; the caller keeps the primary key of an existing
// row so re-submission never produces a second record.
func (r *submissionRepository) Save(submission *model.Submission) error {
	submission.StudentEmail = strings.ToLower(submission.StudentEmail)
	return r.db.Save(submission).Error
}

func (r *submissionRepository) FindByKey(assessmentID, questionID uint, studentEmail string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Where("assessment_id = ? AND question_id = ? AND student_email = ?",
			assessmentID, questionID, strings.ToLower(studentEmail)).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindAllByAssessmentAndStudent(assessmentID uint, studentEmail string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.
		Where("assessment_id = ? AND student_email = ?", assessmentID, strings.ToLower(studentEmail)).
		Order("submitted_at asc").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindAllByAssessment(assessmentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.
		Preload("Question").
		Where("assessment_id = ?", assessmentID).
		Order("submitted_at desc").
		Find(&submissions).Error
	return submissions, err
}
