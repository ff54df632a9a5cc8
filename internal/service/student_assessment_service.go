package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StudentAssessmentService is the student-facing read surface plus scratch
// code execution.
type StudentAssessmentService interface {
	ListAssigned(studentEmail string) ([]dto.StudentAssessmentDTO, error)
	GetDetail(assessmentID uint, studentEmail string) (*dto.StudentAssessmentDetailDTO, error)
	RunCode(ctx context.Context, req dto.RunCodeDTO) (*dto.RunCodeResponseDTO, error)
}

type studentAssessmentService struct {
	assessmentRepo repository.AssessmentRepository
	sessionRepo    repository.SessionRepository
	evaluator      Evaluator
}

func NewStudentAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	sessionRepo repository.SessionRepository,
	evaluator Evaluator,
) StudentAssessmentService {
	return &studentAssessmentService{
		assessmentRepo: assessmentRepo,
		sessionRepo:    sessionRepo,
		evaluator:      evaluator,
	}
}

// ListAssigned returns the assessments whose assigned list contains the
// student, with the attempt status derived from the session record.
func (s *studentAssessmentService) ListAssigned(studentEmail string) ([]dto.StudentAssessmentDTO, error) {
	studentEmail = strings.ToLower(studentEmail)
	assessments, err := s.assessmentRepo.FindActive()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active assessments")
		return nil, fmt.Errorf("error fetching assessments: %w", err)
	}

	out := make([]dto.StudentAssessmentDTO, 0, len(assessments))
	for i := range assessments {
		a := &assessments[i]
		if !a.IsAssigned(studentEmail) {
			continue
		}
		item := dto.StudentAssessmentDTO{
			ID:              a.ID,
			Title:           a.Title,
			Topic:           a.Topic,
			Language:        a.Language,
			Difficulty:      a.Difficulty,
			DurationMinutes: a.DurationMinutes,
			QuestionCount:   len(a.Questions),
			Status:          "not-started",
			CreatedAt:       a.CreatedAt,
		}
		session, err := s.sessionRepo.FindByAssessmentAndStudent(a.ID, studentEmail)
		switch {
		case err == nil && session.Open():
			item.Status = "in-progress"
		case err == nil:
			item.Status = "completed"
			pct := session.Percentage
			item.Percentage = &pct
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("error fetching session: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}

// GetDetail returns the sanitized assessment view; a student probing an
// unknown or unassigned id gets the same authorization error either way.
func (s *studentAssessmentService) GetDetail(assessmentID uint, studentEmail string) (*dto.StudentAssessmentDetailDTO, error) {
	studentEmail = strings.ToLower(studentEmail)
	assessment, err := s.assessmentRepo.FindByIDWithQuestions(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("error fetching assessment: %w", err)
	}
	if !assessment.IsActive || !assessment.IsAssigned(studentEmail) {
		return nil, ErrForbidden
	}

	detail := dto.StudentAssessmentDetailDTO{
		ID:              assessment.ID,
		Title:           assessment.Title,
		Topic:           assessment.Topic,
		Language:        assessment.Language,
		Difficulty:      assessment.Difficulty,
		DurationMinutes: assessment.DurationMinutes,
		Questions:       make([]dto.StudentQuestionDTO, 0, len(assessment.Questions)),
	}
	for i := range assessment.Questions {
		detail.Questions = append(detail.Questions, questionToStudentDTO(&assessment.Questions[i]))
	}
	return &detail, nil
}

// RunCode executes scratch code through the sandbox collaborator; it is never
// scored. Collaborator failure degrades to an explanatory result instead of
// an error.
func (s *studentAssessmentService) RunCode(ctx context.Context, req dto.RunCodeDTO) (*dto.RunCodeResponseDTO, error) {
	result, err := s.evaluator.RunCode(ctx, RunRequest{Language: req.Language, Code: req.Code, Stdin: req.Stdin})
	if err != nil {
		log.Warn().Err(err).Msg("Scratch execution unavailable")
		return &dto.RunCodeResponseDTO{Error: "execution service unavailable, try again later", ExitCode: -1}, nil
	}
	return &dto.RunCodeResponseDTO{
		Output:   result.Output,
		Error:    result.Error,
		ExitCode: result.ExitCode,
		TimeMS:   result.TimeMS,
	}, nil
}
