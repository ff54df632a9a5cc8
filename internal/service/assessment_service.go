package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harshgurla/codeassess/config"
	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/model"
	"github.com/harshgurla/codeassess/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AssessmentService covers the teacher-side operations: authoring, roster
// management, soft deletion, and the aggregate results view.
type AssessmentService interface {
	Create(creatorID uint, req dto.AssessmentCreateDTO) (*dto.AssessmentResponseDTO, error)
	ListOwn(creatorID uint) ([]dto.AssessmentSummaryDTO, error)
	GetOwn(creatorID, assessmentID uint) (*dto.AssessmentResponseDTO, error)
	SoftDelete(creatorID, assessmentID uint) error
	AssignStudents(creatorID, assessmentID uint, emails []string) (*dto.AssessmentResponseDTO, error)
	Results(creatorID, assessmentID uint) (*dto.AssessmentResultsDTO, error)
	ListStudents() ([]dto.AccountDTO, error)
	GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsDTO) ([]dto.QuestionResponseDTO, bool, error)
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	sessionRepo    repository.SessionRepository
	submissionRepo repository.SubmissionRepository
	accountRepo    repository.AccountRepository
	evaluator      Evaluator
	cfg            *config.Config
}

func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	sessionRepo repository.SessionRepository,
	submissionRepo repository.SubmissionRepository,
	accountRepo repository.AccountRepository,
	evaluator Evaluator,
	cfg *config.Config,
) AssessmentService {
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		sessionRepo:    sessionRepo,
		submissionRepo: submissionRepo,
		accountRepo:    accountRepo,
		evaluator:      evaluator,
		cfg:            cfg,
	}
}

func (s *assessmentService) Create(creatorID uint, req dto.AssessmentCreateDTO) (*dto.AssessmentResponseDTO, error) {
	if req.DurationMinutes < s.cfg.Limits.MinDurationMinutes || req.DurationMinutes > s.cfg.Limits.MaxDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrValidation, s.cfg.Limits.MinDurationMinutes, s.cfg.Limits.MaxDurationMinutes)
	}
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: an assessment needs at least one question", ErrValidation)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i, qDto := range req.Questions {
		q, err := buildQuestion(qDto, i+1)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	assessment := model.Assessment{
		Title:           req.Title,
		Topic:           req.Topic,
		Language:        req.Language,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
		Questions:       questions,
		CreatedBy:       creatorID,
		IsActive:        true,
	}
	if err := assessment.SetAssignedList(req.AssignedEmails); err != nil {
		return nil, fmt.Errorf("failed to encode assigned emails: %w", err)
	}

	if err := s.assessmentRepo.Create(&assessment); err != nil {
		log.Error().Err(err).Msg("Failed to create assessment")
		return nil, fmt.Errorf("database error creating assessment: %w", err)
	}

	created, err := s.assessmentRepo.FindByIDWithQuestions(assessment.ID)
	if err != nil {
		log.Error().Err(err).Uint("assessmentID", assessment.ID).Msg("Failed to reload created assessment")
		resp := assessmentToDTO(&assessment)
		return &resp, nil
	}
	resp := assessmentToDTO(created)
	return &resp, nil
}

// buildQuestion validates the variant-specific requirements and converts the
// DTO into the embedded model.
func buildQuestion(qDto dto.QuestionCreateDTO, defaultOrder int) (*model.Question, error) {
	if qDto.Points <= 0 {
		return nil, fmt.Errorf("%w: question %q must have a positive point value", ErrValidation, qDto.Title)
	}

	q := model.Question{
		Type:        qDto.Type,
		Title:       qDto.Title,
		Description: qDto.Description,
		Points:      qDto.Points,
		OrderIndex:  qDto.OrderIndex,
	}
	if q.OrderIndex == 0 {
		q.OrderIndex = defaultOrder
	}

	switch qDto.Type {
	case model.QuestionProgramming:
		if len(qDto.TestCases) == 0 {
			return nil, fmt.Errorf("%w: programming question %q requires at least one test case", ErrValidation, qDto.Title)
		}
		cases := make([]model.TestCase, 0, len(qDto.TestCases))
		for _, tc := range qDto.TestCases {
			cases = append(cases, model.TestCase{Input: tc.Input, Expected: tc.Expected, Hidden: tc.Hidden})
		}
		raw, _ := json.Marshal(cases)
		q.TestCases = raw
		q.StarterCode = qDto.StarterCode
		q.TimeLimitMS = qDto.TimeLimitMS
		q.MemoryLimitMB = qDto.MemoryLimitMB
	case model.QuestionTheory:
		if len(qDto.Keywords) > 0 {
			raw, _ := json.Marshal(qDto.Keywords)
			q.Keywords = raw
		}
		q.MinWords = qDto.MinWords
		q.MaxWords = qDto.MaxWords
	case model.QuestionMCQ:
		if len(qDto.Options) < 2 {
			return nil, fmt.Errorf("%w: mcq question %q requires at least two options", ErrValidation, qDto.Title)
		}
		if qDto.CorrectOption == nil || *qDto.CorrectOption < 0 || *qDto.CorrectOption >= len(qDto.Options) {
			return nil, fmt.Errorf("%w: mcq question %q requires a valid correct option index", ErrValidation, qDto.Title)
		}
		raw, _ := json.Marshal(qDto.Options)
		q.Options = raw
		q.CorrectOption = qDto.CorrectOption
		q.Explanation = qDto.Explanation
	default:
		return nil, fmt.Errorf("%w: unknown question type %q", ErrValidation, qDto.Type)
	}
	return &q, nil
}

func (s *assessmentService) ListOwn(creatorID uint) ([]dto.AssessmentSummaryDTO, error) {
	assessments, err := s.assessmentRepo.FindActiveByCreator(creatorID)
	if err != nil {
		log.Error().Err(err).Uint("creatorID", creatorID).Msg("Failed to list assessments")
		return nil, fmt.Errorf("error fetching assessments: %w", err)
	}
	summaries := make([]dto.AssessmentSummaryDTO, 0, len(assessments))
	for _, a := range assessments {
		summaries = append(summaries, dto.AssessmentSummaryDTO{
			ID:              a.ID,
			Title:           a.Title,
			Topic:           a.Topic,
			Language:        a.Language,
			Difficulty:      a.Difficulty,
			DurationMinutes: a.DurationMinutes,
			QuestionCount:   len(a.Questions),
			AssignedCount:   len(a.AssignedList()),
			CreatedAt:       a.CreatedAt,
		})
	}
	return summaries, nil
}

// ownedActive loads an assessment and fails closed: a missing record and a
// record owned by someone else produce the same error.
func (s *assessmentService) ownedActive(creatorID, assessmentID uint) (*model.Assessment, error) {
	assessment, err := s.assessmentRepo.FindByIDWithQuestions(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching assessment: %w", err)
	}
	if assessment.CreatedBy != creatorID {
		return nil, ErrNotFound
	}
	return assessment, nil
}

func (s *assessmentService) GetOwn(creatorID, assessmentID uint) (*dto.AssessmentResponseDTO, error) {
	assessment, err := s.ownedActive(creatorID, assessmentID)
	if err != nil {
		return nil, err
	}
	resp := assessmentToDTO(assessment)
	return &resp, nil
}

func (s *assessmentService) SoftDelete(creatorID, assessmentID uint) error {
	assessment, err := s.ownedActive(creatorID, assessmentID)
	if err != nil {
		return err
	}
	if !assessment.IsActive {
		return fmt.Errorf("%w: assessment already deleted", ErrStateConflict)
	}
	assessment.IsActive = false
	if err := s.assessmentRepo.Update(assessment); err != nil {
		log.Error().Err(err).Uint("assessmentID", assessmentID).Msg("Failed to soft-delete assessment")
		return fmt.Errorf("error deleting assessment: %w", err)
	}
	return nil
}

func (s *assessmentService) AssignStudents(creatorID, assessmentID uint, emails []string) (*dto.AssessmentResponseDTO, error) {
	assessment, err := s.ownedActive(creatorID, assessmentID)
	if err != nil {
		return nil, err
	}
	merged := append(assessment.AssignedList(), emails...)
	if err := assessment.SetAssignedList(merged); err != nil {
		return nil, fmt.Errorf("failed to encode assigned emails: %w", err)
	}
	if err := s.assessmentRepo.Update(assessment); err != nil {
		log.Error().Err(err).Uint("assessmentID", assessmentID).Msg("Failed to assign students")
		return nil, fmt.Errorf("error assigning students: %w", err)
	}
	resp := assessmentToDTO(assessment)
	return &resp, nil
}

func (s *assessmentService) Results(creatorID, assessmentID uint) (*dto.AssessmentResultsDTO, error) {
	assessment, err := s.ownedActive(creatorID, assessmentID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.FindAllByAssessment(assessmentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching sessions: %w", err)
	}
	submissions, err := s.submissionRepo.FindAllByAssessment(assessmentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching submissions: %w", err)
	}

	out := dto.AssessmentResultsDTO{
		AssessmentID: assessment.ID,
		Title:        assessment.Title,
		MaxScore:     assessment.MaxScore(),
		Sessions:     make([]dto.SessionResponseDTO, 0, len(sessions)),
		Submissions:  make([]dto.SubmissionDetailDTO, 0, len(submissions)),
	}
	for i := range sessions {
		out.Sessions = append(out.Sessions, sessionToDTO(&sessions[i]))
	}
	for i := range submissions {
		out.Submissions = append(out.Submissions, submissionToDTO(&submissions[i]))
	}
	return &out, nil
}

func (s *assessmentService) ListStudents() ([]dto.AccountDTO, error) {
	students, err := s.accountRepo.FindAllByRole(model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("error fetching students: %w", err)
	}
	out := make([]dto.AccountDTO, 0, len(students))
	for _, st := range students {
		out = append(out, dto.AccountDTO{ID: st.ID, Email: st.Email, Role: st.Role, Name: st.Name})
	}
	return out, nil
}

// GenerateQuestions delegates to the evaluator; on any failure it substitutes
// deterministic placeholders so creation can proceed. The bool reports
// whether placeholders were used.
func (s *assessmentService) GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsDTO) ([]dto.QuestionResponseDTO, bool, error) {
	spec := GenerationSpec{
		Type:       req.Type,
		Topic:      req.Topic,
		Language:   req.Language,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	}

	questions, err := s.evaluator.GenerateQuestions(ctx, spec)
	placeholder := false
	if err != nil {
		log.Warn().Err(err).Str("topic", req.Topic).Msg("Question generation failed, substituting placeholders")
		questions = PlaceholderQuestions(spec)
		placeholder = true
	}

	out := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		out = append(out, questionToDTO(&questions[i]))
	}
	return out, placeholder, nil
}
