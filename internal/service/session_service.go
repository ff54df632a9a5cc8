package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/model"
	"github.com/harshgurla/codeassess/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionService implements the timed-attempt lifecycle: idempotent start,
// per-question submission with lazy expiry enforcement, and completion.
type SessionService interface {
	Start(assessmentID uint, studentEmail string) (*dto.StartSessionResponseDTO, error)
	Submit(ctx context.Context, assessmentID, questionID uint, studentEmail string, req dto.SubmitAnswerDTO) (*dto.SubmissionResponseDTO, error)
	Complete(assessmentID uint, studentEmail string) (*dto.SessionResponseDTO, error)
	Stats(studentEmail string) (*dto.StudentStatsDTO, error)
}

type sessionService struct {
	assessmentRepo repository.AssessmentRepository
	sessionRepo    repository.SessionRepository
	submissionRepo repository.SubmissionRepository
	evaluator      Evaluator
}

func NewSessionService(
	assessmentRepo repository.AssessmentRepository,
	sessionRepo repository.SessionRepository,
	submissionRepo repository.SubmissionRepository,
	evaluator Evaluator,
) SessionService {
	return &sessionService{
		assessmentRepo: assessmentRepo,
		sessionRepo:    sessionRepo,
		submissionRepo: submissionRepo,
		evaluator:      evaluator,
	}
}

// assignedActive loads an assessment for a student. Unknown ids, inactive
// assessments, and assessments the student is not assigned to all fail with
// the same authorization error so existence never leaks.
func (s *sessionService) assignedActive(assessmentID uint, studentEmail string) (*model.Assessment, error) {
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
	return assessment, nil
}

// Start is idempotent: re-invoking it never resets the clock; the caller only
// learns via the Resumed flag that the session already existed.
func (s *sessionService) Start(assessmentID uint, studentEmail string) (*dto.StartSessionResponseDTO, error) {
	studentEmail = strings.ToLower(studentEmail)
	assessment, err := s.assignedActive(assessmentID, studentEmail)
	if err != nil {
		return nil, err
	}

	if existing, err := s.sessionRepo.FindByAssessmentAndStudent(assessmentID, studentEmail); err == nil {
		return &dto.StartSessionResponseDTO{
			SessionID:       existing.ID,
			StartedAt:       existing.StartedAt,
			DurationMinutes: assessment.DurationMinutes,
			MaxScore:        existing.MaxScore,
			Resumed:         true,
		}, nil
	}

	session := model.Session{
		AssessmentID: assessmentID,
		StudentEmail: studentEmail,
		MaxScore:     assessment.MaxScore(),
		StartedAt:    time.Now(),
	}
	if err := s.sessionRepo.Create(&session); err != nil {
		// Two rapid starts race on the unique (assessment, student) index;
		// the loser returns the winner's session.
		if winner, findErr := s.sessionRepo.FindByAssessmentAndStudent(assessmentID, studentEmail); findErr == nil {
			return &dto.StartSessionResponseDTO{
				SessionID:       winner.ID,
				StartedAt:       winner.StartedAt,
				DurationMinutes: assessment.DurationMinutes,
				MaxScore:        winner.MaxScore,
				Resumed:         true,
			}, nil
		}
		log.Error().Err(err).Uint("assessmentID", assessmentID).Str("student", studentEmail).Msg("Failed to create session")
		return nil, fmt.Errorf("error starting session: %w", err)
	}

	return &dto.StartSessionResponseDTO{
		SessionID:       session.ID,
		StartedAt:       session.StartedAt,
		DurationMinutes: assessment.DurationMinutes,
		MaxScore:        session.MaxScore,
		Resumed:         false,
	}, nil
}

// Submit upserts the student's answer for one question and evaluates it
// synchronously. Expiry is checked here, lazily: the first interaction after
// the time limit force-completes the session and is itself rejected.
func (s *sessionService) Submit(ctx context.Context, assessmentID, questionID uint, studentEmail string, req dto.SubmitAnswerDTO) (*dto.SubmissionResponseDTO, error) {
	studentEmail = strings.ToLower(studentEmail)
	assessment, err := s.assignedActive(assessmentID, studentEmail)
	if err != nil {
		return nil, err
	}

	var question *model.Question
	for i := range assessment.Questions {
		if assessment.Questions[i].ID == questionID {
			question = &assessment.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question %d is not part of this assessment", ErrValidation, questionID)
	}

	session, err := s.sessionRepo.FindByAssessmentAndStudent(assessmentID, studentEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assessment not started", ErrStateConflict)
		}
		return nil, fmt.Errorf("error fetching session: %w", err)
	}
	if !session.Open() {
		return nil, fmt.Errorf("%w: session already completed", ErrStateConflict)
	}

	now := time.Now()
	if session.Expired(now, assessment.DurationMinutes) {
		if err := s.forceComplete(session, now); err != nil {
			return nil, err
		}
		return nil, ErrTimeLimitExceeded
	}

	submission, err := s.upsertSubmission(session, question, studentEmail, req, now)
	if err != nil {
		return nil, err
	}

	resp := &dto.SubmissionResponseDTO{
		SubmissionID: submission.ID,
		QuestionID:   questionID,
		Status:       submission.Status,
		MaxScore:     question.Points,
		SessionTotal: session.TotalScore,
		SessionMax:   session.MaxScore,
		Percentage:   session.Percentage,
	}

	evaluation, evalErr := s.evaluator.EvaluateSubmission(ctx, question, submission)
	if evalErr != nil {
		// Degraded mode: the answer is persisted pending; a future
		// resubmission is the only recovery path.
		log.Warn().Err(evalErr).Uint("submissionID", submission.ID).Msg("Evaluation failed, submission left pending")
		return resp, nil
	}

	evaluatedAt := time.Now()
	submission.Status = evaluation.Status
	submission.Score = evaluation.Score
	submission.Feedback = evaluation.Feedback
	submission.EvaluatedAt = &evaluatedAt
	if err := s.submissionRepo.Save(submission); err != nil {
		log.Error().Err(err).Uint("submissionID", submission.ID).Msg("Failed to persist evaluation result")
		return nil, fmt.Errorf("error saving evaluation: %w", err)
	}

	if err := s.recomputeTotals(session); err != nil {
		return nil, err
	}

	resp.Status = submission.Status
	resp.Score = submission.Score
	resp.Feedback = submission.Feedback
	resp.Evaluated = true
	resp.EvaluatedAt = submission.EvaluatedAt
	resp.SessionTotal = session.TotalScore
	resp.SessionMax = session.MaxScore
	resp.Percentage = session.Percentage
	return resp, nil
}

// upsertSubmission overwrites any existing answer for this question, keeping
// the row identity so at most one submission exists per key.
func (s *sessionService) upsertSubmission(session *model.Session, question *model.Question, studentEmail string, req dto.SubmitAnswerDTO, now time.Time) (*model.Submission, error) {
	submission, err := s.submissionRepo.FindByKey(session.AssessmentID, question.ID, studentEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("error fetching submission: %w", err)
		}
		submission = &model.Submission{
			SessionID:    session.ID,
			AssessmentID: session.AssessmentID,
			QuestionID:   question.ID,
			StudentEmail: studentEmail,
		}
	}

	submission.Answer = req.Answer
	submission.Language = req.Language
	submission.Status = model.StatusPending
	submission.Score = 0
	submission.Feedback = ""
	submission.EvaluatedAt = nil
	submission.SubmittedAt = now

	if err := s.submissionRepo.Save(submission); err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Failed to save submission")
		return nil, fmt.Errorf("error saving submission: %w", err)
	}
	return submission, nil
}

// recomputeTotals re-reads the full submission set and derives the session
// total from it, so a crash between submission and session writes self-heals
// on the next scored submission.
func (s *sessionService) recomputeTotals(session *model.Session) error {
	submissions, err := s.submissionRepo.FindAllByAssessmentAndStudent(session.AssessmentID, session.StudentEmail)
	if err != nil {
		return fmt.Errorf("error fetching submissions: %w", err)
	}
	var total float64
	for _, sub := range submissions {
		total += sub.Score
	}
	session.TotalScore = total
	session.Percentage = model.Percent(total, session.MaxScore)
	if err := s.sessionRepo.Update(session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to update session totals")
		return fmt.Errorf("error updating session: %w", err)
	}
	return nil
}

func (s *sessionService) forceComplete(session *model.Session, now time.Time) error {
	completedAt := now
	session.CompletedAt = &completedAt
	session.TimeSpentMinutes = int(now.Sub(session.StartedAt).Minutes())
	if err := s.sessionRepo.Update(session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to force-complete expired session")
		return fmt.Errorf("error completing session: %w", err)
	}
	log.Info().Uint("sessionID", session.ID).Msg("Session force-completed after time limit")
	return nil
}

// Complete finalizes the session. Scores are whatever the last submission
// left them at; completion never re-scores.
func (s *sessionService) Complete(assessmentID uint, studentEmail string) (*dto.SessionResponseDTO, error) {
	studentEmail = strings.ToLower(studentEmail)
	if _, err := s.assignedActive(assessmentID, studentEmail); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindByAssessmentAndStudent(assessmentID, studentEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assessment not started", ErrStateConflict)
		}
		return nil, fmt.Errorf("error fetching session: %w", err)
	}
	if !session.Open() {
		return nil, fmt.Errorf("%w: session already completed", ErrStateConflict)
	}

	now := time.Now()
	session.CompletedAt = &now
	session.TimeSpentMinutes = int(now.Sub(session.StartedAt).Minutes())
	if err := s.sessionRepo.Update(session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to complete session")
		return nil, fmt.Errorf("error completing session: %w", err)
	}

	resp := sessionToDTO(session)
	return &resp, nil
}

// Stats aggregates the student's own sessions.
func (s *sessionService) Stats(studentEmail string) (*dto.StudentStatsDTO, error) {
	studentEmail = strings.ToLower(studentEmail)

	assessments, err := s.assessmentRepo.FindActive()
	if err != nil {
		return nil, fmt.Errorf("error fetching assessments: %w", err)
	}
	assigned := 0
	for i := range assessments {
		if assessments[i].IsAssigned(studentEmail) {
			assigned++
		}
	}

	sessions, err := s.sessionRepo.FindAllByStudent(studentEmail)
	if err != nil {
		return nil, fmt.Errorf("error fetching sessions: %w", err)
	}

	stats := dto.StudentStatsDTO{TotalAssigned: assigned}
	var pctSum int
	for _, session := range sessions {
		if session.Open() {
			stats.InProgress++
			continue
		}
		stats.Completed++
		pctSum += session.Percentage
		if session.Percentage > stats.BestPercentage {
			stats.BestPercentage = session.Percentage
		}
		stats.TotalTimeMinutes += session.TimeSpentMinutes
	}
	if stats.Completed > 0 {
		stats.AveragePercentage = float64(pctSum) / float64(stats.Completed)
	}
	return &stats, nil
}
