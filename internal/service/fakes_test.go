package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/harshgurla/codeassess/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests.

type fakeAccountRepo struct {
	accounts map[uint]model.Account
	nextID   uint
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uint]model.Account), nextID: 1}
}

func (r *fakeAccountRepo) Create(account *model.Account) error {
	for _, a := range r.accounts {
		if a.Email == strings.ToLower(account.Email) {
			return fmt.Errorf("duplicate email")
		}
	}
	account.ID = r.nextID
	r.nextID++
	account.Email = strings.ToLower(account.Email)
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) FindByEmail(email string) (*model.Account, error) {
	for _, a := range r.accounts {
		if a.Email == strings.ToLower(email) {
			out := a
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) FindByID(id uint) (*model.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := a
	return &out, nil
}

func (r *fakeAccountRepo) FindAllByRole(role string) ([]model.Account, error) {
	var out []model.Account
	for _, a := range r.accounts {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeAssessmentRepo struct {
	assessments map[uint]model.Assessment
	nextID      uint
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{assessments: make(map[uint]model.Assessment), nextID: 1}
}

func (r *fakeAssessmentRepo) Create(assessment *model.Assessment) error {
	assessment.ID = r.nextID
	r.nextID++
	for i := range assessment.Questions {
		assessment.Questions[i].ID = uint(100*assessment.ID) + uint(i) + 1
		assessment.Questions[i].AssessmentID = assessment.ID
	}
	r.assessments[assessment.ID] = *assessment
	return nil
}

func (r *fakeAssessmentRepo) Update(assessment *model.Assessment) error {
	if _, ok := r.assessments[assessment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.assessments[assessment.ID] = *assessment
	return nil
}

func (r *fakeAssessmentRepo) FindByID(id uint) (*model.Assessment, error) {
	a, ok := r.assessments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := a
	out.Questions = nil
	return &out, nil
}

func (r *fakeAssessmentRepo) FindByIDWithQuestions(id uint) (*model.Assessment, error) {
	a, ok := r.assessments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := a
	return &out, nil
}

func (r *fakeAssessmentRepo) FindActiveByCreator(creatorID uint) ([]model.Assessment, error) {
	var out []model.Assessment
	for _, a := range r.assessments {
		if a.CreatedBy == creatorID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) FindActive() ([]model.Assessment, error) {
	var out []model.Assessment
	for _, a := range r.assessments {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[uint]model.Session
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]model.Session), nextID: 1}
}

func (r *fakeSessionRepo) Create(session *model.Session) error {
	session.StudentEmail = strings.ToLower(session.StudentEmail)
	for _, s := range r.sessions {
		if s.AssessmentID == session.AssessmentID && s.StudentEmail == session.StudentEmail {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	session.ID = r.nextID
	r.nextID++
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) Update(session *model.Session) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) FindByID(id uint) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := s
	return &out, nil
}

func (r *fakeSessionRepo) FindByAssessmentAndStudent(assessmentID uint, studentEmail string) (*model.Session, error) {
	for _, s := range r.sessions {
		if s.AssessmentID == assessmentID && s.StudentEmail == strings.ToLower(studentEmail) {
			out := s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindAllByAssessment(assessmentID uint) ([]model.Session, error) {
	var out []model.Session
	for _, s := range r.sessions {
		if s.AssessmentID == assessmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) FindAllByStudent(studentEmail string) ([]model.Session, error) {
	var out []model.Session
	for _, s := range r.sessions {
		if s.StudentEmail == strings.ToLower(studentEmail) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSubmissionRepo struct {
	submissions map[uint]model.Submission
	nextID      uint
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[uint]model.Submission), nextID: 1}
}

func (r *fakeSubmissionRepo) Save(submission *model.Submission) error {
	submission.StudentEmail = strings.ToLower(submission.StudentEmail)
	if submission.ID == 0 {
		submission.ID = r.nextID
		r.nextID++
	}
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *fakeSubmissionRepo) FindByKey(assessmentID, questionID uint, studentEmail string) (*model.Submission, error) {
	for _, s := range r.submissions {
		if s.AssessmentID == assessmentID && s.QuestionID == questionID && s.StudentEmail == strings.ToLower(studentEmail) {
			out := s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSubmissionRepo) FindAllByAssessmentAndStudent(assessmentID uint, studentEmail string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range r.submissions {
		if s.AssessmentID == assessmentID && s.StudentEmail == strings.ToLower(studentEmail) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) FindAllByAssessment(assessmentID uint) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range r.submissions {
		if s.AssessmentID == assessmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeEvaluator scores deterministically: nextScore per question id, or a
// fixed error when failing is set.
type fakeEvaluator struct {
	scores      map[uint]float64
	failing     bool
	generated   []model.Question
	generateErr error
	evalCalls   int
}

func (e *fakeEvaluator) GenerateQuestions(ctx context.Context, spec GenerationSpec) ([]model.Question, error) {
	if e.generateErr != nil {
		return nil, e.generateErr
	}
	return e.generated, nil
}

func (e *fakeEvaluator) EvaluateSubmission(ctx context.Context, question *model.Question, submission *model.Submission) (*Evaluation, error) {
	e.evalCalls++
	if e.failing {
		return nil, fmt.Errorf("%w: provider down", ErrEvaluatorUnavailable)
	}
	score := e.scores[question.ID]
	return &Evaluation{
		Score:    score,
		MaxScore: question.Points,
		Feedback: "test feedback",
		Status:   statusForScore(score, question.Points),
	}, nil
}

func (e *fakeEvaluator) RunCode(ctx context.Context, req RunRequest) (*RunResult, error) {
	if e.failing {
		return nil, fmt.Errorf("%w: provider down", ErrEvaluatorUnavailable)
	}
	return &RunResult{Output: "ok"}, nil
}
