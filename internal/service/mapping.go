package service

import (
	"encoding/json"

	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/model"
	"github.com/jinzhu/copier"
)

func questionToDTO(q *model.Question) dto.QuestionResponseDTO {
	var out dto.QuestionResponseDTO
	copier.Copy(&out, q)
	// JSON columns do not map through copier field matching.
	_ = json.Unmarshal(q.TestCases, &out.TestCases)
	_ = json.Unmarshal(q.Keywords, &out.Keywords)
	_ = json.Unmarshal(q.Options, &out.Options)
	return out
}

// questionToStudentDTO strips hidden test cases and everything that would
// reveal the answer.
func questionToStudentDTO(q *model.Question) dto.StudentQuestionDTO {
	out := dto.StudentQuestionDTO{
		ID:          q.ID,
		Type:        q.Type,
		Title:       q.Title,
		Description: q.Description,
		Points:      q.Points,
		OrderIndex:  q.OrderIndex,
		StarterCode: q.StarterCode,
		TimeLimitMS: q.TimeLimitMS,
		MinWords:    q.MinWords,
		MaxWords:    q.MaxWords,
		Options:     q.OptionList(),
	}
	for _, tc := range q.TestCaseList() {
		if tc.Hidden {
			continue
		}
		out.TestCases = append(out.TestCases, dto.TestCaseDTO{Input: tc.Input, Expected: tc.Expected})
	}
	return out
}

func assessmentToDTO(a *model.Assessment) dto.AssessmentResponseDTO {
	out := dto.AssessmentResponseDTO{
		ID:              a.ID,
		Title:           a.Title,
		Topic:           a.Topic,
		Language:        a.Language,
		Difficulty:      a.Difficulty,
		DurationMinutes: a.DurationMinutes,
		MaxScore:        a.MaxScore(),
		AssignedEmails:  a.AssignedList(),
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
	}
	for i := range a.Questions {
		out.Questions = append(out.Questions, questionToDTO(&a.Questions[i]))
	}
	return out
}

func sessionToDTO(s *model.Session) dto.SessionResponseDTO {
	var out dto.SessionResponseDTO
	copier.Copy(&out, s)
	if s.Assessment.ID != 0 {
		out.AssessmentTitle = s.Assessment.Title
	}
	return out
}

func submissionToDTO(s *model.Submission) dto.SubmissionDetailDTO {
	var out dto.SubmissionDetailDTO
	copier.Copy(&out, s)
	return out
}
