package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harshgurla/codeassess/internal/model"
)

// GenerationSpec describes a batch of questions to generate.
type GenerationSpec struct {
	Type       string
	Topic      string
	Language   string
	Difficulty string
	Count      int
}

// Evaluation is the outcome of scoring one submission against its question.
type Evaluation struct {
	Score    float64
	MaxScore float64
	Feedback string
	Status   string
}

type RunRequest struct {
	Language string
	Code     string
	Stdin    string
}

type RunResult struct {
	Output   string
	Error    string
	ExitCode int
	TimeMS   int
}

// Evaluator is the external AI collaborator. It is injected everywhere so
// tests can substitute a deterministic fake.
type Evaluator interface {
	GenerateQuestions(ctx context.Context, spec GenerationSpec) ([]model.Question, error)
	EvaluateSubmission(ctx context.Context, question *model.Question, submission *model.Submission) (*Evaluation, error)
	RunCode(ctx context.Context, req RunRequest) (*RunResult, error)
}

// PlaceholderQuestions builds deterministic fallback questions so assessment
// creation can proceed when generation fails.
func PlaceholderQuestions(spec GenerationSpec) []model.Question {
	questions := make([]model.Question, 0, spec.Count)
	for i := 1; i <= spec.Count; i++ {
		q := model.Question{
			Type:       spec.Type,
			Title:      fmt.Sprintf("%s question %d", spec.Topic, i),
			Points:     10,
			OrderIndex: i,
		}
		switch spec.Type {
		case model.QuestionProgramming:
			q.Description = fmt.Sprintf("Write a %s program about %s (%s level). Read input from stdin and print the result.", spec.Language, spec.Topic, spec.Difficulty)
			starter := fmt.Sprintf("// %s solution\n", spec.Language)
			q.StarterCode = &starter
			cases, _ := json.Marshal([]model.TestCase{
				{Input: "sample input", Expected: "sample output", Hidden: false},
				{Input: "hidden input", Expected: "hidden output", Hidden: true},
			})
			q.TestCases = cases
			timeLimit, memLimit := 2000, 256
			q.TimeLimitMS = &timeLimit
			q.MemoryLimitMB = &memLimit
		case model.QuestionTheory:
			q.Description = fmt.Sprintf("Explain the key concepts of %s at %s level.", spec.Topic, spec.Difficulty)
			keywords, _ := json.Marshal([]string{spec.Topic})
			q.Keywords = keywords
			minWords, maxWords := 50, 300
			q.MinWords = &minWords
			q.MaxWords = &maxWords
		case model.QuestionMCQ:
			q.Description = fmt.Sprintf("Which statement about %s is correct?", spec.Topic)
			options, _ := json.Marshal([]string{
				fmt.Sprintf("A correct statement about %s", spec.Topic),
				"An incorrect statement",
				"Another incorrect statement",
				"Yet another incorrect statement",
			})
			q.Options = options
			correct := 0
			q.CorrectOption = &correct
			explanation := "Placeholder explanation; regenerate when the AI provider is available."
			q.Explanation = &explanation
		}
		questions = append(questions, q)
	}
	return questions
}
