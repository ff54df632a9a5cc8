package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/harshgurla/codeassess/config"
	"github.com/harshgurla/codeassess/internal/model"
)

func mcqQuestion(t *testing.T, options []string, correct int, explanation string) *model.Question {
	t.Helper()
	raw, err := json.Marshal(options)
	if err != nil {
		t.Fatalf("marshal options: %v", err)
	}
	q := model.Question{Type: model.QuestionMCQ, Title: "M", Points: 20, Options: raw, CorrectOption: &correct}
	if explanation != "" {
		q.Explanation = &explanation
	}
	return &q
}

func TestParseScoreAndFeedback(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantScore    string
		wantFeedback string
		wantErr      bool
	}{
		{
			name:         "score and feedback sections",
			raw:          "Score: 8.5\nFeedback:\nSolid answer, missing edge cases.",
			wantScore:    "8.5",
			wantFeedback: "Solid answer, missing edge cases.",
		},
		{
			name:      "score only",
			raw:       "Score: 10",
			wantScore: "10",
		},
		{
			name:         "trailing words on score line",
			raw:          "Score: 7 out of 10\nFeedback: decent",
			wantScore:    "7",
			wantFeedback: "decent",
		},
		{
			name:         "prose before score",
			raw:          "Here is my evaluation.\nScore: 3.0\nFeedback:\nMostly wrong.",
			wantScore:    "3.0",
			wantFeedback: "Mostly wrong.",
		},
		{
			name:    "missing score prefix",
			raw:     "The answer deserves full marks.",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, feedback, err := parseScoreAndFeedback(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parse(%q) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse(%q): %v", tt.raw, err)
			}
			if score != tt.wantScore {
				t.Errorf("score = %q, want %q", score, tt.wantScore)
			}
			if feedback != tt.wantFeedback {
				t.Errorf("feedback = %q, want %q", feedback, tt.wantFeedback)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	fenced := "```json\n[{\"title\":\"q\"}]\n```"
	if got := extractJSONArray(fenced); got != `[{"title":"q"}]` {
		t.Errorf("fenced: got %q", got)
	}
	plain := `[1,2,3]`
	if got := extractJSONArray(plain); got != plain {
		t.Errorf("plain: got %q", got)
	}
	prose := "no array here"
	if got := extractJSONArray(prose); got != prose {
		t.Errorf("prose: got %q, want input unchanged", got)
	}
}

func TestGradeMCQ(t *testing.T) {
	question := mcqQuestion(t, []string{"a", "b", "c"}, 1, "Option b is right because reasons.")

	correct, err := gradeMCQ(question, &model.Submission{Answer: "1"})
	if err != nil {
		t.Fatalf("grade correct: %v", err)
	}
	if correct.Score != question.Points || correct.Status != model.StatusAccepted {
		t.Errorf("correct answer: score=%v status=%q", correct.Score, correct.Status)
	}

	wrong, err := gradeMCQ(question, &model.Submission{Answer: "2"})
	if err != nil {
		t.Fatalf("grade wrong: %v", err)
	}
	if wrong.Score != 0 || wrong.Status != model.StatusWrong {
		t.Errorf("wrong answer: score=%v status=%q", wrong.Score, wrong.Status)
	}
	if !strings.Contains(wrong.Feedback, "Option b is right") {
		t.Errorf("wrong-answer feedback %q missing explanation", wrong.Feedback)
	}

	for _, answer := range []string{"not a number", "-1", "3", " "} {
		eval, err := gradeMCQ(question, &model.Submission{Answer: answer})
		if err != nil {
			t.Fatalf("grade %q: %v", answer, err)
		}
		if eval.Score != 0 || eval.Status != model.StatusWrong {
			t.Errorf("answer %q: score=%v status=%q, want 0/wrong", answer, eval.Score, eval.Status)
		}
	}

	theory := &model.Question{Type: model.QuestionTheory, Points: 10}
	if _, err := gradeMCQ(theory, &model.Submission{Answer: "1"}); err == nil {
		t.Error("grading a non-MCQ question should fail")
	}
}

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score, max float64
		want       string
	}{
		{10, 10, model.StatusAccepted},
		{12, 10, model.StatusAccepted},
		{5, 10, model.StatusPartial},
		{0.5, 10, model.StatusPartial},
		{0, 10, model.StatusWrong},
		{0, 0, model.StatusWrong},
	}
	for _, tt := range tests {
		if got := statusForScore(tt.score, tt.max); got != tt.want {
			t.Errorf("statusForScore(%v, %v) = %q, want %q", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestDegradedEvaluatorWithoutAPIKey(t *testing.T) {
	cfg := &config.Config{}
	eval, err := NewGeminiEvaluator(cfg)
	if err != nil {
		t.Fatalf("constructing degraded evaluator: %v", err)
	}
	ctx := context.Background()

	if _, err := eval.GenerateQuestions(ctx, GenerationSpec{Type: model.QuestionTheory, Topic: "maps", Count: 1}); !errors.Is(err, ErrEvaluatorUnavailable) {
		t.Errorf("GenerateQuestions error = %v, want ErrEvaluatorUnavailable", err)
	}
	theory := &model.Question{Type: model.QuestionTheory, Points: 10}
	if _, err := eval.EvaluateSubmission(ctx, theory, &model.Submission{Answer: "x"}); !errors.Is(err, ErrEvaluatorUnavailable) {
		t.Errorf("EvaluateSubmission error = %v, want ErrEvaluatorUnavailable", err)
	}
	if _, err := eval.RunCode(ctx, RunRequest{Language: "go", Code: "package main"}); !errors.Is(err, ErrEvaluatorUnavailable) {
		t.Errorf("RunCode error = %v, want ErrEvaluatorUnavailable", err)
	}

	// MCQ grading needs no provider and still works in degraded mode.
	question := mcqQuestion(t, []string{"a", "b"}, 0, "")
	result, err := eval.EvaluateSubmission(ctx, question, &model.Submission{Answer: "0"})
	if err != nil {
		t.Fatalf("MCQ grading in degraded mode: %v", err)
	}
	if result.Status != model.StatusAccepted {
		t.Errorf("status = %q, want accepted", result.Status)
	}
}

func TestPlaceholderQuestions(t *testing.T) {
	for _, typ := range []string{model.QuestionProgramming, model.QuestionTheory, model.QuestionMCQ} {
		spec := GenerationSpec{Type: typ, Topic: "interfaces", Language: "go", Difficulty: model.DifficultyBeginner, Count: 2}
		questions := PlaceholderQuestions(spec)
		if len(questions) != 2 {
			t.Fatalf("%s: got %d questions, want 2", typ, len(questions))
		}
		for i, q := range questions {
			if q.Type != typ || q.Points != 10 || q.OrderIndex != i+1 {
				t.Errorf("%s question %d = type=%q points=%v order=%d", typ, i, q.Type, q.Points, q.OrderIndex)
			}
			programming, theory, mcq := q.Variant()
			switch typ {
			case model.QuestionProgramming:
				if programming == nil || len(programming.TestCases) == 0 {
					t.Errorf("%s question %d has no test cases", typ, i)
				}
			case model.QuestionTheory:
				if theory == nil || len(theory.Keywords) == 0 {
					t.Errorf("%s question %d has no keywords", typ, i)
				}
			case model.QuestionMCQ:
				if mcq == nil || len(mcq.Options) < 2 {
					t.Errorf("%s question %d has too few options", typ, i)
				}
			}
		}
	}
}
