package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/harshgurla/codeassess/config"
	"github.com/harshgurla/codeassess/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type geminiEvaluator struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

// NewGeminiEvaluator builds the Gemini-backed Evaluator. With no API key the
// evaluator is constructed in a degraded mode where every call returns
// ErrEvaluatorUnavailable, which callers handle gracefully.
func NewGeminiEvaluator(cfg *config.Config) (Evaluator, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Evaluator will be non-functional.")
		return &geminiEvaluator{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiEvaluator{client: client.GenerativeModel(cfg.Gemini.Model), cfg: cfg}, nil
}

type generatedQuestion struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Points        float64          `json:"points"`
	StarterCode   string           `json:"starter_code"`
	TestCases     []model.TestCase `json:"test_cases"`
	Keywords      []string         `json:"keywords"`
	MinWords      int              `json:"min_words"`
	MaxWords      int              `json:"max_words"`
	Options       []string         `json:"options"`
	CorrectOption int              `json:"correct_option"`
	Explanation   string           `json:"explanation"`
}

func (e *geminiEvaluator) GenerateQuestions(ctx context.Context, spec GenerationSpec) ([]model.Question, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: gemini client not initialized", ErrEvaluatorUnavailable)
	}

	var prompt strings.Builder
	prompt.WriteString("You are an expert technical educator creating assessment questions.\n")
	fmt.Fprintf(&prompt, "Generate exactly %d questions of type %q about %q at %s difficulty", spec.Count, spec.Type, spec.Topic, spec.Difficulty)
	if spec.Language != "" {
		fmt.Fprintf(&prompt, " for the %s programming language", spec.Language)
	}
	prompt.WriteString(".\n\nRespond with ONLY a JSON array, no markdown fences, where each element has:\n")
	prompt.WriteString(`"title", "description", "points" (positive number)`)
	switch spec.Type {
	case model.QuestionProgramming:
		prompt.WriteString(`, "starter_code", "test_cases" (array of {"input","expected","hidden"})`)
	case model.QuestionTheory:
		prompt.WriteString(`, "keywords" (array of expected terms), "min_words", "max_words"`)
	case model.QuestionMCQ:
		prompt.WriteString(`, "options" (array of 4 strings), "correct_option" (zero-based index), "explanation"`)
	}
	prompt.WriteString(".\n")

	resp, err := e.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Str("topic", spec.Topic).Msg("Gemini API error during question generation")
		return nil, fmt.Errorf("%w: %v", ErrEvaluatorUnavailable, err)
	}

	raw := collectText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%w: gemini returned no text content", ErrEvaluatorUnavailable)
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &generated); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse generated questions JSON")
		return nil, fmt.Errorf("%w: malformed generation response: %v", ErrEvaluatorUnavailable, err)
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: generation produced no questions", ErrEvaluatorUnavailable)
	}

	questions := make([]model.Question, 0, len(generated))
	for i, g := range generated {
		q := model.Question{
			Type:        spec.Type,
			Title:       g.Title,
			Description: g.Description,
			Points:      g.Points,
			OrderIndex:  i + 1,
		}
		if q.Points <= 0 {
			q.Points = 10
		}
		switch spec.Type {
		case model.QuestionProgramming:
			if g.StarterCode != "" {
				starter := g.StarterCode
				q.StarterCode = &starter
			}
			cases, _ := json.Marshal(g.TestCases)
			q.TestCases = cases
			timeLimit, memLimit := 2000, 256
			q.TimeLimitMS = &timeLimit
			q.MemoryLimitMB = &memLimit
		case model.QuestionTheory:
			keywords, _ := json.Marshal(g.Keywords)
			q.Keywords = keywords
			if g.MinWords > 0 {
				minWords := g.MinWords
				q.MinWords = &minWords
			}
			if g.MaxWords > 0 {
				maxWords := g.MaxWords
				q.MaxWords = &maxWords
			}
		case model.QuestionMCQ:
			if len(g.Options) < 2 {
				log.Warn().Int("index", i).Msg("Generated MCQ has fewer than two options, skipping")
				continue
			}
			options, _ := json.Marshal(g.Options)
			q.Options = options
			correct := g.CorrectOption
			if correct < 0 || correct >= len(g.Options) {
				correct = 0
			}
			q.CorrectOption = &correct
			if g.Explanation != "" {
				explanation := g.Explanation
				q.Explanation = &explanation
			}
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions in generation response", ErrEvaluatorUnavailable)
	}
	return questions, nil
}

func (e *geminiEvaluator) EvaluateSubmission(ctx context.Context, question *model.Question, submission *model.Submission) (*Evaluation, error) {
	// MCQ grading is deterministic; no provider round-trip needed.
	if question.Type == model.QuestionMCQ {
		return gradeMCQ(question, submission)
	}

	if e.client == nil {
		return nil, fmt.Errorf("%w: gemini client not initialized", ErrEvaluatorUnavailable)
	}

	prompt, err := buildEvaluationPrompt(question, submission)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini API error during evaluation")
		return nil, fmt.Errorf("%w: %v", ErrEvaluatorUnavailable, err)
	}

	raw := collectText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%w: gemini returned no text content", ErrEvaluatorUnavailable)
	}

	scoreStr, feedback, parseErr := parseScoreAndFeedback(raw)
	if parseErr != nil {
		log.Warn().Err(parseErr).Str("rawResponse", raw).Msg("Failed to parse score and feedback from Gemini response")
		return nil, fmt.Errorf("%w: %v", ErrEvaluatorUnavailable, parseErr)
	}
	score, scoreErr := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
	if scoreErr != nil {
		log.Warn().Err(scoreErr).Str("scoreStr", scoreStr).Msg("Failed to parse score string to float")
		return nil, fmt.Errorf("%w: could not parse score value %q", ErrEvaluatorUnavailable, scoreStr)
	}

	if score > question.Points {
		score = question.Points
	}
	if score < 0 {
		score = 0
	}

	return &Evaluation{
		Score:    score,
		MaxScore: question.Points,
		Feedback: strings.TrimSpace(feedback),
		Status:   statusForScore(score, question.Points),
	}, nil
}

func (e *geminiEvaluator) RunCode(ctx context.Context, req RunRequest) (*RunResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: gemini client not initialized", ErrEvaluatorUnavailable)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "You are a %s interpreter. Execute the following program", req.Language)
	if req.Stdin != "" {
		prompt.WriteString(" with the given stdin")
	}
	prompt.WriteString(" and respond with ONLY the program's stdout. If the program would not compile or would crash, respond with 'ERROR:' followed by a one-line diagnosis.\n\nProgram:\n---\n")
	prompt.WriteString(req.Code)
	prompt.WriteString("\n---\n")
	if req.Stdin != "" {
		prompt.WriteString("Stdin:\n---\n")
		prompt.WriteString(req.Stdin)
		prompt.WriteString("\n---\n")
	}

	resp, err := e.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during code run")
		return nil, fmt.Errorf("%w: %v", ErrEvaluatorUnavailable, err)
	}

	out := strings.TrimSpace(collectText(resp))
	if diag, found := strings.CutPrefix(out, "ERROR:"); found {
		return &RunResult{Error: strings.TrimSpace(diag), ExitCode: 1}, nil
	}
	return &RunResult{Output: out}, nil
}

func buildEvaluationPrompt(question *model.Question, submission *model.Submission) (string, error) {
	var b strings.Builder
	b.WriteString("You are a strict but fair examiner for a technical assessment platform.\n")

	programming, theory, _ := question.Variant()
	switch {
	case programming != nil:
		fmt.Fprintf(&b, "Evaluate the following %s code submission against the problem and its test cases.\n\n", submission.Language)
		b.WriteString("Problem:\n---\n")
		b.WriteString(question.Description)
		b.WriteString("\n---\n\nTest cases:\n")
		for i, tc := range programming.TestCases {
			fmt.Fprintf(&b, "%d. input: %q expected: %q\n", i+1, tc.Input, tc.Expected)
		}
		b.WriteString("\nJudge correctness against every test case, then code quality and efficiency.\n")
	case theory != nil:
		b.WriteString("Evaluate the following free-text answer to a theory question.\n\n")
		b.WriteString("Question:\n---\n")
		b.WriteString(question.Description)
		b.WriteString("\n---\n")
		if len(theory.Keywords) > 0 {
			fmt.Fprintf(&b, "\nExpected concepts: %s\n", strings.Join(theory.Keywords, ", "))
		}
		if theory.MinWords > 0 || theory.MaxWords > 0 {
			fmt.Fprintf(&b, "Expected length: %d-%d words.\n", theory.MinWords, theory.MaxWords)
		}
		b.WriteString("\nJudge accuracy, completeness, and clarity.\n")
	default:
		return "", fmt.Errorf("unsupported question type for evaluation: %s", question.Type)
	}

	b.WriteString("\nSubmission:\n---\n")
	b.WriteString(submission.Answer)
	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, `Provide your evaluation as:
Score: [numerical score from 0.0 to %.1f]
Feedback:
[constructive feedback naming specific strengths and errors with corrections]
`, question.Points)

	return b.String(), nil
}

// gradeMCQ compares the submitted option index against the stored correct
// option.
func gradeMCQ(question *model.Question, submission *model.Submission) (*Evaluation, error) {
	_, _, mcq := question.Variant()
	if mcq == nil {
		return nil, fmt.Errorf("question %d is not an MCQ", question.ID)
	}
	chosen, err := strconv.Atoi(strings.TrimSpace(submission.Answer))
	if err != nil || chosen < 0 || chosen >= len(mcq.Options) {
		return &Evaluation{
			Score:    0,
			MaxScore: question.Points,
			Feedback: "The submitted answer is not a valid option index.",
			Status:   model.StatusWrong,
		}, nil
	}
	if chosen == mcq.CorrectOption {
		return &Evaluation{
			Score:    question.Points,
			MaxScore: question.Points,
			Feedback: "Correct.",
			Status:   model.StatusAccepted,
		}, nil
	}
	feedback := "Incorrect option."
	if mcq.Explanation != "" {
		feedback = "Incorrect option. " + mcq.Explanation
	}
	return &Evaluation{
		Score:    0,
		MaxScore: question.Points,
		Feedback: feedback,
		Status:   model.StatusWrong,
	}, nil
}

func statusForScore(score, maxScore float64) string {
	switch {
	case maxScore > 0 && score >= maxScore:
		return model.StatusAccepted
	case score > 0:
		return model.StatusPartial
	default:
		return model.StatusWrong
	}
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// extractJSONArray strips any prose or markdown fences the model wraps around
// the JSON payload.
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}

func parseScoreAndFeedback(rawResponse string) (scoreStr string, feedbackStr string, err error) {
	scorePrefix := "Score:"
	feedbackPrefix := "Feedback:"

	scoreIndex := strings.Index(rawResponse, scorePrefix)
	if scoreIndex == -1 {
		return "", rawResponse, fmt.Errorf("response does not contain 'Score:' prefix")
	}
	feedbackIndex := strings.Index(rawResponse, feedbackPrefix)

	endOfScoreLine := strings.Index(rawResponse[scoreIndex:], "\n")
	if endOfScoreLine == -1 {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix):])
	} else {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix) : scoreIndex+endOfScoreLine])
	}

	if feedbackIndex != -1 && feedbackIndex > scoreIndex {
		feedbackStr = strings.TrimSpace(rawResponse[feedbackIndex+len(feedbackPrefix):])
	} else if endOfScoreLine != -1 && len(rawResponse) > scoreIndex+endOfScoreLine+1 {
		feedbackStr = strings.TrimSpace(rawResponse[scoreIndex+endOfScoreLine+1:])
	}

	// The score line may carry trailing words; keep only the leading number.
	if parts := strings.Fields(scoreStr); len(parts) > 0 {
		scoreStr = parts[0]
	}
	return scoreStr, feedbackStr, nil
}
