package student

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harshgurla/codeassess/internal/auth"
	"github.com/harshgurla/codeassess/internal/controller"
	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/service"
	"github.com/rs/zerolog/log"
)

type StudentController struct {
	studentAssessments service.StudentAssessmentService
	sessions           service.SessionService
}

func NewStudentController(studentAssessments service.StudentAssessmentService, sessions service.SessionService) *StudentController {
	return &StudentController{studentAssessments: studentAssessments, sessions: sessions}
}

// ListAssessments godoc
// @Summary (Student) List assigned assessments with attempt status
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StudentAssessmentDTO
// @Router /student/assessments [get]
func (c *StudentController) ListAssessments(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	assessments, err := c.studentAssessments.ListAssigned(claims.Email)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assessments)
}

// GetAssessment godoc
// @Summary (Student) Get the sanitized assessment view
// @Description Hidden test cases and correct answers are stripped.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Success 200 {object} dto.StudentAssessmentDetailDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /student/assessments/{assessment_id} [get]
func (c *StudentController) GetAssessment(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	claims := auth.ClaimsFrom(ctx)
	resp, err := c.studentAssessments.GetDetail(assessmentID, claims.Email)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// StartAssessment godoc
// @Summary (Student) Start (or resume) a timed session
// @Description Idempotent: repeated starts return the original session without resetting the clock.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Success 200 {object} dto.StartSessionResponseDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /student/assessments/{assessment_id}/start [post]
func (c *StudentController) StartAssessment(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	claims := auth.ClaimsFrom(ctx)
	resp, err := c.sessions.Start(assessmentID, claims.Email)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	log.Info().Uint("assessmentID", assessmentID).Str("student", claims.Email).Bool("resumed", resp.Resumed).Msg("Session start")
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary (Student) Submit an answer for one question
// @Description Upserts the submission and evaluates it synchronously; if the evaluator is unavailable the answer is saved pending.
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Param question_id path int true "Question ID"
// @Param answer body dto.SubmitAnswerDTO true "Answer"
// @Success 200 {object} dto.SubmissionResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Session completed or time limit exceeded"
// @Router /student/assessments/{assessment_id}/questions/{question_id}/submit [post]
func (c *StudentController) SubmitAnswer(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Reason: "validation", Details: []string{err.Error()}})
		return
	}
	claims := auth.ClaimsFrom(ctx)
	resp, err := c.sessions.Submit(ctx.Request.Context(), assessmentID, questionID, claims.Email, req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RunCode godoc
// @Summary (Student) Run scratch code without scoring
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code body dto.RunCodeDTO true "Code to run"
// @Success 200 {object} dto.RunCodeResponseDTO
// @Router /student/run [post]
func (c *StudentController) RunCode(ctx *gin.Context) {
	var req dto.RunCodeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Reason: "validation", Details: []string{err.Error()}})
		return
	}
	resp, err := c.studentAssessments.RunCode(ctx.Request.Context(), req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CompleteAssessment godoc
// @Summary (Student) Finalize the session
// @Description Sets the completion timestamp and time spent; scores are not recomputed.
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Param completion body dto.CompleteSessionDTO false "Auto-submit flag (informational)"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /student/assessments/{assessment_id}/complete [post]
func (c *StudentController) CompleteAssessment(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	// The auto-submit flag is accepted for interface compatibility but no
	// distinct record of it is stored.
	var req dto.CompleteSessionDTO
	_ = ctx.ShouldBindJSON(&req)

	claims := auth.ClaimsFrom(ctx)
	resp, err := c.sessions.Complete(assessmentID, claims.Email)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	log.Info().Uint("assessmentID", assessmentID).Str("student", claims.Email).Bool("auto", req.AutoSubmitted).Msg("Session completed")
	ctx.JSON(http.StatusOK, resp)
}

// GetStats godoc
// @Summary (Student) Aggregate own session stats
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StudentStatsDTO
// @Router /student/stats [get]
func (c *StudentController) GetStats(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	stats, err := c.sessions.Stats(claims.Email)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format", Reason: "validation"})
		return 0, false
	}
	return uint(val), true
}
