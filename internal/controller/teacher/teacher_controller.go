package teacher

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

type TeacherController struct {
	assessmentService service.AssessmentService
}

func NewTeacherController(assessmentService service.AssessmentService) *TeacherController {
	return &TeacherController{assessmentService: assessmentService}
}

// CreateAssessment godoc
// @Summary (Teacher) Create an assessment with its full question list
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assessment body dto.AssessmentCreateDTO true "Assessment data"
// @Success 201 {object} dto.AssessmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /teacher/assessments [post]
func (c *TeacherController) CreateAssessment(ctx *gin.Context) {
	var req dto.AssessmentCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Reason: "validation", Details: []string{err.Error()}})
		return
	}
	claims := auth.ClaimsFrom(ctx)
	resp, err := c.assessmentService.Create(claims.AccountID, req)
	if err != nil {
		log.Warn().Err(err).Str("teacher", claims.Email).Msg("Assessment creation failed")
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GenerateQuestions godoc
// @Summary (Teacher) Generate questions via the AI collaborator
// @Description On provider failure deterministic placeholder questions are returned so authoring can proceed.
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param spec body dto.GenerateQuestionsDTO true "Generation spec"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Router /teacher/questions/generate [post]
func (c *TeacherController) GenerateQuestions(ctx *gin.Context) {
	var req dto.GenerateQuestionsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Reason: "validation", Details: []string{err.Error()}})
		return
	}
	questions, placeholder, err := c.assessmentService.GenerateQuestions(ctx.Request.Context(), req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"questions": questions, "placeholder": placeholder})
}

// ListAssessments godoc
// @Summary (Teacher) List own active assessments
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AssessmentSummaryDTO
// @Router /teacher/assessments [get]
func (c *TeacherController) ListAssessments(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	assessments, err := c.assessmentService.ListOwn(claims.AccountID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assessments)
}

// GetAssessment godoc
// @Summary (Teacher) Get full assessment detail
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Success 200 {object} dto.AssessmentResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacher/assessments/{assessment_id} [get]
func (c *TeacherController) GetAssessment(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	claims := auth.ClaimsFrom(ctx)
	resp, err := c.assessmentService.GetOwn(claims.AccountID, assessmentID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteAssessment godoc
// @Summary (Teacher) Soft-delete an assessment
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Success 204 "deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacher/assessments/{assessment_id} [delete]
func (c *TeacherController) DeleteAssessment(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	claims := auth.ClaimsFrom(ctx)
	if err := c.assessmentService.SoftDelete(claims.AccountID, assessmentID); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AssignStudents godoc
// @Summary (Teacher) Assign students to an assessment
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Param students body dto.AssignStudentsDTO true "Student emails"
// @Success 200 {object} dto.AssessmentResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacher/assessments/{assessment_id}/students [post]
func (c *TeacherController) AssignStudents(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	var req dto.AssignStudentsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Reason: "validation", Details: []string{err.Error()}})
		return
	}
	claims := auth.ClaimsFrom(ctx)
	resp, err := c.assessmentService.AssignStudents(claims.AccountID, assessmentID, req.Emails)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetResults godoc
// @Summary (Teacher) Aggregate sessions and submissions for an assessment
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param assessment_id path int true "Assessment ID"
// @Success 200 {object} dto.AssessmentResultsDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacher/assessments/{assessment_id}/submissions [get]
func (c *TeacherController) GetResults(ctx *gin.Context) {
	assessmentID, ok := pathID(ctx, "assessment_id")
	if !ok {
		return
	}
	claims := auth.ClaimsFrom(ctx)
	resp, err := c.assessmentService.Results(claims.AccountID, assessmentID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListStudents godoc
// @Summary (Teacher) List registered student accounts
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AccountDTO
// @Router /teacher/students [get]
func (c *TeacherController) ListStudents(ctx *gin.Context) {
	students, err := c.assessmentService.ListStudents()
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format", Reason: "validation"})
		return 0, false
	}
	return uint(val), true
}
