package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harshgurla/codeassess/internal/auth"
	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a student account
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterDTO true "Student registration"
// @Success 201 {object} dto.AuthResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Reason: "validation", Details: []string{err.Error()}})
		return
	}
	resp, err := c.authService.Register(req)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in as teacher or student
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Credentials"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Reason: "validation", Details: []string{err.Error()}})
		return
	}
	resp, err := c.authService.Login(req)
	if err != nil {
		WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Verify the bearer token and return the account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccountDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated", Reason: "unauthorized"})
		return
	}
	account, err := c.authService.AccountFor(claims)
	if err != nil {
		WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, account)
}
