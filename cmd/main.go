package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harshgurla/codeassess/config"
	"github.com/harshgurla/codeassess/database"
	"github.com/harshgurla/codeassess/internal/auth"
	"github.com/harshgurla/codeassess/internal/controller"
	studentctrl "github.com/harshgurla/codeassess/internal/controller/student"
	teacherctrl "github.com/harshgurla/codeassess/internal/controller/teacher"
	"github.com/harshgurla/codeassess/internal/logger"
	"github.com/harshgurla/codeassess/internal/model"
	"github.com/harshgurla/codeassess/internal/repository"
	"github.com/harshgurla/codeassess/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Assessment Platform API
// @version 1.0
// @description REST API for authoring, assigning and taking timed AI-scored assessments.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			auth.NewTokenManager,
		),

		fx.Provide(
			repository.NewAccountRepository,
			repository.NewAssessmentRepository,
			repository.NewSessionRepository,
			repository.NewSubmissionRepository,
		),

		fx.Provide(
			service.NewGeminiEvaluator,
			service.NewAuthService,
			service.NewAssessmentService,
			service.NewStudentAssessmentService,
			service.NewSessionService,
		),

		fx.Provide(
			controller.NewAuthController,
			teacherctrl.NewTeacherController,
			studentctrl.NewStudentController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Route gin's request log through zerolog with a per-request id.
	r.Use(func(ctx *gin.Context) {
		ctx.Set("request_id", uuid.NewString())
		ctx.Next()
	})
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID := ""
		if keys := param.Keys; keys != nil {
			if id, ok := keys["request_id"].(string); ok {
				requestID = id
			}
		}
		log.Info().
			Str("request_id", requestID).
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("http_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens *auth.TokenManager,
	authCtrl *controller.AuthController,
	teacherCtrl *teacherctrl.TeacherController,
	studentCtrl *studentctrl.StudentController,
) {
	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.GET("/me", auth.Middleware(tokens), authCtrl.Me)
	}

	teacherGroup := api.Group("/teacher", auth.Middleware(tokens), auth.RequireRole(model.RoleTeacher))
	{
		teacherGroup.POST("/assessments", teacherCtrl.CreateAssessment)
		teacherGroup.GET("/assessments", teacherCtrl.ListAssessments)
		teacherGroup.GET("/assessments/:assessment_id", teacherCtrl.GetAssessment)
		teacherGroup.DELETE("/assessments/:assessment_id", teacherCtrl.DeleteAssessment)
		teacherGroup.POST("/assessments/:assessment_id/students", teacherCtrl.AssignStudents)
		teacherGroup.GET("/assessments/:assessment_id/submissions", teacherCtrl.GetResults)
		teacherGroup.POST("/questions/generate", teacherCtrl.GenerateQuestions)
		teacherGroup.GET("/students", teacherCtrl.ListStudents)
	}

	studentGroup := api.Group("/student", auth.Middleware(tokens), auth.RequireRole(model.RoleStudent))
	{
		studentGroup.GET("/assessments", studentCtrl.ListAssessments)
		studentGroup.GET("/assessments/:assessment_id", studentCtrl.GetAssessment)
		studentGroup.POST("/assessments/:assessment_id/start", studentCtrl.StartAssessment)
		studentGroup.POST("/assessments/:assessment_id/questions/:question_id/submit", studentCtrl.SubmitAnswer)
		studentGroup.POST("/assessments/:assessment_id/complete", studentCtrl.CompleteAssessment)
		studentGroup.POST("/run", studentCtrl.RunCode)
		studentGroup.GET("/stats", studentCtrl.GetStats)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Assessment platform API starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Account{},
		&model.Assessment{},
		&model.Question{},
		&model.Session{},
		&model.Submission{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully")
	return nil
}
