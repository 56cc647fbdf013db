package app

import (
	"care_program_backend/docs"
	"care_program_backend/internal/config"
	"care_program_backend/internal/middleware"
	"care_program_backend/internal/model"
	"care_program_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.GET("/profile", middleware.AuthMiddleware(cfg), c.auth.Profile)
	}

	// participant routes
	prog := api.Group("/program")
	prog.Use(
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.Caregiver, model.Patient),
		middleware.ActivityMiddleware(s.user),
	)
	{
		prog.GET("", c.program.GetProgram)
		prog.GET("/days/:day", c.program.GetDay)
		prog.PUT("/days/:day/contents/:contentId/progress", c.program.RecordProgress)
		prog.POST("/days/:day/contents/:contentId/complete", c.program.CompleteContent)
		prog.GET("/questionnaire", c.program.GetQuestionnaire)
		prog.POST("/assessment", c.program.SubmitAssessment)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.admin.ListParticipants)
		admin.POST("/pairs", c.admin.CreatePair)
		admin.GET("/programs", c.admin.ListPrograms)
		admin.GET("/programs/:id", c.admin.GetProgram)

		admin.GET("/participants/:userId/program", c.admin.GetParticipantProgram)
		admin.POST("/participants/:userId/retake", c.admin.ScheduleRetake)
		admin.DELETE("/participants/:userId/retake", c.admin.CancelRetake)
		admin.POST("/participants/:userId/questionnaire/enable", c.admin.EnableQuestionnaire)
		admin.PUT("/participants/:userId/days/:day/lock", c.admin.SetDayLock)
		admin.POST("/participants/:userId/days/:day/reset", c.admin.ResetDay)
		admin.GET("/participants/:userId/wait-times", c.admin.GetWaitTimeOverride)
		admin.PUT("/participants/:userId/wait-times", c.admin.SetWaitTimeOverride)
		admin.DELETE("/participants/:userId/wait-times", c.admin.DeleteWaitTimeOverride)

		admin.GET("/wait-times", c.admin.GetGlobalWaitTimes)
		admin.PUT("/wait-times", c.admin.UpdateGlobalWaitTimes)

		admin.GET("/assessments", c.assessment.List)
		admin.POST("/assessments", c.assessment.CreateDraft)
		admin.GET("/assessments/:id", c.assessment.Get)
		admin.POST("/assessments/:id/sections", c.assessment.AddSection)
		admin.POST("/assessments/:id/questions", c.assessment.AddQuestion)
		admin.DELETE("/assessments/:id/questions/:questionId", c.assessment.DeleteQuestion)
		admin.POST("/assessments/:id/ranges", c.assessment.AddRange)
		admin.DELETE("/assessments/:id/ranges/:rangeId", c.assessment.DeleteRange)
		admin.POST("/assessments/:id/activate", c.assessment.Activate)

		admin.GET("/contents", c.content.List)
		admin.POST("/contents", c.content.Create)
		admin.PUT("/contents/:id", c.content.Update)
		admin.DELETE("/contents/:id", c.content.Delete)
	}
}
