package app

import (
	"eduplay_backend/internal/config"
	"eduplay_backend/internal/middleware"
	"eduplay_backend/internal/model"
	"eduplay_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/auth/profile", c.auth.GetProfile)
		authGroup.PUT("/auth/profile", c.auth.UpdateProfile)

		students := authGroup.Group("/students")
		{
			students.GET("/dashboard", c.student.GetDashboard)
			students.GET("/subjects", c.student.GetSubjects)
			students.GET("/subjects/:subject", c.student.GetSubjectTopics)
			students.POST("/progress", c.student.SubmitProgress)
			students.GET("/achievements", c.student.GetAchievements)
			students.GET("/leaderboard", c.student.GetLeaderboard)
			students.GET("/points", c.student.GetPoints)
		}

		games := authGroup.Group("/games")
		{
			games.GET("", c.game.ListGames)
			games.GET("/:subject/:gameId", c.game.GetGame)
			games.GET("/:subject/:gameId/package", c.game.GetPackage)
			games.POST("/:subject/:gameId/package", middleware.RoleMiddleware(model.Teacher), c.game.PublishPackage)
			games.POST("/:subject/:gameId/score", c.game.SubmitScore)
		}

		teachers := authGroup.Group("/teachers")
		teachers.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teachers.GET("/dashboard", c.teacher.GetDashboard)
			teachers.GET("/classes", c.teacher.ListClasses)
			teachers.POST("/classes", c.teacher.CreateClass)
			teachers.GET("/classes/:id/students", c.teacher.GetClassStudents)
			teachers.GET("/analytics/classes/:id", c.teacher.GetClassAnalytics)
			teachers.GET("/analytics/students/:id", c.teacher.GetStudentAnalytics)
			teachers.GET("/analytics/subjects", c.teacher.GetSubjectAnalytics)
		}
	}
}
