package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/middleware"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	questionHandler       *QuestionHandler
	courseSettingsHandler *CourseSettingsHandler
	userHandler           *UserHandler

	authenticator middleware.Authenticator
	features      config.FeatureConfig
	logger        utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authenticator middleware.Authenticator,
	features config.FeatureConfig,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler:       NewQuestionHandler(serviceManager.Question(), serviceManager.Import(), logger),
		courseSettingsHandler: NewCourseSettingsHandler(serviceManager.CourseSettings(), logger),
		userHandler:           NewUserHandler(serviceManager.User(), logger),
		authenticator:         authenticator,
		features:              features,
		logger:                logger,
	}
}

// NewRouter builds the engine with the global middleware chain and all routes
func (hm *HandlerManager) NewRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.ContextLogger(hm.logger))
	router.Use(utils.LoggerMiddleware(hm.logger))

	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	authenticated := router.Group("")
	authenticated.Use(middleware.Authenticate(hm.authenticator))

	// Question routes
	questions := authenticated.Group("/questions")
	questions.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor))
	{
		questions.POST("", hm.questionHandler.CreateQuestion)
		questions.POST("/import", hm.questionHandler.ImportQuestions)
	}

	// Course settings routes
	settings := authenticated.Group("/settings/courses")
	{
		settings.POST("", hm.courseSettingsHandler.CreateCourseSettings)
		settings.GET("/:courseId/:versionId", hm.courseSettingsHandler.GetCourseSettings)
		settings.PUT("/:courseId/:versionId/proctoring", hm.courseSettingsHandler.UpdateCourseProctoring)
		if hm.features.ProctoringRemoval {
			settings.DELETE("/:courseId/:versionId/proctoring", hm.courseSettingsHandler.RemoveCourseProctoring)
		}
	}

	// User routes
	users := authenticated.Group("/users/firebase")
	{
		users.GET("/:userId", hm.userHandler.GetUserByFirebaseUID)
		users.PUT("/:userId", hm.userHandler.UpdateUserName)
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "course-service",
	})
}

// corsConfig allows every origin when the list is empty or contains "*"
func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", utils.RequestIDHeader}
	cfg.ExposeHeaders = []string{utils.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
