package api

import (
	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles the application services exposed over HTTP.
type Services struct {
	Auth             service.AuthService
	Coach            service.CoachService
	Plan             service.PlanService
	Adjustment       service.AdjustmentService
	SessionTemplates service.SessionTemplateService
	Export           service.ExportService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	coachHandler := NewCoachHandler(services.Coach)
	planHandler := NewPlanHandler(services.Plan, services.Adjustment)
	templateHandler := NewSessionTemplateHandler(services.SessionTemplates)
	exportHandler := NewExportHandler(services.Export)

	authMiddleware := AuthMiddleware(jwtSecret)
	coachOnly := RoleMiddleware(domain.RoleCoach)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			tenantID, _ := c.Get(ContextTenantIDKey)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role, "tenantId": tenantID})
		})

		// --- Coach roster ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(coachOnly)
		{
			coachGroup.POST("/players", coachHandler.AddPlayerByEmail)
			coachGroup.GET("/players", coachHandler.GetManagedPlayers)
		}

		// --- Player inputs and plans ---
		// Players reach their own records; coaches reach their players'.
		playerGroup := protected.Group("/players/:playerId")
		{
			playerGroup.PUT("/baseline", coachHandler.UpdateBaseline)
			playerGroup.POST("/breaking-points", coachOnly, coachHandler.AddBreakingPoint)
			playerGroup.POST("/plans", coachOnly, planHandler.GeneratePlan)
			playerGroup.GET("/plans", planHandler.ListPlans)
			playerGroup.GET("/plans/active", planHandler.GetActivePlan)
		}

		planGroup := protected.Group("/plans/:planId")
		{
			planGroup.GET("", planHandler.GetPlan)
			planGroup.GET("/calendar", planHandler.GetCalendar)
			planGroup.GET("/days/:date", planHandler.GetDay)
			planGroup.POST("/swap", planHandler.SwapSessions)
			planGroup.POST("/exports", exportHandler.ExportPlan)
			planGroup.GET("/exports", exportHandler.ListExports)
		}

		protected.PATCH("/assignments/:assignmentId/status", planHandler.UpdateAssignmentStatus)
		protected.GET("/exports/:exportId/download-url", exportHandler.GetDownloadURL)

		// --- Session library ---
		templateGroup := protected.Group("/session-templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:templateId", templateHandler.GetTemplate)
			templateGroup.POST("", coachOnly, templateHandler.CreateTemplate)
			templateGroup.PUT("/:templateId", coachOnly, templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:templateId", coachOnly, templateHandler.DeleteTemplate)
		}
	}
}
