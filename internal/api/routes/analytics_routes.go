package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sushil23harsana/Task-management/internal/api/handlers"
	"github.com/sushil23harsana/Task-management/internal/api/middleware"
)

type AnalyticsRoutes struct {
	handler   *handlers.AnalyticsHandler
	jwtSecret string
}

func NewAnalyticsRoutes(handler *handlers.AnalyticsHandler, jwtSecret string) *AnalyticsRoutes {
	return &AnalyticsRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all analytics routes
func (r *AnalyticsRoutes) RegisterRoutes(router *gin.Engine) {
	analytics := router.Group("/api/analytics")
	analytics.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	analytics.GET("/user-analytics", r.handler.GetUserAnalytics)
	analytics.PUT("/user-analytics", r.handler.UpdateUserAnalytics)

	analytics.GET("/weekly-reports", r.handler.ListWeeklyReports)

	analytics.GET("/insights", r.handler.ListInsights)
	analytics.GET("/insights/:id", r.handler.GetInsight)
	analytics.PATCH("/insights/:id", r.handler.SubmitInsightFeedback)
	analytics.POST("/generate-insights", r.handler.GenerateInsights)

	analytics.GET("/focus-sessions", r.handler.ListFocusSessions)
	analytics.POST("/focus-sessions", r.handler.CreateFocusSession)

	analytics.GET("/predictions", r.handler.ListPredictions)
	analytics.POST("/predictions", r.handler.CreatePrediction)
	analytics.PATCH("/predictions/:id/actual", r.handler.RecordPredictionActual)

	analytics.GET("/dashboard", r.handler.GetDashboard)
	analytics.GET("/overview", r.handler.GetOverview)
	analytics.POST("/suggestions", r.handler.Suggestions)
}
