package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sushil23harsana/Task-management/internal/api/dto"
	"github.com/sushil23harsana/Task-management/internal/api/middleware"
	"github.com/sushil23harsana/Task-management/internal/domain/analytics"
)

// AnalyticsHandler handles HTTP requests for analytics operations
type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func analyticsStatusCode(err error) int {
	switch {
	case errors.Is(err, analytics.ErrInsightNotFound),
		errors.Is(err, analytics.ErrPredictionNotFound):
		return http.StatusNotFound
	case errors.Is(err, analytics.ErrInvalidFeedback),
		errors.Is(err, analytics.ErrInvalidSession),
		errors.Is(err, analytics.ErrInvalidPrediction):
		return http.StatusBadRequest
	case errors.Is(err, analytics.ErrInsightGenerationFailed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *AnalyticsHandler) GetUserAnalytics(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.GetUserAnalytics(c.Request.Context(), userID)
	if err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": "failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":            result,
		"completion_rate": result.CompletionRate(),
	})
}

func (h *AnalyticsHandler) UpdateUserAnalytics(c *gin.Context) {
	var req dto.UpdateAnalyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.UpdateUserAnalytics(c.Request.Context(), userID, analytics.UpdateAnalyticsInput{
		ProductivityScore:     req.ProductivityScore,
		ConsistencyScore:      req.ConsistencyScore,
		MostProductiveDay:     req.MostProductiveDay,
		MostProductiveHour:    req.MostProductiveHour,
		PreferredWorkDuration: req.PreferredWorkDuration,
	})
	if err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": "failed to update analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *AnalyticsHandler) GenerateInsights(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.GenerateInsights(c.Request.Context(), userID)
	if err != nil {
		middleware.RecordAICall("generate_insights", "error")
		c.JSON(analyticsStatusCode(err), gin.H{"error": err.Error()})
		return
	}
	middleware.RecordAICall("generate_insights", "ok")

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *AnalyticsHandler) ListInsights(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := 20
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && parsed > 0 {
		limit = parsed
	}

	insights, err := h.service.ListInsights(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": insights})
}

func (h *AnalyticsHandler) GetInsight(c *gin.Context) {
	insightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid insight ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	insight, err := h.service.GetInsight(c.Request.Context(), userID, insightID)
	if err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": insight})
}

func (h *AnalyticsHandler) SubmitInsightFeedback(c *gin.Context) {
	insightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid insight ID"})
		return
	}

	var req dto.InsightFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	insight, err := h.service.SubmitInsightFeedback(c.Request.Context(), userID, insightID, analytics.InsightFeedbackInput{
		IsHelpful:   req.IsHelpful,
		IsDismissed: req.IsDismissed,
	})
	if err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": insight})
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	dashboard, err := h.service.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dashboard})
}

func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	overview, err := h.service.GetOverview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": "failed to build overview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": overview})
}

func (h *AnalyticsHandler) Suggestions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.Suggestions(c.Request.Context(), userID)
	if err != nil {
		middleware.RecordAICall("suggestions", "error")
		c.JSON(analyticsStatusCode(err), gin.H{"error": "failed to generate suggestions"})
		return
	}
	middleware.RecordAICall("suggestions", result.Source)

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *AnalyticsHandler) ListWeeklyReports(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := 12
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "12")); err == nil && parsed > 0 {
		limit = parsed
	}

	reports, err := h.service.ListWeeklyReports(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list weekly reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

func (h *AnalyticsHandler) CreateFocusSession(c *gin.Context) {
	var req dto.CreateFocusSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	session := &analytics.FocusSession{
		TaskID:          req.TaskID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		FocusScore:      req.FocusScore,
		Interruptions:   req.Interruptions,
		MoodBefore:      req.MoodBefore,
		MoodAfter:       req.MoodAfter,
		TimeOfDay:       req.TimeOfDay,
		Location:        req.Location,
		Notes:           req.Notes,
	}
	if err := h.service.CreateFocusSession(c.Request.Context(), userID, session); err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": session})
}

func (h *AnalyticsHandler) ListFocusSessions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := 50
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && parsed > 0 {
		limit = parsed
	}

	sessions, err := h.service.ListFocusSessions(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list focus sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

func (h *AnalyticsHandler) CreatePrediction(c *gin.Context) {
	var req dto.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	prediction := &analytics.TaskPrediction{
		TaskID:               req.TaskID,
		PredictedDuration:    req.PredictedDuration,
		PredictedDifficulty:  analytics.Difficulty(req.PredictedDifficulty),
		PredictedSuccessRate: req.PredictedSuccessRate,
		PredictionContext:    req.PredictionContext,
	}
	if err := h.service.CreatePrediction(c.Request.Context(), userID, prediction); err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": prediction})
}

func (h *AnalyticsHandler) ListPredictions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := 50
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && parsed > 0 {
		limit = parsed
	}

	predictions, err := h.service.ListPredictions(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list predictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": predictions})
}

func (h *AnalyticsHandler) RecordPredictionActual(c *gin.Context) {
	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction ID"})
		return
	}

	var req dto.RecordActualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	prediction, err := h.service.RecordPredictionActual(
		c.Request.Context(), userID, predictionID,
		req.ActualDuration, analytics.Difficulty(req.ActualDifficulty), req.WasCompleted)
	if err != nil {
		c.JSON(analyticsStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prediction})
}
