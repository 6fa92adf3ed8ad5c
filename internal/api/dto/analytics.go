package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpdateAnalyticsRequest is the editable subset of the analytics row
type UpdateAnalyticsRequest struct {
	ProductivityScore     *float64 `json:"productivity_score,omitempty" binding:"omitempty,min=0,max=100"`
	ConsistencyScore      *float64 `json:"consistency_score,omitempty" binding:"omitempty,min=0,max=100"`
	MostProductiveDay     *string  `json:"most_productive_day,omitempty"`
	MostProductiveHour    *int     `json:"most_productive_hour,omitempty" binding:"omitempty,min=0,max=23"`
	PreferredWorkDuration *int     `json:"preferred_work_duration,omitempty" binding:"omitempty,min=1"`
}

// InsightFeedbackRequest is the allowed PATCH surface for an insight
type InsightFeedbackRequest struct {
	IsHelpful   *bool `json:"is_helpful,omitempty"`
	IsDismissed *bool `json:"is_dismissed,omitempty"`
}

// CreateFocusSessionRequest represents the request to log a focus session
type CreateFocusSessionRequest struct {
	TaskID          *uuid.UUID `json:"task_id,omitempty"`
	StartTime       time.Time  `json:"start_time" binding:"required"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	FocusScore      *int       `json:"focus_score,omitempty" binding:"omitempty,min=1,max=10"`
	Interruptions   int        `json:"interruptions"`
	MoodBefore      string     `json:"mood_before,omitempty"`
	MoodAfter       string     `json:"mood_after,omitempty"`
	TimeOfDay       string     `json:"time_of_day,omitempty"`
	Location        string     `json:"location,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// CreatePredictionRequest represents the request to record an estimate
type CreatePredictionRequest struct {
	TaskID               *uuid.UUID `json:"task_id,omitempty"`
	PredictedDuration    int        `json:"predicted_duration" binding:"required,min=1"`
	PredictedDifficulty  string     `json:"predicted_difficulty"`
	PredictedSuccessRate float64    `json:"predicted_success_rate" binding:"omitempty,min=0,max=100"`
	PredictionContext    string     `json:"prediction_context,omitempty"`
}

// RecordActualRequest fills in the real outcome for a prediction
type RecordActualRequest struct {
	ActualDuration   int    `json:"actual_duration" binding:"min=0"`
	ActualDifficulty string `json:"actual_difficulty,omitempty"`
	WasCompleted     bool   `json:"was_completed"`
}
