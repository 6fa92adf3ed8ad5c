package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/sushil23harsana/Task-management/internal/domain/task"
)

// CreateTaskRequest represents the request to create a new task
type CreateTaskRequest struct {
	Title             string     `json:"title" binding:"required"`
	Description       string     `json:"description"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	ReminderDate      *time.Time `json:"reminder_date,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurringPattern  string     `json:"recurring_pattern,omitempty"`
}

// UpdateTaskRequest represents a partial task update
type UpdateTaskRequest struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
	Status            *string    `json:"status,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	ReminderDate      *time.Time `json:"reminder_date,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty"`
	ActualDuration    *int       `json:"actual_duration,omitempty"`
}

// CreateSubTaskRequest represents the request to add a subtask
type CreateSubTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateCommentRequest represents the request to comment on a task
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// SaveDayPlanRequest represents the request to save a day plan
type SaveDayPlanRequest struct {
	Date              time.Time   `json:"date" binding:"required"`
	TaskIDs           []uuid.UUID `json:"task_ids,omitempty"`
	Notes             string      `json:"notes,omitempty"`
	Mood              *string     `json:"mood,omitempty"`
	ProductivityScore *int        `json:"productivity_score,omitempty"`
}

// TaskListResponse wraps a paginated task listing
type TaskListResponse struct {
	Tasks []task.Task `json:"tasks"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
}
