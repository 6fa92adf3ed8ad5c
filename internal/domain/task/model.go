package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodOkay      Mood = "okay"
	MoodPoor      Mood = "poor"
)

// Common errors
var (
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrDueDateInPast   = errors.New("due date cannot be in the past")
)

// Category groups tasks; categories are shared across users
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_category_name;not null"`
	Color     string    `json:"color" gorm:"not null;default:'#3B82F6'"`
	Icon      string    `json:"icon" gorm:"default:'📝'"`
	CreatedAt time.Time `json:"created_at"`
}

// Task represents a task owned by a single user
type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index:idx_task_user_status"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty" gorm:"type:uuid"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority" gorm:"not null;default:'medium';index:idx_task_priority"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'todo';index:idx_task_user_status"`

	DueDate      *time.Time `json:"due_date,omitempty" gorm:"index:idx_task_due"`
	ReminderDate *time.Time `json:"reminder_date,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// Durations are stored in minutes
	EstimatedDuration *int `json:"estimated_duration,omitempty"`
	ActualDuration    *int `json:"actual_duration,omitempty"`

	Tags             datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"`
	IsRecurring      bool           `json:"is_recurring" gorm:"default:false"`
	RecurringPattern string         `json:"recurring_pattern,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_task_created"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// SubTask is a checklist item under a parent task
type SubTask struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	ParentTaskID uuid.UUID  `json:"parent_task_id" gorm:"type:uuid;not null;index:idx_subtask_parent"`
	Title        string     `json:"title" gorm:"not null"`
	IsCompleted  bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TaskComment is a user comment on a task
type TaskComment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TaskID    uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index:idx_comment_task"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// DayPlan is a per-day planning record, unique per user and date
type DayPlan struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	UserID            uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_dayplan_user_date"`
	Date              time.Time      `json:"date" gorm:"type:date;not null;uniqueIndex:idx_dayplan_user_date"`
	TaskIDs           datatypes.JSON `json:"task_ids,omitempty" gorm:"type:jsonb"`
	Notes             string         `json:"notes,omitempty" gorm:"type:text"`
	Mood              *Mood          `json:"mood,omitempty"`
	ProductivityScore *int           `json:"productivity_score,omitempty"` // 1-10
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (t TaskStatus) IsValid() bool {
	switch t {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

func (t TaskPriority) IsValid() bool {
	switch t {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// IsCompleted reports whether the task status is completed
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsOverdue reports whether the task has passed its due date without completion
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && !t.IsCompleted() && now.After(*t.DueDate)
}

// MarkCompleted sets the completed status and stamps the completion time
func (t *Task) MarkCompleted(now time.Time) {
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

func (SubTask) TableName() string {
	return "subtasks"
}

func (TaskComment) TableName() string {
	return "task_comments"
}

func (Category) TableName() string {
	return "categories"
}

func (DayPlan) TableName() string {
	return "day_plans"
}

// BeforeCreate is called before creating a new task record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a task record
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

func (s *SubTask) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	return nil
}

func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	return nil
}

func (d *DayPlan) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	return nil
}
