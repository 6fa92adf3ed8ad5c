package task

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func encodeJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

var (
	ErrEmptyTitle = errors.New("title is required")
	ErrForbidden  = errors.New("task does not belong to user")
)

// CreateTaskInput carries the fields accepted when creating a task
type CreateTaskInput struct {
	Title             string
	Description       string
	CategoryID        *uuid.UUID
	Priority          TaskPriority
	Status            TaskStatus
	DueDate           *time.Time
	ReminderDate      *time.Time
	EstimatedDuration *int
	Tags              []string
	IsRecurring       bool
	RecurringPattern  string
}

// UpdateTaskInput carries optional fields for a partial update.
// Nil pointers leave the stored value untouched.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	CategoryID        *uuid.UUID
	Priority          *TaskPriority
	Status            *TaskStatus
	DueDate           *time.Time
	ReminderDate      *time.Time
	EstimatedDuration *int
	ActualDuration    *int
}

// Cache is the slice of the cache client the service uses
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	categoriesCacheKey = "categories"
	categoriesCacheTTL = 5 * time.Minute
)

// Service defines the task domain operations
type Service interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]Task, int64, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*Task, error)
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	AddSubTask(ctx context.Context, userID, taskID uuid.UUID, title string) (*SubTask, error)
	ToggleSubTask(ctx context.Context, userID, subtaskID uuid.UUID) (*SubTask, error)
	ListSubTasks(ctx context.Context, userID, taskID uuid.UUID) ([]SubTask, error)

	AddComment(ctx context.Context, userID, taskID uuid.UUID, content string) (*TaskComment, error)
	ListComments(ctx context.Context, userID, taskID uuid.UUID) ([]TaskComment, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name, color, icon string) (*Category, error)

	SaveDayPlan(ctx context.Context, userID uuid.UUID, plan *DayPlan) error
	GetDayPlan(ctx context.Context, userID uuid.UUID, date time.Time) (*DayPlan, error)
	ListDayPlans(ctx context.Context, userID uuid.UUID, limit int) ([]DayPlan, error)
}

type service struct {
	repo   Repository
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, cache Cache, logger *zap.Logger) Service {
	return &service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

func (s *service) CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if input.Status != "" && !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if input.DueDate != nil && input.DueDate.Before(s.now().Truncate(24*time.Hour)) {
		return nil, ErrDueDateInPast
	}

	task := &Task{
		UserID:            userID,
		CategoryID:        input.CategoryID,
		Title:             title,
		Description:       input.Description,
		Priority:          input.Priority,
		Status:            input.Status,
		DueDate:           input.DueDate,
		ReminderDate:      input.ReminderDate,
		EstimatedDuration: input.EstimatedDuration,
		IsRecurring:       input.IsRecurring,
		RecurringPattern:  input.RecurringPattern,
	}
	if len(input.Tags) > 0 {
		tags, err := encodeJSON(input.Tags)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create task", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("user_id", userID.String()))
	return task, nil
}

func (s *service) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *service) ListTasks(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]Task, int64, error) {
	filter.UserID = &userID
	filter.OrderByNewest = true
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.CategoryID != nil {
		task.CategoryID = input.CategoryID
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		// Moving into completed stamps the completion time once
		if *input.Status == TaskStatusCompleted && task.Status != TaskStatusCompleted {
			task.MarkCompleted(s.now())
		} else {
			task.Status = *input.Status
			if *input.Status != TaskStatusCompleted {
				task.CompletedAt = nil
			}
		}
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ReminderDate != nil {
		task.ReminderDate = input.ReminderDate
	}
	if input.EstimatedDuration != nil {
		task.EstimatedDuration = input.EstimatedDuration
	}
	if input.ActualDuration != nil {
		task.ActualDuration = input.ActualDuration
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return task, nil
	}

	task.MarkCompleted(s.now())
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Task completed", zap.String("task_id", task.ID.String()))
	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, taskID)
}

func (s *service) AddSubTask(ctx context.Context, userID, taskID uuid.UUID, title string) (*SubTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	subtask := &SubTask{ParentTaskID: taskID, Title: title}
	if err := s.repo.CreateSubTask(ctx, subtask); err != nil {
		return nil, err
	}
	return subtask, nil
}

func (s *service) ToggleSubTask(ctx context.Context, userID, subtaskID uuid.UUID) (*SubTask, error) {
	subtask, err := s.repo.FindSubTaskByID(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetTask(ctx, userID, subtask.ParentTaskID); err != nil {
		return nil, err
	}

	subtask.IsCompleted = !subtask.IsCompleted
	if subtask.IsCompleted {
		now := s.now()
		subtask.CompletedAt = &now
	} else {
		subtask.CompletedAt = nil
	}

	if err := s.repo.UpdateSubTask(ctx, subtask); err != nil {
		return nil, err
	}
	return subtask, nil
}

func (s *service) ListSubTasks(ctx context.Context, userID, taskID uuid.UUID) ([]SubTask, error) {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.repo.FindSubTasks(ctx, taskID)
}

func (s *service) AddComment(ctx context.Context, userID, taskID uuid.UUID, content string) (*TaskComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	comment := &TaskComment{TaskID: taskID, UserID: userID, Content: content}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) ListComments(ctx context.Context, userID, taskID uuid.UUID) ([]TaskComment, error) {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.repo.FindComments(ctx, taskID)
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, categoriesCacheKey); err == nil {
			var categories []Category
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	categories, err := s.repo.FindCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(categories); err == nil {
			if err := s.cache.Set(ctx, categoriesCacheKey, string(encoded), categoriesCacheTTL); err != nil {
				s.logger.Warn("Failed to cache categories", zap.Error(err))
			}
		}
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, name, color, icon string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	category := &Category{Name: name, Color: color, Icon: icon}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate category cache", zap.Error(err))
		}
	}
	return category, nil
}

func (s *service) SaveDayPlan(ctx context.Context, userID uuid.UUID, plan *DayPlan) error {
	plan.UserID = userID
	plan.Date = plan.Date.Truncate(24 * time.Hour)
	if plan.ProductivityScore != nil && (*plan.ProductivityScore < 1 || *plan.ProductivityScore > 10) {
		return ErrInvalidInput
	}
	return s.repo.UpsertDayPlan(ctx, plan)
}

func (s *service) GetDayPlan(ctx context.Context, userID uuid.UUID, date time.Time) (*DayPlan, error) {
	return s.repo.FindDayPlan(ctx, userID, date.Truncate(24*time.Hour))
}

func (s *service) ListDayPlans(ctx context.Context, userID uuid.UUID, limit int) ([]DayPlan, error) {
	return s.repo.FindDayPlans(ctx, userID, limit)
}
