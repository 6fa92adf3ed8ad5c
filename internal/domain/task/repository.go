package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sushil23harsana/Task-management/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrSubTaskNotFound  = errors.New("subtask not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDayPlanNotFound  = errors.New("day plan not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// TaskFilter defines filtering options for tasks. UserID is mandatory
// at the service layer: every query is scoped to the owning user.
type TaskFilter struct {
	UserID        *uuid.UUID
	CategoryID    *uuid.UUID
	Status        *TaskStatus
	Priority      *TaskPriority
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	DueDateStart  *time.Time
	DueDateEnd    *time.Time
	OrderByNewest bool
	Limit         int
	Page          int
	PageSize      int
}

// Repository defines the interface for task persistence operations
type Repository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Subtasks
	CreateSubTask(ctx context.Context, subtask *SubTask) error
	FindSubTasks(ctx context.Context, parentTaskID uuid.UUID) ([]SubTask, error)
	FindSubTaskByID(ctx context.Context, id uuid.UUID) (*SubTask, error)
	UpdateSubTask(ctx context.Context, subtask *SubTask) error
	DeleteSubTask(ctx context.Context, id uuid.UUID) error

	// Comments
	CreateComment(ctx context.Context, comment *TaskComment) error
	FindComments(ctx context.Context, taskID uuid.UUID) ([]TaskComment, error)

	// Categories
	CreateCategory(ctx context.Context, category *Category) error
	FindCategories(ctx context.Context) ([]Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// Day plans
	UpsertDayPlan(ctx context.Context, plan *DayPlan) error
	FindDayPlan(ctx context.Context, userID uuid.UUID, date time.Time) (*DayPlan, error)
	FindDayPlans(ctx context.Context, userID uuid.UUID, limit int) ([]DayPlan, error)
}

type taskRepository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var task Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	var tasks []Task
	var total int64

	query := r.db.WithContext(ctx).Model(&Task{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.DueDateStart != nil {
		query = query.Where("due_date >= ?", *filter.DueDateStart)
	}
	if filter.DueDateEnd != nil {
		query = query.Where("due_date < ?", *filter.DueDateEnd)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderByNewest {
		query = query.Order("created_at DESC")
	}
	if filter.PageSize > 0 {
		query = query.Offset(filter.Page * filter.PageSize).Limit(filter.PageSize)
	} else if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *taskRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Update(ctx context.Context, task *Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CreateSubTask(ctx context.Context, subtask *SubTask) error {
	return r.db.WithContext(ctx).Create(subtask).Error
}

func (r *taskRepository) FindSubTasks(ctx context.Context, parentTaskID uuid.UUID) ([]SubTask, error) {
	var subtasks []SubTask
	err := r.db.WithContext(ctx).
		Where("parent_task_id = ?", parentTaskID).
		Order("created_at ASC").
		Find(&subtasks).Error
	return subtasks, err
}

func (r *taskRepository) FindSubTaskByID(ctx context.Context, id uuid.UUID) (*SubTask, error) {
	var subtask SubTask
	result := r.db.WithContext(ctx).First(&subtask, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSubTaskNotFound
		}
		return nil, result.Error
	}
	return &subtask, nil
}

func (r *taskRepository) UpdateSubTask(ctx context.Context, subtask *SubTask) error {
	result := r.db.WithContext(ctx).Save(subtask)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubTaskNotFound
	}
	return nil
}

func (r *taskRepository) DeleteSubTask(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&SubTask{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubTaskNotFound
	}
	return nil
}

func (r *taskRepository) CreateComment(ctx context.Context, comment *TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *taskRepository) FindComments(ctx context.Context, taskID uuid.UUID) ([]TaskComment, error) {
	var comments []TaskComment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *taskRepository) CreateCategory(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *taskRepository) FindCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *taskRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var category Category
	result := r.db.WithContext(ctx).First(&category, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

func (r *taskRepository) UpsertDayPlan(ctx context.Context, plan *DayPlan) error {
	var existing DayPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", plan.UserID, plan.Date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(plan).Error
	}
	if err != nil {
		return err
	}

	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *taskRepository) FindDayPlan(ctx context.Context, userID uuid.UUID, date time.Time) (*DayPlan, error) {
	var plan DayPlan
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&plan)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDayPlanNotFound
		}
		return nil, result.Error
	}
	return &plan, nil
}

func (r *taskRepository) FindDayPlans(ctx context.Context, userID uuid.UUID, limit int) ([]DayPlan, error) {
	var plans []DayPlan
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&plans).Error
	return plans, err
}
