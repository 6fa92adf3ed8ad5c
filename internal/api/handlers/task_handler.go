package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sushil23harsana/Task-management/internal/api/dto"
	"github.com/sushil23harsana/Task-management/internal/api/middleware"
	"github.com/sushil23harsana/Task-management/internal/domain/task"
)

// TaskHandler handles HTTP requests for task operations
type TaskHandler struct {
	service task.Service
}

func NewTaskHandler(service task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

func taskStatusCode(err error) int {
	switch {
	case errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, task.ErrSubTaskNotFound),
		errors.Is(err, task.ErrCategoryNotFound),
		errors.Is(err, task.ErrDayPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, task.ErrDueDateInPast),
		errors.Is(err, task.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	created, err := h.service.CreateTask(c.Request.Context(), userID, task.CreateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		Priority:          task.TaskPriority(req.Priority),
		Status:            task.TaskStatus(req.Status),
		DueDate:           req.DueDate,
		ReminderDate:      req.ReminderDate,
		EstimatedDuration: req.EstimatedDuration,
		Tags:              req.Tags,
		IsRecurring:       req.IsRecurring,
		RecurringPattern:  req.RecurringPattern,
	})
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.service.GetTask(c.Request.Context(), userID, id)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": found})
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filter := task.TaskFilter{}
	if status := c.Query("status"); status != "" {
		st := task.TaskStatus(status)
		if !st.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		filter.Status = &st
	}
	if priority := c.Query("priority"); priority != "" {
		p := task.TaskPriority(priority)
		if !p.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority filter"})
			return
		}
		filter.Priority = &p
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
			return
		}
		filter.CategoryID = &id
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "0")); err == nil && page >= 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && pageSize > 0 {
		filter.PageSize = pageSize
	}

	tasks, total, err := h.service.ListTasks(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.TaskListResponse{
		Tasks: tasks,
		Total: total,
		Page:  filter.Page,
	}})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	input := task.UpdateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		DueDate:           req.DueDate,
		ReminderDate:      req.ReminderDate,
		EstimatedDuration: req.EstimatedDuration,
		ActualDuration:    req.ActualDuration,
	}
	if req.Priority != nil {
		p := task.TaskPriority(*req.Priority)
		input.Priority = &p
	}
	if req.Status != nil {
		st := task.TaskStatus(*req.Status)
		input.Status = &st
	}

	updated, err := h.service.UpdateTask(c.Request.Context(), userID, id, input)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	completed, err := h.service.CompleteTask(c.Request.Context(), userID, id)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": completed})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), userID, id); err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func (h *TaskHandler) AddSubTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.CreateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	subtask, err := h.service.AddSubTask(c.Request.Context(), userID, taskID, req.Title)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": subtask})
}

func (h *TaskHandler) ListSubTasks(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	subtasks, err := h.service.ListSubTasks(c.Request.Context(), userID, taskID)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subtasks})
}

func (h *TaskHandler) ToggleSubTask(c *gin.Context) {
	subtaskID, err := uuid.Parse(c.Param("subtask_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtask ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	subtask, err := h.service.ToggleSubTask(c.Request.Context(), userID, subtaskID)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subtask})
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, taskID, req.Content)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), userID, taskID)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (h *TaskHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *TaskHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req.Name, req.Color, req.Icon)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (h *TaskHandler) SaveDayPlan(c *gin.Context) {
	var req dto.SaveDayPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	plan := &task.DayPlan{
		Date:              req.Date,
		Notes:             req.Notes,
		ProductivityScore: req.ProductivityScore,
	}
	if req.Mood != nil {
		mood := task.Mood(*req.Mood)
		plan.Mood = &mood
	}
	if len(req.TaskIDs) > 0 {
		ids, err := encodeTaskIDs(req.TaskIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task IDs"})
			return
		}
		plan.TaskIDs = ids
	}

	if err := h.service.SaveDayPlan(c.Request.Context(), userID, plan); err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plan})
}

func (h *TaskHandler) GetDayPlan(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	plan, err := h.service.GetDayPlan(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(taskStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plan})
}

func (h *TaskHandler) ListDayPlans(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := 30
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "30")); err == nil && parsed > 0 {
		limit = parsed
	}

	plans, err := h.service.ListDayPlans(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list day plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plans})
}
