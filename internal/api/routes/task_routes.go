package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sushil23harsana/Task-management/internal/api/handlers"
	"github.com/sushil23harsana/Task-management/internal/api/middleware"
)

type TaskRoutes struct {
	handler   *handlers.TaskHandler
	jwtSecret string
}

func NewTaskRoutes(handler *handlers.TaskHandler, jwtSecret string) *TaskRoutes {
	return &TaskRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all task-related routes
func (r *TaskRoutes) RegisterRoutes(router *gin.Engine) {
	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	tasks.GET("", r.handler.ListTasks)
	tasks.POST("", r.handler.CreateTask)
	tasks.GET("/:id", r.handler.GetTask)
	tasks.PUT("/:id", r.handler.UpdateTask)
	tasks.DELETE("/:id", r.handler.DeleteTask)
	tasks.POST("/:id/complete", r.handler.CompleteTask)

	tasks.GET("/:id/subtasks", r.handler.ListSubTasks)
	tasks.POST("/:id/subtasks", r.handler.AddSubTask)
	tasks.PATCH("/subtasks/:subtask_id/toggle", r.handler.ToggleSubTask)

	tasks.GET("/:id/comments", r.handler.ListComments)
	tasks.POST("/:id/comments", r.handler.AddComment)

	categories := router.Group("/api/categories")
	categories.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	categories.GET("", r.handler.ListCategories)
	categories.POST("", r.handler.CreateCategory)

	dayPlans := router.Group("/api/day-plans")
	dayPlans.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	dayPlans.GET("", r.handler.ListDayPlans)
	dayPlans.POST("", r.handler.SaveDayPlan)
	dayPlans.GET("/:date", r.handler.GetDayPlan)
}
