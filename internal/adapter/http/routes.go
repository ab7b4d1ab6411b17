package http

import (
	"taskkeeper/internal/adapter/http/handlers"
	"taskkeeper/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.DELETE("/tasks", taskHandler.ResetTasks)
		api.GET("/tasks/view", taskHandler.ListTaskView)
		api.GET("/tasks/stats", taskHandler.GetTaskStats)

		api.GET("/tasks/filter", taskHandler.GetFilter)
		api.PATCH("/tasks/filter", taskHandler.UpdateFilter)
		api.DELETE("/tasks/filter", taskHandler.ClearFilter)
		api.GET("/tasks/sort", taskHandler.GetSort)
		api.PATCH("/tasks/sort", taskHandler.UpdateSort)

		api.GET("/tasks/:id", taskHandler.GetTask)
		api.PATCH("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
	}
}
