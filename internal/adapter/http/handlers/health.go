package handlers

import (
	"context"
	"os"
	"time"

	"taskkeeper/internal/adapter/http/middleware"
	"taskkeeper/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const (
	StatusOk           = "ok"
	StatusDown         = "down"
	StatusLoading      = "loading"
	healthStoreTimeout = 2 * time.Second
)

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Store string `json:"store"`
	Tasks string `json:"tasks"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	StoreDriver       string         `json:"store_driver"`
	Status            HealthServices `json:"status"`
	Warnings          []string       `json:"warnings,omitempty"`
}

type HealthHandler struct {
	store       ports.TaskStore
	taskService ports.TaskService
	storeDriver string
}

func NewHealthHandler(store ports.TaskStore, taskService ports.TaskService, storeDriver string) *HealthHandler {
	return &HealthHandler{store: store, taskService: taskService, storeDriver: storeDriver}
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx := c.Request.Context()
	statusCode := 200
	message := StatusOk

	if !h.checkConnectionToStore(ctx) {
		statusCode = 500
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
	})
}

// CheckHealthReport always answers 200 and reports the failed write, if any,
// that left memory and storage out of sync.
func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	ctx := c.Request.Context()

	storeStatus := StatusDown
	if h.checkConnectionToStore(ctx) {
		storeStatus = StatusOk
	}

	tasksStatus := StatusOk
	var warnings []string
	if h.taskService != nil {
		if h.taskService.Loading() {
			tasksStatus = StatusLoading
		}
		if err := h.taskService.LastPersistenceError(); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	c.JSON(200, HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		StoreDriver:       h.storeDriver,
		Status: HealthServices{
			Store: storeStatus,
			Tasks: tasksStatus,
		},
		Warnings: warnings,
	})
}

func (h *HealthHandler) checkConnectionToStore(ctx context.Context) bool {
	if h.store == nil {
		return false
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, healthStoreTimeout)
	defer cancel()
	return h.store.Ping(timeoutCtx) == nil
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}
