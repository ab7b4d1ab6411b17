package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskkeeper/internal/adapter/http/dto"
	"taskkeeper/internal/adapter/http/mapper"
	"taskkeeper/internal/adapter/http/middleware"
	"taskkeeper/internal/adapter/http/validation"
	"taskkeeper/internal/core/domain"
	"taskkeeper/internal/core/ports"
	"taskkeeper/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns the canonical collection in insertion order.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.ToTaskItems(h.taskService.Tasks()))
}

// ListTaskView returns the filtered and sorted projection with the view state that produced it.
func (h *TaskHandler) ListTaskView(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.ToTaskViewResponse(
		h.taskService.FilteredTasks(),
		h.taskService.Filter(),
		h.taskService.Sort(),
	))
}

func (h *TaskHandler) GetTaskStats(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.ToTaskStatsItem(h.taskService.Stats()))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := h.taskService.GetByID(c.Param("id"))
	if !ok {
		lang := middleware.GetLang(c)
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), validation.BuildFormInput(req))
	if err != nil {
		h.writeServiceError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.UpdateTaskRequest
	patch, err := decodePatch(c, &req, func(raw rawFields) (domain.TaskPatch, error) {
		return validation.BuildTaskPatch(req, raw)
	})
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.writeServiceError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err, apierrors.MsgFailDeleteTask)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResetTasks empties the collection and removes the stored blob.
func (h *TaskHandler) ResetTasks(c *gin.Context) {
	if err := h.taskService.Reset(c.Request.Context()); err != nil {
		h.writeServiceError(c, err, apierrors.MsgFailResetTasks)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) GetFilter(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.ToTaskFilterItem(h.taskService.Filter()))
}

func (h *TaskHandler) UpdateFilter(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.UpdateTaskFilterRequest
	patch, err := decodePatch(c, &req, func(raw rawFields) (domain.TaskFilterPatch, error) {
		return validation.BuildFilterPatch(req, raw)
	})
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidFilter, lang),
		)
		return
	}

	h.taskService.SetFilter(patch)
	c.JSON(http.StatusOK, mapper.ToTaskFilterItem(h.taskService.Filter()))
}

// ClearFilter drops every filter constraint. The sort selection is kept.
func (h *TaskHandler) ClearFilter(c *gin.Context) {
	h.taskService.ClearFilters()
	c.JSON(http.StatusOK, mapper.ToTaskFilterItem(h.taskService.Filter()))
}

func (h *TaskHandler) GetSort(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.ToTaskSortItem(h.taskService.Sort()))
}

func (h *TaskHandler) UpdateSort(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.UpdateTaskSortRequest
	patch, err := decodePatch(c, &req, func(raw rawFields) (domain.TaskSortPatch, error) {
		return validation.BuildSortPatch(req, raw)
	})
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidSort, lang),
		)
		return
	}

	h.taskService.SetSort(patch)
	c.JSON(http.StatusOK, mapper.ToTaskSortItem(h.taskService.Sort()))
}

func (h *TaskHandler) writeServiceError(c *gin.Context, err error, fallbackMsg string) {
	lang := middleware.GetLang(c)

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, mapper.ToFieldMessages(validationErr), lang),
		)
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
	case errors.Is(err, domain.ErrLoading):
		c.Header("Retry-After", "1")
		c.JSON(
			http.StatusServiceUnavailable,
			apierrors.CreateError(http.StatusServiceUnavailable, apierrors.MsgTasksLoading, lang),
		)
	case errors.Is(err, domain.ErrClosed):
		c.JSON(
			http.StatusServiceUnavailable,
			apierrors.CreateError(http.StatusServiceUnavailable, apierrors.MsgServiceClosed, lang),
		)
	default:
		zap.L().Error("task operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, fallbackMsg, lang),
		)
	}
}

type rawFields = map[string]json.RawMessage

// decodePatch reads a JSON object into req and hands its key set to build.
func decodePatch[P any](c *gin.Context, req any, build func(rawFields) (P, error)) (P, error) {
	var zero P

	body, err := c.GetRawData()
	if err != nil {
		return zero, err
	}
	raw, err := validation.DecodeJSONObject(body, req)
	if err != nil {
		return zero, err
	}
	return build(raw)
}
