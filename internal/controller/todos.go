package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"todo-app/internal/middleware"
	"todo-app/internal/models"
	"todo-app/internal/service"
	apperrors "todo-app/pkg/errors"
	"todo-app/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TodoHandler serves the /todos routes.
type TodoHandler struct {
	svc *service.Service
}

// NewTodoHandler returns handlers backed by svc.
func NewTodoHandler(svc *service.Service) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// bindJSON decodes the request body into dst. An empty body decodes as {}.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Invalid("controller.bindJSON", "Invalid request body")
	}
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status := apperrors.HTTPStatus(apperrors.ErrorCode(err))
	switch {
	case isContextErr(err):
		logger.Debug(ctx, "Request abandoned", "error", err)
	case status >= http.StatusInternalServerError:
		logger.Error(ctx, "Todo request failed", "error", err)
	default:
		logger.Debug(ctx, "Todo request rejected", "error", err)
	}
	c.AbortWithStatusJSON(status, apperrors.NewBody(err))
}

// CreateTodo: POST /todos {title} -> 201 with the created item.
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var body struct {
		Title string `json:"title"`
	}
	if err := bindJSON(c, &body); err != nil {
		writeError(c, err)
		return
	}
	todo, err := h.svc.Create(c.Request.Context(), middleware.Identity(c), body.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// GetTodos: GET /todos -> 200 with every item of the caller.
func (h *TodoHandler) GetTodos(c *gin.Context) {
	todos, err := h.svc.List(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// UpdateTodo: PUT /todos/:id {title?, completed?} -> 200 with the merged item.
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	var patch models.TodoPatch
	if err := bindJSON(c, &patch); err != nil {
		writeError(c, err)
		return
	}
	todo, err := h.svc.Update(c.Request.Context(), middleware.Identity(c), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo: DELETE /todos/:id -> 200 confirmation, also when nothing was deleted.
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.Identity(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}

// Health returns 200 if the process is alive. Used by load balancers.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the store is reachable. Used by readiness probes.
func (h *TodoHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.svc.Ping(ctx); err != nil {
		logger.Warn(ctx, "Readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
		return
	}
	c.String(http.StatusOK, "OK")
}
