package handlers

import (
	"errors"
	"net/http"

	"studyboard/internal/domain"
	"studyboard/internal/logger"
	"studyboard/internal/tasks"
	"studyboard/internal/view"

	"github.com/gin-gonic/gin"
)

// ListTasks returns the board for the caller's tasks, searched by ?q=
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	snap, err := h.Tasks.StoreFor(userID).Load(c.Request.Context(), userID)
	if err != nil {
		h.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"board": view.Board(snap.Tasks, c.Query("q"))})
}

// GetTask returns one of the caller's tasks
func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	store := h.Tasks.StoreFor(userID)
	if _, err := store.Load(c.Request.Context(), userID); err != nil {
		h.taskError(c, err)
		return
	}
	t, found := store.Find(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// TaskStats returns the dashboard counters
func (h *Handler) TaskStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	snap, err := h.Tasks.StoreFor(userID).Load(c.Request.Context(), userID)
	if err != nil {
		h.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": view.ComputeStats(snap.Tasks)})
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	draft := domain.NewDraft()
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	snap, err := h.Tasks.StoreFor(userID).Create(ctx, draft, userID)
	if err != nil {
		h.taskError(c, err)
		return
	}

	h.Audit.LogTask(ctx, userID, domain.AuditActionTaskCreate, "", map[string]interface{}{"title": draft.Title})
	c.JSON(http.StatusCreated, gin.H{"board": view.Board(snap.Tasks, "")})
}

// UpdateTask replaces every editable field of a task
func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	draft := domain.NewDraft()
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	snap, err := h.Tasks.StoreFor(userID).Update(ctx, id, draft)
	if err != nil {
		h.taskError(c, err)
		return
	}

	h.Audit.LogTask(ctx, userID, domain.AuditActionTaskUpdate, id, map[string]interface{}{"status": draft.Status})
	c.JSON(http.StatusOK, gin.H{"board": view.Board(snap.Tasks, "")})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	snap, err := h.Tasks.StoreFor(userID).Delete(ctx, id)
	if err != nil {
		h.taskError(c, err)
		return
	}

	h.Audit.LogTask(ctx, userID, domain.AuditActionTaskDelete, id, nil)
	c.JSON(http.StatusOK, gin.H{"board": view.Board(snap.Tasks, "")})
}

func (h *Handler) taskError(c *gin.Context, err error) {
	var syncErr *tasks.SyncError
	switch {
	case errors.Is(err, tasks.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, tasks.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.As(err, &syncErr):
		logger.WithContext(c.Request.Context()).Error("task store sync failed", "op", syncErr.Op, "error", syncErr.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to sync tasks"})
	default:
		logger.WithContext(c.Request.Context()).Error("task request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
