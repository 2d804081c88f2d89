package handlers

import (
	"studyboard/internal/http/middleware"
	"studyboard/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tasks *service.TaskService
	Auth  *service.AuthService
	Audit *service.AuditService
}

func NewHandler(tasks *service.TaskService, auth *service.AuthService, audit *service.AuditService) *Handler {
	return &Handler{
		Tasks: tasks,
		Auth:  auth,
		Audit: audit,
	}
}

// getUserID returns the user id set by the Auth middleware
func getUserID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserID)
	return id, id != ""
}

func getClaims(c *gin.Context) (service.Claims, bool) {
	v, ok := c.Get(middleware.ContextClaims)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := v.(service.Claims)
	return claims, ok
}
