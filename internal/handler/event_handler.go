package handler

import (
	"net/http"

	"trialops/internal/service"

	"github.com/gin-gonic/gin"
)

// EventHandler is the internal trigger collaborating subsystems (task
// creation, signal detection) call to start a fan-out.
type EventHandler struct {
	svc *service.NotificationService
}

func NewEventHandler(svc *service.NotificationService) *EventHandler {
	return &EventHandler{svc: svc}
}

type notifyEventRequest struct {
	service.Event
	Type         string `json:"type" binding:"required,oneof=task signal system protocol query data monitoring safety"`
	Priority     string `json:"priority" binding:"required,oneof=critical high medium low info"`
	Title        string `json:"title" binding:"required"`
	AssignedRole string `json:"assigned_role" binding:"required"`
}

func (h *EventHandler) Notify(c *gin.Context) {
	var req notifyEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev := req.Event
	ev.Type = req.Type
	ev.Priority = req.Priority
	ev.Title = req.Title
	ev.AssignedRole = req.AssignedRole

	created, err := h.svc.NotifyEvent(c.Request.Context(), ev)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fan-out failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(created), "notifications": created})
}
