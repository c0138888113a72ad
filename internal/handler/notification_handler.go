package handler

import (
	"net/http"
	"strconv"

	"trialops/internal/middleware"
	"trialops/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List returns the caller's visible notifications annotated with read state.
// ?includeRead=true also returns already-read ones.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	includeRead, _ := strconv.ParseBool(c.DefaultQuery("includeRead", "false"))
	list, err := h.svc.List(c.Request.Context(), userID, includeRead)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) Count(c *gin.Context) {
	userID := middleware.GetUserID(c)
	count, err := h.svc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type markReadRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// MarkRead acknowledges only after the ledger write commits, so a client can
// safely sequence mark-read, then prefetch, then navigate.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids required"})
		return
	}
	if err := h.svc.MarkAsRead(c.Request.Context(), userID, req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.svc.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark all read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
