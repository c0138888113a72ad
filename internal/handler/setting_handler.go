package handler

import (
	"net/http"

	"trialops/internal/middleware"
	"trialops/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	prefs *service.PreferenceService
}

func NewSettingHandler(prefs *service.PreferenceService) *SettingHandler {
	return &SettingHandler{prefs: prefs}
}

func (h *SettingHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	set, err := h.prefs.Get(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings lookup failed"})
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *SettingHandler) Patch(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var patch service.SettingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	set, err := h.prefs.Update(userID, patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings update failed"})
		return
	}
	c.JSON(http.StatusOK, set)
}
