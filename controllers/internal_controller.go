package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerPreload runs the menu preload synchronously. Meant for operators
// and the scheduler, not app clients.
func TriggerPreload(c *gin.Context) {
	if err := deps.Preload.PreloadAllMenus(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "preloaded"})
}

// TriggerCleanup drops all cached menus except today's.
func TriggerCleanup(c *gin.Context) {
	if err := deps.Preload.CleanupOldMenus(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleaned"})
}
