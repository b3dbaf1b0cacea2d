package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPreferences returns the canonical preference tags, migrating stored
// legacy formats on the way.
func GetPreferences(c *gin.Context) {
	prefs, err := deps.Preferences.Preferences(c.GetString("deviceID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// PutPreferences replaces the tags; unknown values are dropped and the
// cleaned list is echoed back.
func PutPreferences(c *gin.Context) {
	var body struct {
		Preferences []string `json:"preferences" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cleaned, err := deps.Preferences.SetPreferences(c.GetString("deviceID"), body.Preferences)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": cleaned})
}
