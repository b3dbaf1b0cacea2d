package controllers

import (
	"net/http"
	"time"

	"github.com/HTW-PMA/Kantino-App-grp12/utils"

	"github.com/gin-gonic/gin"
)

// GetMenu returns one canteen's menu for a date (?canteenId=&date=, date
// defaults to today), grouped by category in display order.
func GetMenu(c *gin.Context) {
	canteenID := c.Query("canteenId")
	if canteenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "canteenId is required"})
		return
	}
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	meals, err := deps.Menus.MenuForDate(c.Request.Context(), canteenID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"canteenId": canteenID,
		"date":      date,
		"groups":    utils.GroupMealsByCategory(meals),
	})
}

// GetStats returns today's estimated meal count across all full canteens.
func GetStats(c *gin.Context) {
	stats, err := deps.Stats.DailyStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
