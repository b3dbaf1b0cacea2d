package controllers

import (
	"net/http"
	"strings"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"github.com/gin-gonic/gin"
)

// GetCanteens lists all canteens, optionally filtered by a name substring
// (?search=).
func GetCanteens(c *gin.Context) {
	canteens, err := deps.Menus.Canteens(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if search := strings.ToLower(c.Query("search")); search != "" {
		filtered := make([]models.Canteen, 0, len(canteens))
		for _, canteen := range canteens {
			if strings.Contains(strings.ToLower(canteen.Name), search) {
				filtered = append(filtered, canteen)
			}
		}
		canteens = filtered
	}
	c.JSON(http.StatusOK, canteens)
}

func GetCanteen(c *gin.Context) {
	canteen, err := deps.Menus.CanteenByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if canteen == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "canteen not found"})
		return
	}
	c.JSON(http.StatusOK, canteen)
}

func GetAdditives(c *gin.Context) {
	additives, err := deps.Menus.Additives(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, additives)
}
