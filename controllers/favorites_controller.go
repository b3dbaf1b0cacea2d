package controllers

import (
	"net/http"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"github.com/gin-gonic/gin"
)

func GetSavedMensen(c *gin.Context) {
	saved, err := deps.Favorites.SavedMensen(c.GetString("deviceID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaIds": saved})
}

func AddSavedMensa(c *gin.Context) {
	var body struct {
		MensaID string `json:"mensaId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	added, err := deps.Favorites.AddMensaToSaved(c.GetString("deviceID"), body.MensaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func RemoveSavedMensa(c *gin.Context) {
	removed, err := deps.Favorites.RemoveMensaFromSaved(c.GetString("deviceID"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// GetFavoriteMeals lists the favorites, optionally filtered by ?category=
// or ?mensaId=.
func GetFavoriteMeals(c *gin.Context) {
	deviceID := c.GetString("deviceID")

	var favorites []models.FavoriteMealWithContext
	var err error
	if mensaID := c.Query("mensaId"); mensaID != "" {
		favorites, err = deps.Favorites.FavoriteMealsByMensa(deviceID, mensaID)
	} else {
		favorites, err = deps.Favorites.FavoriteMealsByCategory(deviceID, c.Query("category"))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func AddFavoriteMeal(c *gin.Context) {
	var body struct {
		Meal         models.Meal `json:"meal" binding:"required"`
		MensaID      string      `json:"mensaId"`
		MensaName    string      `json:"mensaName"`
		OriginalDate string      `json:"originalDate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Meal.Key() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal needs an id or a name"})
		return
	}

	added, err := deps.Favorites.AddFavoriteMeal(c.GetString("deviceID"), body.Meal, models.FavoriteContext{
		MensaID:      body.MensaID,
		MensaName:    body.MensaName,
		OriginalDate: body.OriginalDate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"added": added})
}

func RemoveFavoriteMeal(c *gin.Context) {
	removed, err := deps.Favorites.RemoveFavoriteMeal(c.GetString("deviceID"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func GetFavoriteCategories(c *gin.Context) {
	categories, err := deps.Favorites.FavoriteCategories(c.GetString("deviceID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
