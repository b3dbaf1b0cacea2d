package controllers

import (
	"net/http"

	"github.com/HTW-PMA/Kantino-App-grp12/services"

	"github.com/gin-gonic/gin"
)

// GetWeatherRecommendation returns Berlin's current weather and the food
// suggestion derived from it. Never fails; mock data backs an unreachable
// weather API.
func GetWeatherRecommendation(c *gin.Context) {
	weather := deps.Weather.CurrentWeather(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"weather":        weather,
		"emoji":          services.WeatherEmoji(weather.Condition),
		"recommendation": deps.Weather.FoodRecommendationFor(weather),
	})
}
