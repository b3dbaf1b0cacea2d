package controllers

import (
	"errors"
	"net/http"

	"github.com/HTW-PMA/Kantino-App-grp12/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps carries the shared service instances. Handlers are plain functions;
// Init wires them once at startup.
type Deps struct {
	Menus       services.MenuProvider
	Preload     *services.PreloadService
	Favorites   *services.FavoritesService
	Preferences *services.PreferencesService
	Chatbot     *services.ChatbotService
	Weather     *services.WeatherService
	Stats       *services.StatsService
	Log         *zap.Logger
}

var deps Deps

func Init(d Deps) { deps = d }

// respondServiceError maps the offline sentinels to 503 with a machine
// readable code, everything else to 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoConnection):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "offline"})
	case errors.Is(err, services.ErrStaleData):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "stale"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
