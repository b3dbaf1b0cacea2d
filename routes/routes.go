package routes

import (
	"github.com/HTW-PMA/Kantino-App-grp12/controllers"
	"github.com/HTW-PMA/Kantino-App-grp12/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(chat *controllers.ChatController) *gin.Engine {
	r := gin.Default()

	// Public data routes; menu data is the same for everyone.
	r.POST("/device/register", controllers.RegisterDevice)
	r.GET("/canteens", controllers.GetCanteens)
	r.GET("/canteens/:id", controllers.GetCanteen)
	r.GET("/menu", controllers.GetMenu)
	r.GET("/additives", controllers.GetAdditives)
	r.GET("/stats", controllers.GetStats)
	r.GET("/weather/recommendation", controllers.GetWeatherRecommendation)

	internal := r.Group("/internal")
	{
		internal.POST("/preload", controllers.TriggerPreload)
		internal.POST("/cleanup", controllers.TriggerCleanup)
	}

	// Per-device routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)

		user.GET("/preferences", controllers.GetPreferences)
		user.PUT("/preferences", controllers.PutPreferences)

		user.GET("/saved-mensen", controllers.GetSavedMensen)
		user.POST("/saved-mensen", controllers.AddSavedMensa)
		user.DELETE("/saved-mensen/:id", controllers.RemoveSavedMensa)

		user.GET("/favorites", controllers.GetFavoriteMeals)
		user.POST("/favorites", controllers.AddFavoriteMeal)
		user.DELETE("/favorites/:id", controllers.RemoveFavoriteMeal)
		user.GET("/favorites/categories", controllers.GetFavoriteCategories)
	}

	chatGroup := r.Group("/chat")
	chatGroup.Use(middlewares.AuthMiddleware())
	{
		chatGroup.POST("/message", chat.PostMessage)
		chatGroup.GET("/ws", chat.ChatWS)
	}

	return r
}
