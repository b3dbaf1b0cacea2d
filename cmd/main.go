package main

import (
	"context"
	"time"

	"github.com/HTW-PMA/Kantino-App-grp12/config"
	"github.com/HTW-PMA/Kantino-App-grp12/controllers"
	"github.com/HTW-PMA/Kantino-App-grp12/routes"
	"github.com/HTW-PMA/Kantino-App-grp12/services"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	config.InitDB()

	store := services.NewGormStore(config.DB)
	network := services.NewNetworkService(store, logger)
	cache := services.NewCacheService(store, network, logger)
	api := services.NewMensaAPI()
	menus := services.NewMenuService(api, cache)
	preload := services.NewPreloadService(menus, store, network, logger)
	favorites := services.NewFavoritesService(store, logger)
	preferences := services.NewPreferencesService(store, logger)
	weather := services.NewWeatherService(logger)
	stats := services.NewStatsService(menus, logger)

	rules, err := services.LoadIntentRules()
	if err != nil {
		logger.Fatal("load intent rules", zap.Error(err))
	}

	// Assign through the interface only on success, a typed nil would not
	// compare equal to nil inside the chatbot.
	var ai services.AIClient
	if gemini, err := services.NewGeminiService(context.Background()); err != nil {
		logger.Warn("gemini unavailable, chatbot runs local-only", zap.Error(err))
	} else if gemini != nil {
		ai = gemini
	} else {
		logger.Info("GEMINI_API_KEY not set, chatbot runs local-only")
	}
	chatbot := services.NewChatbotService(rules, menus, network, ai, logger)

	controllers.Init(controllers.Deps{
		Menus:       menus,
		Preload:     preload,
		Favorites:   favorites,
		Preferences: preferences,
		Chatbot:     chatbot,
		Weather:     weather,
		Stats:       stats,
		Log:         logger,
	})

	// Refresh the menu cache on startup and then periodically.
	go func() {
		run := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := preload.CleanupOldMenus(); err != nil {
				logger.Warn("menu cleanup failed", zap.Error(err))
			}
			if err := preload.PreloadAllMenus(ctx); err != nil {
				logger.Warn("menu preload failed", zap.Error(err))
			}
		}
		run()
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			run()
		}
	}()

	chat := controllers.NewChatController(services.NewChatHub())
	r := routes.SetupRouter(chat)
	if err := r.Run(":8080"); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
