package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PreloadService warms the menu cache at startup and evicts entries for
// past days, so a cold start has today's data available offline without the
// user visiting every canteen first.
type PreloadService struct {
	menus MenuProvider
	store Store
	net   Connectivity
	log   *zap.Logger
}

func NewPreloadService(menus MenuProvider, store Store, net Connectivity, log *zap.Logger) *PreloadService {
	return &PreloadService{menus: menus, store: store, net: net, log: log}
}

// PreloadAllMenus fetches today's menu for every known canteen into the
// cache, one canteen at a time to keep the external API rate happy. A
// failing canteen is logged and skipped; it simply stays uncached. Offline
// the job is a no-op.
func (s *PreloadService) PreloadAllMenus(ctx context.Context) error {
	if !s.net.Online(ctx) {
		s.log.Info("offline, skipping menu preload")
		return nil
	}

	canteens, err := s.menus.Canteens(ctx)
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	warmed := 0
	for _, canteen := range canteens {
		if _, err := s.menus.MenuForDate(ctx, canteen.ID, today); err != nil {
			s.log.Warn("menu preload failed",
				zap.String("canteen", canteen.ID),
				zap.String("name", canteen.Name),
				zap.Error(err))
			continue
		}
		warmed++
	}

	if err := s.net.UpdateLastConnection(); err != nil {
		s.log.Warn("could not record connection time", zap.Error(err))
	}

	s.log.Info("menu preload finished",
		zap.Int("canteens", len(canteens)),
		zap.Int("warmed", warmed),
		zap.String("date", today))
	return nil
}

// CleanupOldMenus removes every cached menu whose date is not today. Pure
// local housekeeping; runs regardless of network state.
func (s *PreloadService) CleanupOldMenus() error {
	return s.cleanupMenusExcept(time.Now().Format("2006-01-02"))
}

func (s *PreloadService) cleanupMenusExcept(date string) error {
	keys, err := s.store.Keys(menuKeyPrefix)
	if err != nil {
		return err
	}

	var stale []string
	for _, key := range keys {
		if menuKeyDate(key) != date {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	if err := s.store.Delete(stale...); err != nil {
		return err
	}
	s.log.Info("removed stale menu caches", zap.Int("count", len(stale)))
	return nil
}

// menuKeyDate extracts the date suffix of a menu_<canteenId>_<date> key.
// Canteen ids may themselves contain underscores, the date never does.
func menuKeyDate(key string) string {
	idx := strings.LastIndex(key, "_")
	if idx < 0 || idx+1 >= len(key) {
		return ""
	}
	return key[idx+1:]
}
