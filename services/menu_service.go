package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HTW-PMA/Kantino-App-grp12/models"
)

// Storage keys for the shared API caches.
const (
	canteensKey  = "canteens"
	mealsKey     = "meals"
	additivesKey = "additives"
	badgesKey    = "badges"
)

// MenuProvider is the read surface the chatbot, the preload job and the
// stats widget query. MenuService implements it against the cache store.
type MenuProvider interface {
	Canteens(ctx context.Context) ([]models.Canteen, error)
	CanteenByID(ctx context.Context, id string) (*models.Canteen, error)
	MenuForDate(ctx context.Context, canteenID, date string) ([]models.Meal, error)
	Additives(ctx context.Context) ([]models.Additive, error)
}

// MenuService is the typed boundary over the menu API: it routes every read
// through the cache store and normalizes the raw payloads into the model
// types, so shape quirks (id aliasing, day-array vs flat menus) end here.
type MenuService struct {
	api   *MensaAPI
	cache *CacheService
}

func NewMenuService(api *MensaAPI, cache *CacheService) *MenuService {
	return &MenuService{api: api, cache: cache}
}

func (s *MenuService) Canteens(ctx context.Context) ([]models.Canteen, error) {
	raw, err := s.cache.FetchWithCache(ctx, canteensKey, s.api.FetchCanteens)
	if err != nil {
		return nil, err
	}
	var canteens []models.Canteen
	if err := json.Unmarshal(raw, &canteens); err != nil {
		return nil, fmt.Errorf("decode canteen list: %w", err)
	}
	return canteens, nil
}

func (s *MenuService) CanteenByID(ctx context.Context, id string) (*models.Canteen, error) {
	canteens, err := s.Canteens(ctx)
	if err != nil {
		return nil, err
	}
	for i := range canteens {
		if canteens[i].ID == id {
			return &canteens[i], nil
		}
	}
	// Unknown id is not a failure; the caller decides.
	return nil, nil
}

func (s *MenuService) MenuForDate(ctx context.Context, canteenID, date string) ([]models.Meal, error) {
	raw, err := s.cache.FetchMenuWithCache(ctx, canteenID, date, func(ctx context.Context) ([]byte, error) {
		return s.api.FetchMenu(ctx, canteenID, date)
	})
	if err != nil {
		return nil, err
	}
	return models.NormalizeMenu(raw, date)
}

func (s *MenuService) Additives(ctx context.Context) ([]models.Additive, error) {
	raw, err := s.cache.FetchWithCache(ctx, additivesKey, s.api.FetchAdditives)
	if err != nil {
		return nil, err
	}
	var additives []models.Additive
	if err := json.Unmarshal(raw, &additives); err != nil {
		return nil, fmt.Errorf("decode additive list: %w", err)
	}
	return additives, nil
}

func (s *MenuService) Meals(ctx context.Context) ([]models.Meal, error) {
	raw, err := s.cache.FetchWithCache(ctx, mealsKey, s.api.FetchMeals)
	if err != nil {
		return nil, err
	}
	var meals []models.Meal
	if err := json.Unmarshal(raw, &meals); err != nil {
		return nil, fmt.Errorf("decode meal list: %w", err)
	}
	return meals, nil
}

func (s *MenuService) Badges(ctx context.Context) ([]models.Badge, error) {
	raw, err := s.cache.FetchWithCache(ctx, badgesKey, s.api.FetchBadges)
	if err != nil {
		return nil, err
	}
	var badges []models.Badge
	if err := json.Unmarshal(raw, &badges); err != nil {
		return nil, fmt.Errorf("decode badge list: %w", err)
	}
	return badges, nil
}
