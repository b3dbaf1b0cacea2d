package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"go.uber.org/zap"
)

// User-scoped storage key suffixes.
const (
	savedMensenKey   = "savedMensen"
	favoriteMealsKey = "favoriteMealsWithContext"
)

// userKey scopes a storage key to one registered device.
func userKey(deviceID, suffix string) string {
	return fmt.Sprintf("device_%s_%s", deviceID, suffix)
}

var germanDayNames = [...]string{
	"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag",
}

// FavoritesService owns the user's saved canteens (set semantics) and
// favorited meals (unique by meal id, with denormalized context).
type FavoritesService struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewFavoritesService(store Store, log *zap.Logger) *FavoritesService {
	return &FavoritesService{store: store, log: log, now: time.Now}
}

func (s *FavoritesService) readStringList(key string) ([]string, error) {
	raw, ok, err := s.store.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return list, nil
}

func (s *FavoritesService) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Set(key, string(data))
}

// SavedMensen returns the saved canteen ids; never nil.
func (s *FavoritesService) SavedMensen(deviceID string) ([]string, error) {
	return s.readStringList(userKey(deviceID, savedMensenKey))
}

// AddMensaToSaved appends the id unless it is already present. Returns
// false without mutation on a duplicate.
func (s *FavoritesService) AddMensaToSaved(deviceID, mensaID string) (bool, error) {
	key := userKey(deviceID, savedMensenKey)
	saved, err := s.readStringList(key)
	if err != nil {
		return false, err
	}
	for _, id := range saved {
		if id == mensaID {
			return false, nil
		}
	}
	if err := s.writeJSON(key, append(saved, mensaID)); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveMensaFromSaved ensures the id is absent. Removing a not-present id
// still succeeds.
func (s *FavoritesService) RemoveMensaFromSaved(deviceID, mensaID string) (bool, error) {
	key := userKey(deviceID, savedMensenKey)
	saved, err := s.readStringList(key)
	if err != nil {
		return false, err
	}
	remaining := saved[:0]
	for _, id := range saved {
		if id != mensaID {
			remaining = append(remaining, id)
		}
	}
	if err := s.writeJSON(key, remaining); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoritesService) IsMensaSaved(deviceID, mensaID string) (bool, error) {
	saved, err := s.SavedMensen(deviceID)
	if err != nil {
		return false, err
	}
	for _, id := range saved {
		if id == mensaID {
			return true, nil
		}
	}
	return false, nil
}

// FavoriteMeals returns the favorited meals with context; never nil.
func (s *FavoritesService) FavoriteMeals(deviceID string) ([]models.FavoriteMealWithContext, error) {
	raw, ok, err := s.store.Get(userKey(deviceID, favoriteMealsKey))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.FavoriteMealWithContext{}, nil
	}
	var favorites []models.FavoriteMealWithContext
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favorites, nil
}

// AddFavoriteMeal stores a meal snapshot with its context. DateAdded and
// DayOfWeek come from the wall clock; OriginalDate keeps the menu date the
// meal was seen on (a user may star a meal on a future day's menu). Adding
// an already-favorited meal id is a no-op returning false.
func (s *FavoritesService) AddFavoriteMeal(deviceID string, meal models.Meal, fctx models.FavoriteContext) (bool, error) {
	favorites, err := s.FavoriteMeals(deviceID)
	if err != nil {
		return false, err
	}
	for _, fav := range favorites {
		if fav.Key() == meal.Key() {
			return false, nil
		}
	}

	now := s.now()
	favorites = append(favorites, models.FavoriteMealWithContext{
		Meal:         meal,
		MensaID:      fctx.MensaID,
		MensaName:    fctx.MensaName,
		DateAdded:    now.Format(time.RFC3339),
		DayOfWeek:    germanDayNames[now.Weekday()],
		OriginalDate: fctx.OriginalDate,
	})

	if err := s.writeJSON(userKey(deviceID, favoriteMealsKey), favorites); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFavoriteMeal ensures the meal id is absent from the favorites.
func (s *FavoritesService) RemoveFavoriteMeal(deviceID, mealID string) (bool, error) {
	favorites, err := s.FavoriteMeals(deviceID)
	if err != nil {
		return false, err
	}
	remaining := favorites[:0]
	for _, fav := range favorites {
		if fav.Key() != mealID {
			remaining = append(remaining, fav)
		}
	}
	if err := s.writeJSON(userKey(deviceID, favoriteMealsKey), remaining); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoritesService) IsFavoriteMeal(deviceID, mealID string) (bool, error) {
	favorites, err := s.FavoriteMeals(deviceID)
	if err != nil {
		return false, err
	}
	for _, fav := range favorites {
		if fav.Key() == mealID {
			return true, nil
		}
	}
	return false, nil
}

// FavoriteMealsByCategory filters the favorites; empty or "all" returns
// everything.
func (s *FavoritesService) FavoriteMealsByCategory(deviceID, category string) ([]models.FavoriteMealWithContext, error) {
	favorites, err := s.FavoriteMeals(deviceID)
	if err != nil {
		return nil, err
	}
	if category == "" || category == "all" {
		return favorites, nil
	}
	filtered := make([]models.FavoriteMealWithContext, 0, len(favorites))
	for _, fav := range favorites {
		if fav.Category == category {
			filtered = append(filtered, fav)
		}
	}
	return filtered, nil
}

func (s *FavoritesService) FavoriteMealsByMensa(deviceID, mensaID string) ([]models.FavoriteMealWithContext, error) {
	favorites, err := s.FavoriteMeals(deviceID)
	if err != nil {
		return nil, err
	}
	if mensaID == "" {
		return favorites, nil
	}
	filtered := make([]models.FavoriteMealWithContext, 0, len(favorites))
	for _, fav := range favorites {
		if fav.MensaID == mensaID {
			filtered = append(filtered, fav)
		}
	}
	return filtered, nil
}

// FavoriteCategories derives the distinct sorted category list across the
// current favorites. Computed on every call, never stored.
func (s *FavoritesService) FavoriteCategories(deviceID string) ([]string, error) {
	favorites, err := s.FavoriteMeals(deviceID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	categories := []string{}
	for _, fav := range favorites {
		if fav.Category == "" {
			continue
		}
		if _, ok := seen[fav.Category]; ok {
			continue
		}
		seen[fav.Category] = struct{}{}
		categories = append(categories, fav.Category)
	}
	sort.Strings(categories)
	return categories, nil
}
