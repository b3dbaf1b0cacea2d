package services

import (
	"context"
	"strings"
	"time"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"go.uber.org/zap"
)

const statsSampleSize = 10

// DailyStats summarizes today's offering across all full canteens.
type DailyStats struct {
	Date          string `json:"date"`
	TotalMensas   int    `json:"totalMensas"`
	SampledMensas int    `json:"sampledMensas"`
	MealsToday    int    `json:"mealsToday"`
	Estimated     bool   `json:"estimated"`
	Weekend       bool   `json:"weekend"`
}

// StatsService computes the daily meal count. Querying every canteen would
// be a request storm, so it samples a few and extrapolates.
type StatsService struct {
	menus MenuProvider
	log   *zap.Logger
	now   func() time.Time
}

func NewStatsService(menus MenuProvider, log *zap.Logger) *StatsService {
	return &StatsService{menus: menus, log: log, now: time.Now}
}

// DailyStats counts today's main meals. Weekends short-circuit to zero
// since Berlin university canteens are closed.
func (s *StatsService) DailyStats(ctx context.Context) (DailyStats, error) {
	now := s.now()
	date := now.Format("2006-01-02")

	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return DailyStats{Date: date, Weekend: true}, nil
	}

	canteens, err := s.menus.Canteens(ctx)
	if err != nil {
		return DailyStats{}, err
	}

	full := fullCanteens(canteens)
	stats := DailyStats{Date: date, TotalMensas: len(full)}

	observed := 0
	for _, canteen := range full {
		if stats.SampledMensas == statsSampleSize {
			break
		}
		meals, err := s.menus.MenuForDate(ctx, canteen.ID, date)
		if err != nil {
			s.log.Warn("stats menu lookup failed", zap.String("mensa", canteen.ID), zap.Error(err))
			continue
		}
		stats.SampledMensas++
		observed += countMainMeals(meals)
	}

	stats.MealsToday = observed
	if stats.SampledMensas > 0 && stats.SampledMensas < stats.TotalMensas {
		estimated := observed * stats.TotalMensas / stats.SampledMensas
		if estimated > observed {
			stats.MealsToday = estimated
			stats.Estimated = true
		}
	}
	return stats, nil
}

// fullCanteens drops bakery counters, kiosks and coffee bars; only real
// canteens serve warm meals.
func fullCanteens(canteens []models.Canteen) []models.Canteen {
	out := make([]models.Canteen, 0, len(canteens))
	for _, c := range canteens {
		name := strings.ToLower(c.Name)
		if strings.Contains(name, "backshop") ||
			strings.Contains(name, "späti") ||
			strings.Contains(name, "café") ||
			strings.Contains(name, "bistro") {
			continue
		}
		out = append(out, c)
	}
	return out
}

var (
	nonMainCategories = []string{"beilage", "getränk", "snack", "nachtisch", "dessert", "soße", "sauce"}
	nonMainNames      = []string{"wasser", "kaffee", "tee", "saft", "cola"}
)

func countMainMeals(meals []models.Meal) int {
	count := 0
	for _, meal := range meals {
		if isMainMeal(meal) {
			count++
		}
	}
	return count
}

func isMainMeal(meal models.Meal) bool {
	category := strings.ToLower(meal.Category)
	for _, c := range nonMainCategories {
		if strings.Contains(category, c) {
			return false
		}
	}
	name := strings.ToLower(meal.Name)
	for _, n := range nonMainNames {
		if strings.Contains(name, n) {
			return false
		}
	}
	return true
}
