package services

import (
	"context"
	"testing"
	"time"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func statsAt(t *testing.T, menus MenuProvider, day time.Time) *StatsService {
	t.Helper()
	svc := NewStatsService(menus, zap.NewNop())
	svc.now = func() time.Time { return day }
	return svc
}

var (
	statsFriday   = time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC)
	statsSaturday = time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)
)

func TestDailyStatsWeekendShortCircuits(t *testing.T) {
	menus := &stubMenus{canteens: []models.Canteen{{ID: "m1", Name: "Mensa A"}}}
	svc := statsAt(t, menus, statsSaturday)

	stats, err := svc.DailyStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Weekend)
	assert.Zero(t, stats.MealsToday)
	assert.Zero(t, menus.menuCalls, "closed canteens are not queried")
}

func TestDailyStatsFiltersNonCanteens(t *testing.T) {
	menus := &stubMenus{
		canteens: []models.Canteen{
			{ID: "m1", Name: "Mensa HTW Wilhelminenhof"},
			{ID: "b1", Name: "Backshop TU Hauptgebäude"},
			{ID: "c1", Name: "Café Mitte"},
			{ID: "s1", Name: "Späti FU"},
			{ID: "bi1", Name: "Bistro Nord"},
		},
		menus: map[string][]models.Meal{
			"m1": {{Name: "Linsensuppe", Category: "Essen"}},
		},
	}
	svc := statsAt(t, menus, statsFriday)

	stats, err := svc.DailyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalMensas)
	assert.Equal(t, 1, menus.menuCalls)
}

func TestDailyStatsCountsOnlyMainMeals(t *testing.T) {
	menus := &stubMenus{
		canteens: []models.Canteen{{ID: "m1", Name: "Mensa A"}},
		menus: map[string][]models.Meal{
			"m1": {
				{Name: "Linsensuppe", Category: "Suppen"},
				{Name: "Schnitzel", Category: "Essen"},
				{Name: "Pommes", Category: "Beilagen"},
				{Name: "Cola 0,5l", Category: "Getränke"},
				{Name: "Kaffee", Category: "Essen"},
			},
		},
	}
	svc := statsAt(t, menus, statsFriday)

	stats, err := svc.DailyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MealsToday)
	assert.False(t, stats.Estimated)
}

func TestDailyStatsExtrapolatesBeyondSample(t *testing.T) {
	canteens := make([]models.Canteen, 0, 15)
	menus := map[string][]models.Meal{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o"} {
		canteens = append(canteens, models.Canteen{ID: id, Name: "Mensa " + id})
		menus[id] = []models.Meal{
			{Name: "Gericht 1", Category: "Essen"},
			{Name: "Gericht 2", Category: "Essen"},
		}
	}
	stub := &stubMenus{canteens: canteens, menus: menus}
	svc := statsAt(t, stub, statsFriday)

	stats, err := svc.DailyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, stats.TotalMensas)
	assert.Equal(t, statsSampleSize, stats.SampledMensas)
	// 10 sampled canteens à 2 meals, scaled to 15 canteens.
	assert.Equal(t, 30, stats.MealsToday)
	assert.True(t, stats.Estimated)
}

func TestDailyStatsToleratesFailingCanteen(t *testing.T) {
	menus := &stubMenus{
		canteens: []models.Canteen{{ID: "m1", Name: "Mensa A"}, {ID: "m2", Name: "Mensa B"}},
		menus:    map[string][]models.Meal{"m2": {{Name: "Suppe", Category: "Suppen"}}},
		menuErr:  map[string]error{"m1": errBoom},
	}
	svc := statsAt(t, menus, statsFriday)

	stats, err := svc.DailyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SampledMensas)
	// One of two canteens sampled, so the one observed meal doubles.
	assert.Equal(t, 2, stats.MealsToday)
	assert.True(t, stats.Estimated)
}
