package utils

import (
	"sort"
	"strings"

	"github.com/HTW-PMA/Kantino-App-grp12/models"
)

// categoryPriority fixes the display order of meal categories. Unknown
// categories sort last, alphabetically.
var categoryPriority = map[string]int{
	"aktionen":   0,
	"essen":      1,
	"salate":     2,
	"suppen":     3,
	"vorspeisen": 4,
	"desserts":   5,
	"beilagen":   6,
	"getränke":   7,
	"snacks":     8,
}

const unknownCategoryRank = 9

func categoryRank(name string) int {
	if rank, ok := categoryPriority[strings.ToLower(name)]; ok {
		return rank
	}
	return unknownCategoryRank
}

// SortCategories orders category names by the fixed priority, breaking ties
// alphabetically.
func SortCategories(categories []string) []string {
	sorted := make([]string, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := categoryRank(sorted[i]), categoryRank(sorted[j])
		if ri != rj {
			return ri < rj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// MealGroup is one category block of a menu, in display order.
type MealGroup struct {
	Category string        `json:"category"`
	Meals    []models.Meal `json:"meals"`
}

// GroupMealsByCategory buckets meals by category (empty → "Sonstiges") and
// returns the groups in priority order.
func GroupMealsByCategory(meals []models.Meal) []MealGroup {
	buckets := make(map[string][]models.Meal)
	for _, m := range meals {
		cat := m.Category
		if cat == "" {
			cat = "Sonstiges"
		}
		buckets[cat] = append(buckets[cat], m)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}

	groups := make([]MealGroup, 0, len(buckets))
	for _, name := range SortCategories(names) {
		groups = append(groups, MealGroup{Category: name, Meals: buckets[name]})
	}
	return groups
}
