package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MenuDay is one entry of the array-shaped menu response.
type MenuDay struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// menu responses come in two shapes: an array of days, each with a date and
// a meals array, or a flat object with a single meals array.
type flatMenu struct {
	Meals []Meal `json:"meals"`
}

// NormalizeMenu flattens either menu response shape into a plain meal list
// for the given date. Downstream code never sees the raw shapes.
func NormalizeMenu(raw []byte, date string) ([]Meal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var days []MenuDay
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return nil, fmt.Errorf("menu response is not a day list: %w", err)
		}
		for _, day := range days {
			if day.Date == date {
				return day.Meals, nil
			}
		}
		// The API sometimes answers with a single unlabeled day.
		if len(days) == 1 && days[0].Date == "" {
			return days[0].Meals, nil
		}
		return nil, nil
	}

	var flat flatMenu
	if err := json.Unmarshal(trimmed, &flat); err != nil {
		return nil, fmt.Errorf("menu response is not a meal object: %w", err)
	}
	return flat.Meals, nil
}
