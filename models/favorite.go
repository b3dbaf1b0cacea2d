package models

// FavoriteContext is what the caller knows when a meal gets favorited:
// which canteen it belongs to and the menu date it was seen on. The latter
// may lie in the future when a meal is starred from a coming day's menu.
type FavoriteContext struct {
	MensaID      string `json:"mensaId"`
	MensaName    string `json:"mensaName"`
	OriginalDate string `json:"originalDate"`
}

// FavoriteMealWithContext is a meal snapshot plus denormalized context.
// DateAdded and DayOfWeek are stamped from the wall clock at add time, not
// from OriginalDate.
type FavoriteMealWithContext struct {
	Meal
	MensaID      string `json:"mensaId"`
	MensaName    string `json:"mensaName"`
	DateAdded    string `json:"dateAdded"`
	DayOfWeek    string `json:"dayOfWeek"`
	OriginalDate string `json:"originalDate"`
}
