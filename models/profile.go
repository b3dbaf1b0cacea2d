package models

// UserProfile is assembled at load time from three independent storage keys
// (userName, selectedMensa, userPreferences). It is never persisted as one
// object.
type UserProfile struct {
	Name          string   `json:"name"`
	SelectedMensa string   `json:"selectedMensa"`
	Preferences   []string `json:"preferences"`
}
