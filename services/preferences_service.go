package services

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"go.uber.org/zap"
)

const (
	userNameKey        = "userName"
	selectedMensaKey   = "selectedMensa"
	userPreferencesKey = "userPreferences"
)

// The closed preference vocabulary. Anything else found in storage is
// stripped on load.
var canonicalPreferenceTags = []string{
	"vegetarisch", "vegan", "klimaessen", "fairtrade", "nachhaltig", "fisch_nachhaltig",
}

// legacyPreferenceRenames converts keys of the oldest stored format (a map
// of boolean flags) to the current vocabulary. Canonical tags map to
// themselves so mixed-age data survives.
var legacyPreferenceRenames = map[string]string{
	"vegetarian":       "vegetarisch",
	"vegetarisch":      "vegetarisch",
	"vegan":            "vegan",
	"climate":          "klimaessen",
	"klimaessen":       "klimaessen",
	"fairtrade":        "fairtrade",
	"sustainable":      "nachhaltig",
	"nachhaltig":       "nachhaltig",
	"sustainable_fish": "fisch_nachhaltig",
	"fisch_nachhaltig": "fisch_nachhaltig",
}

func isCanonicalTag(tag string) bool {
	for _, t := range canonicalPreferenceTags {
		if t == tag {
			return true
		}
	}
	return false
}

// PreferencesService owns the user's name, selected canteen and dietary
// preference tags, and assembles the profile from those three keys.
type PreferencesService struct {
	store Store
	log   *zap.Logger
}

func NewPreferencesService(store Store, log *zap.Logger) *PreferencesService {
	return &PreferencesService{store: store, log: log}
}

func (s *PreferencesService) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Set(key, string(data))
}

func (s *PreferencesService) getString(key string) (string, error) {
	raw, ok, err := s.store.Get(key)
	if err != nil || !ok {
		return "", err
	}
	var value string
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", fmt.Errorf("decode %s: %w", key, err)
	}
	return value, nil
}

func (s *PreferencesService) SetName(deviceID, name string) error {
	return s.setJSON(userKey(deviceID, userNameKey), name)
}

func (s *PreferencesService) Name(deviceID string) (string, error) {
	return s.getString(userKey(deviceID, userNameKey))
}

func (s *PreferencesService) RemoveName(deviceID string) error {
	return s.store.Delete(userKey(deviceID, userNameKey))
}

func (s *PreferencesService) SetSelectedMensa(deviceID, mensaID string) error {
	return s.setJSON(userKey(deviceID, selectedMensaKey), mensaID)
}

func (s *PreferencesService) SelectedMensa(deviceID string) (string, error) {
	return s.getString(userKey(deviceID, selectedMensaKey))
}

func (s *PreferencesService) RemoveSelectedMensa(deviceID string) error {
	return s.store.Delete(userKey(deviceID, selectedMensaKey))
}

// SetPreferences persists the given tags, silently dropping anything
// outside the vocabulary.
func (s *PreferencesService) SetPreferences(deviceID string, tags []string) ([]string, error) {
	cleaned := filterCanonical(tags)
	if err := s.setJSON(userKey(deviceID, userPreferencesKey), cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// Preferences loads the tags, migrating legacy formats first. The migration
// runs on every load by design; it is idempotent and self-healing.
func (s *PreferencesService) Preferences(deviceID string) ([]string, error) {
	return s.MigratePreferencesToFinalFormat(deviceID)
}

// MigratePreferencesToFinalFormat normalizes whatever is stored under the
// preference key into the canonical tag array and persists the result back.
// Two legacy shapes exist: a {oldKey: bool} map whose active keys are
// renamed into the vocabulary, and a plain array that may contain obsolete
// values. Both end as a filtered array; already-canonical data passes
// through untouched apart from the filter.
func (s *PreferencesService) MigratePreferencesToFinalFormat(deviceID string) ([]string, error) {
	key := userKey(deviceID, userPreferencesKey)
	raw, ok, err := s.store.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		cleaned := filterCanonical(tags)
		if err := s.setJSON(key, cleaned); err != nil {
			return nil, err
		}
		return cleaned, nil
	}

	var flags map[string]bool
	if err := json.Unmarshal([]byte(raw), &flags); err != nil {
		s.log.Warn("unreadable preference data, resetting", zap.String("device", deviceID))
		if err := s.setJSON(key, []string{}); err != nil {
			return nil, err
		}
		return []string{}, nil
	}

	converted := make([]string, 0, len(flags))
	for legacyKey, active := range flags {
		if !active {
			continue
		}
		if tag, known := legacyPreferenceRenames[legacyKey]; known {
			converted = append(converted, tag)
		}
	}
	// Map iteration order is random; sort so repeated migrations agree.
	sort.Strings(converted)

	cleaned := filterCanonical(converted)
	if err := s.setJSON(key, cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

func filterCanonical(tags []string) []string {
	cleaned := []string{}
	seen := make(map[string]struct{})
	for _, tag := range tags {
		if !isCanonicalTag(tag) {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

// Profile assembles the user profile from its three independent storage
// keys.
func (s *PreferencesService) Profile(deviceID string) (models.UserProfile, error) {
	name, err := s.Name(deviceID)
	if err != nil {
		return models.UserProfile{}, err
	}
	mensa, err := s.SelectedMensa(deviceID)
	if err != nil {
		return models.UserProfile{}, err
	}
	prefs, err := s.Preferences(deviceID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return models.UserProfile{Name: name, SelectedMensa: mensa, Preferences: prefs}, nil
}
