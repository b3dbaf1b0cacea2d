package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPreferencesForTest() (*PreferencesService, *MemoryStore) {
	store := NewMemoryStore()
	return NewPreferencesService(store, zap.NewNop()), store
}

func TestPreferencesAbsentMeansEmpty(t *testing.T) {
	svc, _ := newPreferencesForTest()
	prefs, err := svc.Preferences(testDevice)
	require.NoError(t, err)
	assert.Equal(t, []string{}, prefs)
}

func TestPreferencesMigratesLegacyFlagMap(t *testing.T) {
	svc, store := newPreferencesForTest()
	key := userKey(testDevice, userPreferencesKey)
	require.NoError(t, store.Set(key, `{"vegetarian":true,"climate":true,"gluten_free":true,"vegan":false}`))

	prefs, err := svc.Preferences(testDevice)
	require.NoError(t, err)
	// Unknown keys drop out, inactive flags drop out, the rest is renamed.
	assert.Equal(t, []string{"klimaessen", "vegetarisch"}, prefs)

	raw, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["klimaessen","vegetarisch"]`, raw)
}

func TestPreferencesMigrationIsIdempotent(t *testing.T) {
	svc, store := newPreferencesForTest()
	key := userKey(testDevice, userPreferencesKey)
	require.NoError(t, store.Set(key, `{"sustainable_fish":true,"fairtrade":true}`))

	_, err := svc.Preferences(testDevice)
	require.NoError(t, err)
	first, _, _ := store.Get(key)

	_, err = svc.Preferences(testDevice)
	require.NoError(t, err)
	second, _, _ := store.Get(key)

	assert.Equal(t, first, second, "rerunning the migration must not change stored bytes")
}

func TestPreferencesArrayKeepsOrderFiltersUnknown(t *testing.T) {
	svc, store := newPreferencesForTest()
	key := userKey(testDevice, userPreferencesKey)
	require.NoError(t, store.Set(key, `["vegan","halal","vegetarisch","vegan"]`))

	prefs, err := svc.Preferences(testDevice)
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan", "vegetarisch"}, prefs)
}

func TestPreferencesUnreadableResetsToEmpty(t *testing.T) {
	svc, store := newPreferencesForTest()
	key := userKey(testDevice, userPreferencesKey)
	require.NoError(t, store.Set(key, `not json at all`))

	prefs, err := svc.Preferences(testDevice)
	require.NoError(t, err)
	assert.Equal(t, []string{}, prefs)

	raw, _, _ := store.Get(key)
	assert.JSONEq(t, `[]`, raw)
}

func TestSetPreferencesFiltersVocabulary(t *testing.T) {
	svc, _ := newPreferencesForTest()
	cleaned, err := svc.SetPreferences(testDevice, []string{"vegan", "paleo", "fairtrade"})
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan", "fairtrade"}, cleaned)
}

func TestProfileAssemblesThreeKeys(t *testing.T) {
	svc, _ := newPreferencesForTest()
	require.NoError(t, svc.SetName(testDevice, "Alex"))
	require.NoError(t, svc.SetSelectedMensa(testDevice, "m1"))
	_, err := svc.SetPreferences(testDevice, []string{"vegan"})
	require.NoError(t, err)

	profile, err := svc.Profile(testDevice)
	require.NoError(t, err)
	assert.Equal(t, "Alex", profile.Name)
	assert.Equal(t, "m1", profile.SelectedMensa)
	assert.Equal(t, []string{"vegan"}, profile.Preferences)
}

func TestRemoveNameAndMensa(t *testing.T) {
	svc, _ := newPreferencesForTest()
	require.NoError(t, svc.SetName(testDevice, "Alex"))
	require.NoError(t, svc.RemoveName(testDevice))

	name, err := svc.Name(testDevice)
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, svc.SetSelectedMensa(testDevice, "m1"))
	require.NoError(t, svc.RemoveSelectedMensa(testDevice))
	mensa, err := svc.SelectedMensa(testDevice)
	require.NoError(t, err)
	assert.Empty(t, mensa)
}
