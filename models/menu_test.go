package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMenuDayArray(t *testing.T) {
	raw := []byte(`[
		{"date":"2026-08-27","meals":[{"name":"Gestern"}]},
		{"date":"2026-08-28","meals":[{"name":"Linsensuppe"},{"name":"Schnitzel"}]}
	]`)

	meals, err := NormalizeMenu(raw, "2026-08-28")
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Linsensuppe", meals[0].Name)
}

func TestNormalizeMenuSingleUnlabeledDay(t *testing.T) {
	raw := []byte(`[{"meals":[{"name":"Linsensuppe"}]}]`)

	meals, err := NormalizeMenu(raw, "2026-08-28")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Linsensuppe", meals[0].Name)
}

func TestNormalizeMenuFlatObject(t *testing.T) {
	raw := []byte(`{"meals":[{"name":"Linsensuppe"}]}`)

	meals, err := NormalizeMenu(raw, "2026-08-28")
	require.NoError(t, err)
	require.Len(t, meals, 1)
}

func TestNormalizeMenuNoMatchingDay(t *testing.T) {
	raw := []byte(`[{"date":"2026-08-27","meals":[{"name":"Gestern"}]}]`)

	meals, err := NormalizeMenu(raw, "2026-08-28")
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestNormalizeMenuEmptyPayload(t *testing.T) {
	meals, err := NormalizeMenu([]byte("  "), "2026-08-28")
	require.NoError(t, err)
	assert.Nil(t, meals)
}

func TestCanteenLegacyIDAlias(t *testing.T) {
	var canteen Canteen
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"655f1234","name":"Mensa A"}`), &canteen))
	assert.Equal(t, "655f1234", canteen.ID)

	// A modern id wins over the legacy alias.
	require.NoError(t, json.Unmarshal([]byte(`{"id":"new","_id":"old","name":"Mensa A"}`), &canteen))
	assert.Equal(t, "new", canteen.ID)
}

func TestCanteenFullAddress(t *testing.T) {
	c := Canteen{Address: Address{Street: "Treskowallee 8", Zipcode: "10318", City: "Berlin"}}
	assert.Equal(t, "Treskowallee 8, 10318 Berlin", c.FullAddress())
	assert.Empty(t, Canteen{}.FullAddress())
}

func TestMealFirstPricePrefersStudents(t *testing.T) {
	m := Meal{Prices: []Price{
		{PriceType: "Gäste", Price: 5.5},
		{PriceType: "Studierende", Price: 2.95},
	}}
	assert.Equal(t, 2.95, m.FirstPrice())

	noStudent := Meal{Prices: []Price{{PriceType: "Gäste", Price: 5.5}}}
	assert.Equal(t, 5.5, noStudent.FirstPrice())
	assert.Zero(t, Meal{}.FirstPrice())
}

func TestMealKeyFallsBackToName(t *testing.T) {
	assert.Equal(t, "abc", Meal{ID: "abc", Name: "Suppe"}.Key())
	assert.Equal(t, "Suppe", Meal{Name: "Suppe"}.Key())
}
