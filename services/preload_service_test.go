package services

import (
	"context"
	"testing"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanupKeepsOnlyGivenDate(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(MenuCacheKey("m1", "2026-08-27"), "old"))
	require.NoError(t, store.Set(MenuCacheKey("m1", "2026-08-28"), "today"))
	require.NoError(t, store.Set(MenuCacheKey("mensa_x", "2026-08-26"), "older"))
	require.NoError(t, store.Set("canteens", "untouched"))

	svc := NewPreloadService(&stubMenus{}, store, &stubNet{}, zap.NewNop())
	require.NoError(t, svc.cleanupMenusExcept("2026-08-28"))

	keys, err := store.Keys("")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"canteens", MenuCacheKey("m1", "2026-08-28")}, keys)
}

func TestCleanupHandlesUnderscoredCanteenIDs(t *testing.T) {
	store := NewMemoryStore()
	key := MenuCacheKey("mensa_htw_treskowallee", "2026-08-28")
	require.NoError(t, store.Set(key, "today"))

	svc := NewPreloadService(&stubMenus{}, store, &stubNet{}, zap.NewNop())
	require.NoError(t, svc.cleanupMenusExcept("2026-08-28"))

	_, ok, err := store.Get(key)
	require.NoError(t, err)
	assert.True(t, ok, "today's entry must survive despite underscores in the id")
}

func TestPreloadOfflineIsNoop(t *testing.T) {
	menus := &stubMenus{canteens: []models.Canteen{{ID: "m1"}}}
	svc := NewPreloadService(menus, NewMemoryStore(), &stubNet{online: false}, zap.NewNop())

	require.NoError(t, svc.PreloadAllMenus(context.Background()))
	assert.Zero(t, menus.menuCalls)
}

func TestPreloadContinuesAfterCanteenFailure(t *testing.T) {
	menus := &stubMenus{
		canteens: []models.Canteen{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}},
		menuErr:  map[string]error{"m2": errBoom},
	}
	net := &stubNet{online: true}
	svc := NewPreloadService(menus, NewMemoryStore(), net, zap.NewNop())

	require.NoError(t, svc.PreloadAllMenus(context.Background()))
	assert.Equal(t, 3, menus.menuCalls, "a failing canteen must not stop the rest")
	assert.Equal(t, 1, net.updates)
}
