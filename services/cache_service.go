package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoConnection: offline and nothing cached under the key.
	ErrNoConnection = errors.New("keine Verbindung und keine gespeicherten Daten")
	// ErrStaleData: a cache entry exists but is withheld because the last
	// successful connection is older than the critical threshold.
	ErrStaleData = errors.New("gespeicherte Daten sind zu alt")
)

const menuKeyPrefix = "menu_"

// MenuCacheKey composes the per-canteen-per-date cache key.
func MenuCacheKey(canteenID, date string) string {
	return fmt.Sprintf("%s%s_%s", menuKeyPrefix, canteenID, date)
}

// FetchFunc is a network fetch returning a raw JSON payload.
type FetchFunc func(ctx context.Context) ([]byte, error)

// CacheService makes every external fetch resilient to connectivity loss:
// fresh data always wins when online, the last good cached value substitutes
// when the network fails. Staleness gating for menus lives here and nowhere
// else.
type CacheService struct {
	store Store
	net   Connectivity
	log   *zap.Logger
	group singleflight.Group
}

func NewCacheService(store Store, net Connectivity, log *zap.Logger) *CacheService {
	return &CacheService{store: store, net: net, log: log}
}

// FetchWithCache runs fetch when online and persists the result under key.
// A failed fetch falls back to the cached value if one exists; offline the
// cache is read directly. Concurrent fetches for one key are collapsed.
func (s *CacheService) FetchWithCache(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if !s.net.Online(ctx) {
		cached, ok, err := s.store.Get(key)
		if err == nil && ok {
			return []byte(cached), nil
		}
		return nil, fmt.Errorf("%s: %w", key, ErrNoConnection)
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		data, fetchErr := fetch(ctx)
		if fetchErr != nil {
			cached, ok, getErr := s.store.Get(key)
			if getErr == nil && ok {
				s.log.Warn("fetch failed, serving cached value",
					zap.String("key", key), zap.Error(fetchErr))
				return []byte(cached), nil
			}
			return nil, fetchErr
		}

		if setErr := s.store.Set(key, string(data)); setErr != nil {
			s.log.Warn("could not cache response", zap.String("key", key), zap.Error(setErr))
		}
		if connErr := s.net.UpdateLastConnection(); connErr != nil {
			s.log.Warn("could not record connection time", zap.Error(connErr))
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// FetchMenuWithCache is FetchWithCache for menu_<canteenId>_<date> keys with
// one extra rule: offline, a cached menu is only served while the last
// successful connection is younger than 72h. Beyond that the entry may
// describe a day long past, so the call fails fast with ErrStaleData.
func (s *CacheService) FetchMenuWithCache(ctx context.Context, canteenID, date string, fetch FetchFunc) ([]byte, error) {
	key := MenuCacheKey(canteenID, date)

	if !s.net.Online(ctx) {
		cached, ok, err := s.store.Get(key)
		if err != nil || !ok {
			return nil, fmt.Errorf("%s: %w", key, ErrNoConnection)
		}
		if s.net.IsCriticallyStale() {
			return nil, fmt.Errorf("%s: %w", key, ErrStaleData)
		}
		return []byte(cached), nil
	}

	return s.FetchWithCache(ctx, key, fetch)
}
