package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOnlineProbeRecordsConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
	}))
	defer server.Close()

	store := NewMemoryStore()
	svc := NewNetworkService(store, zap.NewNop())
	svc.probeURL = server.URL

	assert.True(t, svc.Online(context.Background()))

	_, ok, err := store.Get(lastConnectionKey)
	require.NoError(t, err)
	assert.True(t, ok, "successful probe must stamp the connection time")
	assert.False(t, svc.IsStale())
}

func TestOnlineProbeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewNetworkService(NewMemoryStore(), zap.NewNop())
	svc.probeURL = server.URL

	assert.False(t, svc.Online(context.Background()))
}

func TestStalenessThresholds(t *testing.T) {
	store := NewMemoryStore()
	svc := NewNetworkService(store, zap.NewNop())

	// Nothing recorded yet counts as stale on both levels.
	assert.True(t, svc.IsStale())
	assert.True(t, svc.IsCriticallyStale())

	set := func(age time.Duration) {
		ts := time.Now().UTC().Add(-age).Format(time.RFC3339)
		require.NoError(t, store.Set(lastConnectionKey, ts))
	}

	set(2 * time.Hour)
	assert.False(t, svc.IsStale())
	assert.False(t, svc.IsCriticallyStale())

	set(30 * time.Hour)
	assert.True(t, svc.IsStale())
	assert.False(t, svc.IsCriticallyStale())

	set(80 * time.Hour)
	assert.True(t, svc.IsStale())
	assert.True(t, svc.IsCriticallyStale())
}

func TestUnparseableTimestampCountsStale(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(lastConnectionKey, "not a timestamp"))
	svc := NewNetworkService(store, zap.NewNop())

	assert.True(t, svc.IsStale())
}
