package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	lastConnectionKey = "lastSuccessfulConnection"

	// staleThreshold marks cached data as worth a warning, the critical
	// threshold gates whether offline menu data may still be served at all.
	staleThreshold         = 24 * time.Hour
	criticalStaleThreshold = 72 * time.Hour

	defaultProbeURL = "https://www.google.com/favicon.ico"
	probeTimeout    = 5 * time.Second
)

// Connectivity is what the cache layer and the chatbot need to know about
// the network. NetworkService implements it; tests substitute a stub.
type Connectivity interface {
	Online(ctx context.Context) bool
	UpdateLastConnection() error
	IsStale() bool
	IsCriticallyStale() bool
}

// NetworkService probes connectivity and tracks the timestamp of the last
// successful connection in the store.
type NetworkService struct {
	store    Store
	client   *http.Client
	probeURL string
	log      *zap.Logger
}

func NewNetworkService(store Store, log *zap.Logger) *NetworkService {
	probeURL := os.Getenv("CONNECTIVITY_PROBE_URL")
	if probeURL == "" {
		probeURL = defaultProbeURL
	}
	return &NetworkService{
		store:    store,
		client:   &http.Client{Timeout: probeTimeout},
		probeURL: probeURL,
		log:      log,
	}
}

// Online sends a HEAD probe with a 5 second abort. A successful probe also
// refreshes the connectivity timestamp.
func (s *NetworkService) Online(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, s.probeURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug("connectivity probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		if err := s.UpdateLastConnection(); err != nil {
			s.log.Warn("could not record connection time", zap.Error(err))
		}
		return true
	}
	return false
}

// UpdateLastConnection stores now as the last successful connection time.
func (s *NetworkService) UpdateLastConnection() error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.store.Set(lastConnectionKey, now); err != nil {
		return fmt.Errorf("update connection timestamp: %w", err)
	}
	return nil
}

// LastConnection returns the stored timestamp. ok is false when no
// successful connection has been recorded yet.
func (s *NetworkService) LastConnection() (time.Time, bool) {
	raw, ok, err := s.store.Get(lastConnectionKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		s.log.Warn("unparseable connection timestamp", zap.String("value", raw))
		return time.Time{}, false
	}
	return ts, true
}

// IsStale reports whether the last successful connection is older than 24h.
// No recorded connection counts as stale.
func (s *NetworkService) IsStale() bool {
	return s.olderThan(staleThreshold)
}

// IsCriticallyStale reports whether the last successful connection is older
// than 72h.
func (s *NetworkService) IsCriticallyStale() bool {
	return s.olderThan(criticalStaleThreshold)
}

func (s *NetworkService) olderThan(threshold time.Duration) bool {
	last, ok := s.LastConnection()
	if !ok {
		return true
	}
	return time.Since(last) > threshold
}
