package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultMensaBaseURL = "https://mensa.gregorflachs.de/api"

// MensaAPI is the client for the third-party Berlin canteen API. Every
// request carries the x-api-key header; responses are returned raw so the
// cache layer can persist them verbatim.
type MensaAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewMensaAPI() *MensaAPI {
	baseURL := os.Getenv("MENSA_API_URL")
	if baseURL == "" {
		baseURL = defaultMensaBaseURL
	}
	return &MensaAPI{
		baseURL: baseURL,
		apiKey:  os.Getenv("MENSA_API_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *MensaAPI) get(ctx context.Context, endpoint string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("MENSA_API_KEY not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build mensa API request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call mensa API %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read mensa API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mensa API error %d on %s: %s", resp.StatusCode, endpoint, string(body))
	}
	return body, nil
}

func (s *MensaAPI) FetchCanteens(ctx context.Context) ([]byte, error) {
	return s.get(ctx, "/canteen")
}

func (s *MensaAPI) FetchMeals(ctx context.Context) ([]byte, error) {
	return s.get(ctx, "/meal")
}

func (s *MensaAPI) FetchAdditives(ctx context.Context) ([]byte, error) {
	return s.get(ctx, "/additive")
}

func (s *MensaAPI) FetchBadges(ctx context.Context) ([]byte, error) {
	return s.get(ctx, "/badge")
}

// FetchMenu loads the menu of one canteen starting at the given date
// (YYYY-MM-DD).
func (s *MensaAPI) FetchMenu(ctx context.Context, canteenID, date string) ([]byte, error) {
	endpoint := fmt.Sprintf("/menue?canteenId=%s&startdate=%s",
		url.QueryEscape(canteenID), url.QueryEscape(date))
	return s.get(ctx, endpoint)
}
