package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Berlin; all supported canteens are in the city.
const (
	berlinLatitude  = 52.52
	berlinLongitude = 13.405
)

// WeatherData is the current weather reduced to what the recommendation
// rules need.
type WeatherData struct {
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	Humidity    int    `json:"humidity"`
	Icon        string `json:"icon"`
}

// FoodRecommendation is a weather-derived suggestion: a headline with the
// menu categories and search keywords a client can filter by.
type FoodRecommendation struct {
	Type       string   `json:"type"`
	Emoji      string   `json:"emoji"`
	Reason     string   `json:"reason"`
	Categories []string `json:"categories"`
	Keywords   []string `json:"keywords"`
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Hourly struct {
		RelativeHumidity []int `json:"relativehumidity_2m"`
	} `json:"hourly"`
}

// WeatherService fetches Berlin weather from Open-Meteo and maps it to food
// suggestions. Lookups never fail: when the API is unreachable a plausible
// seasonal mock is served instead.
type WeatherService struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
	rand    *rand.Rand
	loc     *time.Location
	now     func() time.Time
}

func NewWeatherService(log *zap.Logger) *WeatherService {
	baseURL := os.Getenv("WEATHER_API_URL")
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	// The hourly arrays are requested in Berlin time, so they must be
	// indexed in Berlin time too.
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		log.Warn("Europe/Berlin tzdata unavailable, using UTC", zap.Error(err))
		loc = time.UTC
	}
	return &WeatherService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		loc:     loc,
		now:     time.Now,
	}
}

// CurrentWeather returns live data when possible, otherwise a seasonal mock.
func (s *WeatherService) CurrentWeather(ctx context.Context) WeatherData {
	data, err := s.fetch(ctx)
	if err != nil {
		s.log.Warn("weather fetch failed, serving mock data", zap.Error(err))
		return s.mockWeather()
	}
	return data
}

func (s *WeatherService) fetch(ctx context.Context) (WeatherData, error) {
	url := fmt.Sprintf(
		"%s?latitude=%.2f&longitude=%.2f&current_weather=true&hourly=temperature_2m,relativehumidity_2m&timezone=Europe/Berlin&forecast_days=1",
		s.baseURL, berlinLatitude, berlinLongitude,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return WeatherData{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return WeatherData{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WeatherData{}, fmt.Errorf("weather api status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return WeatherData{}, fmt.Errorf("read weather response: %w", err)
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return WeatherData{}, fmt.Errorf("decode weather response: %w", err)
	}

	humidity := 60
	if hour := s.now().In(s.loc).Hour(); hour < len(parsed.Hourly.RelativeHumidity) {
		humidity = parsed.Hourly.RelativeHumidity[hour]
	}

	code := parsed.CurrentWeather.WeatherCode
	condition := conditionFromCode(code)
	return WeatherData{
		Temperature: int(math.Round(parsed.CurrentWeather.Temperature)),
		Condition:   condition,
		Description: descriptionFromCode(code),
		Humidity:    humidity,
		Icon:        iconForCondition(condition),
	}, nil
}

// mockWeather picks a season-appropriate scenario so the recommendation
// stays believable without connectivity.
func (s *WeatherService) mockWeather() WeatherData {
	month := s.now().Month()
	var scenarios []WeatherData
	switch {
	case month == time.December || month <= time.February:
		scenarios = []WeatherData{
			{Temperature: 2, Condition: "Snow", Description: "Leichter Schneefall", Humidity: 85, Icon: "13d"},
			{Temperature: 5, Condition: "Clouds", Description: "Bedeckt", Humidity: 75, Icon: "04d"},
			{Temperature: -1, Condition: "Clear", Description: "Klar und kalt", Humidity: 60, Icon: "01d"},
		}
	case month >= time.June && month <= time.August:
		scenarios = []WeatherData{
			{Temperature: 29, Condition: "Clear", Description: "Sonnig und heiß", Humidity: 45, Icon: "01d"},
			{Temperature: 24, Condition: "Clouds", Description: "Teilweise bewölkt", Humidity: 55, Icon: "02d"},
			{Temperature: 21, Condition: "Rain", Description: "Sommerregen", Humidity: 88, Icon: "10d"},
		}
	default:
		scenarios = []WeatherData{
			{Temperature: 14, Condition: "Clouds", Description: "Wechselhaft", Humidity: 70, Icon: "03d"},
			{Temperature: 18, Condition: "Clear", Description: "Freundlich", Humidity: 55, Icon: "01d"},
			{Temperature: 11, Condition: "Rain", Description: "Leichter Regen", Humidity: 82, Icon: "10d"},
		}
	}
	return scenarios[s.rand.Intn(len(scenarios))]
}

// FoodRecommendationFor applies the temperature/condition ladder. The first
// matching rule wins.
func (s *WeatherService) FoodRecommendationFor(w WeatherData) FoodRecommendation {
	switch {
	case w.Temperature > 28:
		return FoodRecommendation{
			Type:       "Erfrischende Kost",
			Emoji:      "🥗",
			Reason:     fmt.Sprintf("Bei %d°C sind leichte, kühle Gerichte genau richtig.", w.Temperature),
			Categories: []string{"Salate", "Desserts"},
			Keywords:   []string{"salat", "kalt", "eis", "joghurt", "obst"},
		}
	case w.Temperature > 22:
		return FoodRecommendation{
			Type:       "Leichte Gerichte",
			Emoji:      "🍲",
			Reason:     fmt.Sprintf("Angenehme %d°C, nichts zu Schweres.", w.Temperature),
			Categories: []string{"Salate", "Essen", "Vorspeisen"},
			Keywords:   []string{"gemüse", "bowl", "pasta", "fisch"},
		}
	case w.Humidity > 85 && w.Temperature > 20:
		return FoodRecommendation{
			Type:       "Leicht Verdauliches",
			Emoji:      "🥙",
			Reason:     "Bei schwülem Wetter liegt leichtes Essen nicht so schwer im Magen.",
			Categories: []string{"Salate", "Vorspeisen"},
			Keywords:   []string{"leicht", "gemüse", "wrap", "suppe"},
		}
	case w.Temperature < 15 || w.Condition == "Rain" || w.Condition == "Snow":
		return FoodRecommendation{
			Type:       "Wärmende Speisen",
			Emoji:      "🍜",
			Reason:     fmt.Sprintf("Bei %s und %d°C wärmt ein deftiges Gericht am besten.", w.Description, w.Temperature),
			Categories: []string{"Suppen", "Essen"},
			Keywords:   []string{"suppe", "eintopf", "auflauf", "ofen", "heiß"},
		}
	case w.Temperature > 15:
		return FoodRecommendation{
			Type:       "Ausgewogene Kost",
			Emoji:      "🍽️",
			Reason:     fmt.Sprintf("Mildes Wetter mit %d°C, alles passt.", w.Temperature),
			Categories: []string{"Essen", "Salate", "Suppen"},
			Keywords:   []string{"ausgewogen", "gemüse", "vollkorn"},
		}
	default:
		return FoodRecommendation{
			Type:       "Vielfältige Auswahl",
			Emoji:      "🍴",
			Reason:     "Heute ist alles eine gute Wahl.",
			Categories: []string{"Essen"},
			Keywords:   []string{},
		}
	}
}

func conditionFromCode(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 3:
		return "Clouds"
	case code <= 67:
		return "Rain"
	case code <= 77:
		return "Snow"
	case code <= 82:
		return "Rain"
	case code <= 86:
		return "Snow"
	default:
		return "Thunderstorm"
	}
}

func descriptionFromCode(code int) string {
	descriptions := map[int]string{
		0:  "Klarer Himmel",
		1:  "Überwiegend klar",
		2:  "Teilweise bewölkt",
		3:  "Bedeckt",
		45: "Nebel",
		48: "Reifnebel",
		51: "Leichter Nieselregen",
		53: "Nieselregen",
		55: "Starker Nieselregen",
		61: "Leichter Regen",
		63: "Regen",
		65: "Starker Regen",
		71: "Leichter Schneefall",
		73: "Schneefall",
		75: "Starker Schneefall",
		80: "Regenschauer",
		81: "Starke Regenschauer",
		82: "Heftige Regenschauer",
		85: "Schneeschauer",
		95: "Gewitter",
	}
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "Wechselhaft"
}

func iconForCondition(condition string) string {
	switch condition {
	case "Clear":
		return "01d"
	case "Clouds":
		return "03d"
	case "Rain":
		return "10d"
	case "Snow":
		return "13d"
	case "Thunderstorm":
		return "11d"
	default:
		return "02d"
	}
}

// WeatherEmoji maps a condition to a display emoji.
func WeatherEmoji(condition string) string {
	switch condition {
	case "Clear":
		return "☀️"
	case "Clouds":
		return "☁️"
	case "Rain":
		return "🌧️"
	case "Snow":
		return "❄️"
	case "Thunderstorm":
		return "⛈️"
	default:
		return "🌤️"
	}
}
