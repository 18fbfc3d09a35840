package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
	"github.com/KillMonga130/AI-agent-aws/pkg/retry"
)

// OpenMeteoClient fetches marine weather from the Open-Meteo marine
// API (free, no auth required).
type OpenMeteoClient struct {
	baseURL      string
	forecastDays int
	httpClient   *http.Client
	retryConfig  retry.Config
	clock        clockwork.Clock
}

type openMeteoResponse struct {
	Current struct {
		WaveHeight    *float64 `json:"wave_height"`
		WaveDirection *float64 `json:"wave_direction"`
		WavePeriod    *float64 `json:"wave_period"`
		WindSpeed     *float64 `json:"wind_speed"`
		WindDirection *float64 `json:"wind_direction"`
		Visibility    *float64 `json:"visibility"`
	} `json:"current"`
}

func NewOpenMeteoClient(baseURL string, forecastDays, timeoutSec int, clock clockwork.Clock) *OpenMeteoClient {
	if forecastDays <= 0 || forecastDays > 7 {
		forecastDays = 5
	}
	if timeoutSec <= 0 {
		timeoutSec = 30
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	retryConfig := retry.DefaultConfig()
	retryConfig.Logger = logger.GetLogger()

	return &OpenMeteoClient{
		baseURL:      baseURL,
		forecastDays: forecastDays,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		retryConfig: retryConfig,
		clock:       clock,
	}
}

// FetchWeather retrieves the current marine weather observation for a
// location. Missing fields in the upstream response fall back to calm
// defaults, matching the upstream contract of sparse "current" blocks.
func (c *OpenMeteoClient) FetchWeather(ctx context.Context, loc marine.Location) (*marine.WeatherObservation, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%v", loc.Latitude))
	params.Set("longitude", fmt.Sprintf("%v", loc.Longitude))
	params.Set("current", "wave_height,wave_direction,wave_period,wind_speed,wind_direction,visibility")
	params.Set("forecast_days", fmt.Sprintf("%d", c.forecastDays))
	params.Set("timezone", "UTC")

	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	logger.Debug("Fetching Open-Meteo data",
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude),
	)

	parsed, err := retry.DoWithResult(ctx, c.retryConfig, func() (openMeteoResponse, error) {
		return c.get(ctx, requestURL)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open-meteo data: %w", err)
	}

	cur := parsed.Current
	return &marine.WeatherObservation{
		WaveHeightM:      floatOr(cur.WaveHeight, 0.5),
		WaveDirectionDeg: floatOr(cur.WaveDirection, 180.0),
		WavePeriodS:      floatOr(cur.WavePeriod, 5.0),
		WindSpeedKn:      floatOr(cur.WindSpeed, 10.0),
		WindDirectionDeg: floatOr(cur.WindDirection, 270.0),
		VisibilityNM:     floatOr(cur.Visibility, 10.0),
		Timestamp:        c.clock.Now().UTC(),
	}, nil
}

func (c *OpenMeteoClient) get(ctx context.Context, requestURL string) (openMeteoResponse, error) {
	var parsed openMeteoResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return parsed, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return parsed, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parsed, fmt.Errorf("open-meteo returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return parsed, fmt.Errorf("failed to decode response: %w", err)
	}

	return parsed, nil
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
