// Package ingest fetches and normalizes weather + ocean measurements
// for a location.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/internal/metrics"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

type WeatherSource interface {
	FetchWeather(ctx context.Context, loc marine.Location) (*marine.WeatherObservation, error)
}

type OceanSource interface {
	FetchOcean(ctx context.Context, loc marine.Location) (*marine.OceanObservation, error)
}

type AuditStore interface {
	Put(ctx context.Context, key string, value interface{}) error
}

// Ingestor collects measurements from both sources concurrently and
// joins the results. One failed source still yields a usable partial
// measurement set; only when both sources fail does ingestion report
// an error, which is fatal to the query.
type Ingestor struct {
	weather WeatherSource
	ocean   OceanSource
	audit   AuditStore
	clock   clockwork.Clock
}

func NewIngestor(weather WeatherSource, ocean OceanSource, audit AuditStore, clock clockwork.Clock) *Ingestor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ingestor{
		weather: weather,
		ocean:   ocean,
		audit:   audit,
		clock:   clock,
	}
}

// Fetch gathers weather and ocean data for the location.
func (i *Ingestor) Fetch(ctx context.Context, loc marine.Location) (marine.Measurements, error) {
	var (
		wg         sync.WaitGroup
		weather    *marine.WeatherObservation
		ocean      *marine.OceanObservation
		weatherErr error
		oceanErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		weather, weatherErr = i.weather.FetchWeather(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		ocean, oceanErr = i.ocean.FetchOcean(ctx, loc)
	}()
	wg.Wait()

	if weatherErr != nil {
		logger.Warn("Weather fetch failed",
			zap.Error(weatherErr),
			zap.String("location", loc.String()),
		)
		metrics.IngestSourceFailures.WithLabelValues("weather").Inc()
		weather = nil
	}
	if oceanErr != nil {
		logger.Warn("Ocean fetch failed",
			zap.Error(oceanErr),
			zap.String("location", loc.String()),
		)
		metrics.IngestSourceFailures.WithLabelValues("ocean").Inc()
		ocean = nil
	}

	if weather == nil && ocean == nil {
		return marine.Measurements{}, fmt.Errorf("all data sources failed: weather: %v, ocean: %v", weatherErr, oceanErr)
	}

	m := marine.Measurements{
		Location:  loc,
		Weather:   weather,
		Ocean:     ocean,
		Timestamp: i.clock.Now().UTC(),
	}

	i.snapshot(ctx, m)

	logger.Info("Data ingestion completed",
		zap.String("location", loc.String()),
		zap.Bool("weather_available", weather != nil),
		zap.Bool("ocean_available", ocean != nil),
	)

	return m, nil
}

// snapshot stores the raw measurement set for the audit trail.
func (i *Ingestor) snapshot(ctx context.Context, m marine.Measurements) {
	if i.audit == nil {
		return
	}

	key := fmt.Sprintf("raw/%v_%v/%s",
		m.Location.Latitude, m.Location.Longitude, m.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	if err := i.audit.Put(ctx, key, m); err != nil {
		logger.Warn("Failed to persist ingestion snapshot",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}
