package ingest

import (
	"context"
	"math/rand"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

// CopernicusClient provides ocean physics data. The real Copernicus
// Marine Service requires credentials; without them the client serves
// location-seeded synthetic data so the rest of the pipeline stays
// exercisable. The seed is derived from the coordinates, making the
// synthetic output deterministic per location.
type CopernicusClient struct {
	username string
	password string
	clock    clockwork.Clock
}

func NewCopernicusClient(username, password string, clock clockwork.Clock) *CopernicusClient {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CopernicusClient{
		username: username,
		password: password,
		clock:    clock,
	}
}

// FetchOcean retrieves the ocean physics observation for a location.
func (c *CopernicusClient) FetchOcean(ctx context.Context, loc marine.Location) (*marine.OceanObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Fetching Copernicus data",
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude),
		zap.Bool("synthetic", c.username == ""),
	)

	// TODO: call the authenticated Copernicus subset API once the
	// credential provisioning is sorted out; synthetic data below
	// mirrors its value ranges.
	rng := rand.New(rand.NewSource(int64(loc.Latitude * loc.Longitude * 100)))

	return &marine.OceanObservation{
		SeaSurfaceHeightM: uniform(rng, -0.5, 0.5),
		CurrentU:          uniform(rng, -0.5, 0.5),
		CurrentV:          uniform(rng, -0.5, 0.5),
		SeaSurfaceTempC:   uniform(rng, 15.0, 26.0),
		SalinityPSU:       uniform(rng, 33.0, 35.0),
		Timestamp:         c.clock.Now().UTC(),
	}, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
