package dataaggregator

import (
	"context"

	"github.com/travigo/sltraffic/pkg/config"
	"github.com/travigo/sltraffic/pkg/ctdf"
)

// DepartureSource fetches everything for one site. Implementations must not return until
// their own timeout elapses and report failures through StopDepartures.Err.
type DepartureSource interface {
	Fetch(ctx context.Context, siteID int) ctdf.StopDepartures
}

// SourceFactory builds the DepartureSource for one cycle from that cycle's settings
type SourceFactory func(settings *config.Settings) DepartureSource

type ConfigSource interface {
	Current() *config.Settings
}
