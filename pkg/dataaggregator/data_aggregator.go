package dataaggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/sltraffic/pkg/config"
	"github.com/travigo/sltraffic/pkg/ctdf"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"
)

const DefaultFailureRetryInterval = time.Second

// Aggregator runs aggregation cycles over the configured routes and owns the result cache
type Aggregator struct {
	Config    ConfigSource
	NewSource SourceFactory
	Cache     *ResultCache

	// First validity given to a result where every site failed. Doubles on each
	// consecutive failed cycle up to the cache TTL.
	FailureRetryInterval time.Duration

	refresh singleflight.Group

	failureBackoffMutex sync.Mutex
	failureBackoff      *backoff.ExponentialBackOff
}

func NewAggregator(configSource ConfigSource, newSource SourceFactory) *Aggregator {
	return &Aggregator{
		Config:               configSource,
		NewSource:            newSource,
		Cache:                NewResultCache(time.Now),
		FailureRetryInterval: DefaultFailureRetryInterval,
	}
}

// Aggregate returns the aggregated departure groups, from cache when fresh.
// Concurrent callers missing the cache share a single refresh. It never fails, at worst the
// result is empty or missing the sites that could not be fetched.
func (a *Aggregator) Aggregate(ctx context.Context) []*ctdf.AggregatedGroup {
	if payload, ok := a.cached(a.Config.Current()); ok {
		return payload
	}

	// Once the cache is stale the cycle runs to completion even if this caller goes away
	cycleContext := context.WithoutCancel(ctx)

	result, _, shared := a.refresh.Do("aggregate", func() (interface{}, error) {
		settings := a.Config.Current()

		// A refresh may have finished between the first check and acquiring the flight
		if payload, ok := a.cached(settings); ok {
			return payload, nil
		}

		return a.runCycle(cycleContext, settings), nil
	})

	if shared {
		log.Debug().Msg("Joined in-flight aggregation")
	}

	return result.([]*ctdf.AggregatedGroup)
}

func (a *Aggregator) cached(settings *config.Settings) ([]*ctdf.AggregatedGroup, bool) {
	// Generations only grow, an entry from a newer one belongs to a caller with fresher settings
	if a.Cache.Invalidate(settings.Generation) {
		log.Info().
			Uint64("generation", settings.Generation).
			Msg("Configuration changed, dropped cached departures")
	}

	return a.Cache.Get(settings.CacheTTL, settings.Generation)
}

func (a *Aggregator) runCycle(ctx context.Context, settings *config.Settings) []*ctdf.AggregatedGroup {
	startTime := time.Now()

	stopGroups := BuildStopGroups(settings.Routes)
	results := a.fetchSites(ctx, settings, stopGroups)
	payload := BuildAggregatedGroups(stopGroups, results, settings)

	failed := 0
	for _, result := range results {
		if result.Failed() {
			failed++
		}
	}

	var validity time.Duration
	if len(stopGroups.SiteIDs) > 0 && failed == len(stopGroups.SiteIDs) {
		validity = a.nextFailureValidity(settings.CacheTTL)

		log.Warn().
			Int("sites", len(stopGroups.SiteIDs)).
			Str("retry", validity.String()).
			Msg("Every site fetch failed")
	} else {
		a.resetFailureBackoff()
	}

	a.Cache.Put(CacheEntry{
		Payload:    payload,
		ValidFor:   validity,
		Generation: settings.Generation,
	})

	log.Info().
		Int("sites", len(stopGroups.SiteIDs)).
		Int("failed", failed).
		Int("groups", len(payload)).
		Str("length", time.Since(startTime).String()).
		Msg("Aggregated departures")

	return payload
}

// fetchSites fetches every site once concurrently, keyed by site id
func (a *Aggregator) fetchSites(ctx context.Context, settings *config.Settings, stopGroups StopGroups) map[int]ctdf.StopDepartures {
	results := map[int]ctdf.StopDepartures{}
	siteIDs := stopGroups.SiteIDs
	if len(siteIDs) == 0 {
		return results
	}

	source := a.NewSource(settings)

	p := pool.NewWithResults[ctdf.StopDepartures]()
	p = p.WithMaxGoroutines(max(settings.FetchConcurrency, 1))

	for _, siteID := range siteIDs {
		log.Debug().
			Int("site", siteID).
			Interface("filters", stopGroups.SiteFilters(siteID)).
			Msg("Requesting site departures")

		p.Go(func() (result ctdf.StopDepartures) {
			defer func() {
				if recovered := recover(); recovered != nil {
					log.Error().Int("site", siteID).Interface("panic", recovered).Msg("Departure source panicked")
					result = ctdf.StopDepartures{SiteID: siteID, Err: fmt.Errorf("departure source panicked: %v", recovered)}
				}
			}()

			result = source.Fetch(ctx, siteID)
			result.SiteID = siteID

			return result
		})
	}

	for _, result := range p.Wait() {
		results[result.SiteID] = result
	}

	return results
}

// BuildAggregatedGroups filters, enriches, sorts and truncates the fetched departures for every group.
// Stations without departures and groups without stations are left out.
func BuildAggregatedGroups(stopGroups StopGroups, results map[int]ctdf.StopDepartures, settings *config.Settings) []*ctdf.AggregatedGroup {
	aggregated := []*ctdf.AggregatedGroup{}

	for _, group := range stopGroups.OrderedGroups(settings.GroupOrder) {
		deviations := NewDeviationAggregator()
		aggregatedGroup := &ctdf.AggregatedGroup{
			GroupName: group.Name,
		}

		for _, site := range group.Sites {
			result := results[site.SiteID]

			departures := enrichDepartures(group.Name, site, result.Departures, settings)
			if len(departures) == 0 {
				continue
			}

			stationName := site.Label
			if stationName == "" {
				stationName = result.StationName
			}
			if stationName == "" {
				stationName = fmt.Sprintf("Site %d", site.SiteID)
			}

			for _, deviation := range result.StopDeviations {
				deviations.Add(deviation)
			}
			for _, departure := range departures {
				for _, deviation := range departure.Deviations {
					deviations.Add(deviation, departure.LineNumber)
				}
			}

			aggregatedGroup.Stations = append(aggregatedGroup.Stations, &ctdf.Station{
				StationName: stationName,
				Departures:  departures,
			})
		}

		if len(aggregatedGroup.Stations) == 0 {
			continue
		}

		aggregatedGroup.Deviations = deviations.Render()
		aggregated = append(aggregated, aggregatedGroup)
	}

	return aggregated
}

func enrichDepartures(groupName string, site *ctdf.SiteFilters, departures []ctdf.Departure, settings *config.Settings) []*ctdf.EnrichedDeparture {
	var enriched []*ctdf.EnrichedDeparture

	for _, departure := range departures {
		if !Matches(departure.LineNumber, departure.Destination, site.Filters) {
			continue
		}

		status, displayTime, err := ComputeDelay(departure.Scheduled, departure.Expected, settings.Location)
		if err != nil {
			log.Warn().
				Err(err).
				Str("group", groupName).
				Int("site", site.SiteID).
				Str("line", departure.LineNumber).
				Str("destination", departure.Destination).
				Msg("Dropping departure with unparseable time")
			continue
		}

		enrichedDeparture := &ctdf.EnrichedDeparture{}
		if err := copier.CopyWithOption(enrichedDeparture, &departure, copier.Option{DeepCopy: true}); err != nil {
			log.Error().Err(err).Int("site", site.SiteID).Msg("Failed to copy departure")
			continue
		}
		enrichedDeparture.DisplayTime = displayTime.Format(DisplayTimeFormat)
		enrichedDeparture.StatusText = status
		enrichedDeparture.EffectiveTime = displayTime

		enriched = append(enriched, enrichedDeparture)
	}

	slices.SortStableFunc(enriched, func(a, b *ctdf.EnrichedDeparture) int {
		return a.EffectiveTime.Compare(b.EffectiveTime)
	})

	if settings.MaxDepartures > 0 && len(enriched) > settings.MaxDepartures {
		enriched = enriched[:settings.MaxDepartures]
	}

	return enriched
}

func (a *Aggregator) nextFailureValidity(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}

	a.failureBackoffMutex.Lock()
	defer a.failureBackoffMutex.Unlock()

	if a.failureBackoff == nil {
		initialInterval := a.FailureRetryInterval
		if initialInterval <= 0 {
			initialInterval = DefaultFailureRetryInterval
		}

		a.failureBackoff = backoff.NewExponentialBackOff()
		a.failureBackoff.InitialInterval = initialInterval
		a.failureBackoff.RandomizationFactor = 0
		a.failureBackoff.Multiplier = 2
		a.failureBackoff.MaxInterval = ttl
		a.failureBackoff.MaxElapsedTime = 0
		a.failureBackoff.Reset()
	}

	validity := a.failureBackoff.NextBackOff()
	if validity == backoff.Stop || validity > ttl {
		validity = ttl
	}

	return validity
}

func (a *Aggregator) resetFailureBackoff() {
	a.failureBackoffMutex.Lock()
	defer a.failureBackoffMutex.Unlock()

	a.failureBackoff = nil
}
