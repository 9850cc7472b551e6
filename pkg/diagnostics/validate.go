package diagnostics

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/travigo/sltraffic/pkg/ctdf"
	"github.com/travigo/sltraffic/pkg/dataaggregator"
	"github.com/travigo/sltraffic/pkg/sl"
	"github.com/travigo/sltraffic/pkg/util"
)

type RouteStatus string

const (
	RouteStatusOK     RouteStatus = "OK"
	RouteStatusFail   RouteStatus = "FAIL"
	RouteStatusNoData RouteStatus = "NO DATA"
)

// DefaultSitePause spaces out site requests to stay clear of the API rate limits
const DefaultSitePause = 500 * time.Millisecond

type RouteValidation struct {
	Route  ctdf.Route
	Status RouteStatus
	Hints  []string
}

type SiteValidation struct {
	SiteID      int
	StationName string
	Routes      []RouteValidation
	Err         error
}

type ValidationReport struct {
	Sites []SiteValidation

	OK     int
	Failed int
	NoData int
}

// Validate fetches every configured site once and checks each route against the live departures
func Validate(ctx context.Context, client *sl.Client, routes []ctdf.Route, pause time.Duration) ValidationReport {
	var report ValidationReport

	stopGroups := dataaggregator.BuildStopGroups(routes)
	routesBySite := map[int][]ctdf.Route{}
	for _, route := range routes {
		routesBySite[route.SiteID] = append(routesBySite[route.SiteID], route)
	}

	for i, siteID := range stopGroups.SiteIDs {
		if i > 0 && pause > 0 {
			select {
			case <-ctx.Done():
				return report
			case <-time.After(pause):
			}
		}

		site := validateSite(siteID, client.Fetch(ctx, siteID), routesBySite[siteID])

		for _, route := range site.Routes {
			switch route.Status {
			case RouteStatusOK:
				report.OK++
			case RouteStatusFail:
				report.Failed++
			case RouteStatusNoData:
				report.NoData++
			}
		}

		report.Sites = append(report.Sites, site)
	}

	return report
}

func validateSite(siteID int, result ctdf.StopDepartures, routes []ctdf.Route) SiteValidation {
	site := SiteValidation{
		SiteID:      siteID,
		StationName: result.StationName,
		Err:         result.Err,
	}

	for _, route := range routes {
		validation := RouteValidation{Route: route}

		switch {
		case result.Failed():
			validation.Status = RouteStatusFail
			validation.Hints = []string{fmt.Sprintf("API error: %s", result.Err)}
		case len(result.Departures) == 0:
			validation.Status = RouteStatusNoData
		default:
			validation.Status, validation.Hints = validateRoute(route, result.Departures)
		}

		site.Routes = append(site.Routes, validation)
	}

	return site
}

func validateRoute(route ctdf.Route, departures []ctdf.Departure) (RouteStatus, []string) {
	filter := route.Filter()
	filters := []ctdf.Filter{filter}

	var lineDestinations []string
	var availableLines []string

	for _, departure := range departures {
		availableLines = append(availableLines, departure.LineNumber)

		if departure.LineNumber != filter.Line {
			continue
		}
		if dataaggregator.Matches(departure.LineNumber, departure.Destination, filters) {
			return RouteStatusOK, nil
		}

		lineDestinations = append(lineDestinations, departure.Destination)
	}

	if len(lineDestinations) > 0 {
		return RouteStatusFail, []string{
			fmt.Sprintf("Found Line %s but destinations were: %s", route.Line, strings.Join(util.SortedUnique(lineDestinations), ", ")),
			fmt.Sprintf("Configured '%s' must be inside one of those.", route.Destination),
		}
	}

	return RouteStatusFail, []string{
		fmt.Sprintf("Line %s not found in current departures.", route.Line),
		fmt.Sprintf("Available lines: %s", strings.Join(util.SortedUnique(availableLines), ", ")),
	}
}

func (r ValidationReport) Write(w io.Writer) {
	for _, site := range r.Sites {
		fmt.Fprintf(w, "Checking Site ID %d (%d routes)...\n", site.SiteID, len(site.Routes))

		switch {
		case site.Err != nil:
			fmt.Fprintf(w, "  API Error for site %d: %s\n", site.SiteID, site.Err)
		case site.StationName != "":
			fmt.Fprintf(w, "  Station: %s\n", site.StationName)
		}

		for _, route := range site.Routes {
			if route.Status == RouteStatusNoData {
				fmt.Fprintf(w, "  ?    %s | Line %s to %s - %s\n", route.Route.Group, route.Route.Line, route.Route.Destination, route.Status)
				continue
			}

			fmt.Fprintf(w, "  %-4s %s | Line %s to %s\n", route.Status, route.Route.Group, route.Route.Line, route.Route.Destination)
			for _, hint := range route.Hints {
				fmt.Fprintf(w, "       %s\n", hint)
			}
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Summary: %d OK, %d Failed, %d No data\n", r.OK, r.Failed, r.NoData)
}
