package diagnostics

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/travigo/sltraffic/pkg/ctdf"
	"github.com/travigo/sltraffic/pkg/sl"
	"golang.org/x/exp/slices"
)

type LineDestination struct {
	Line        string
	Destination string
}

func SearchStations(ctx context.Context, client *sl.Client, name string, w io.Writer) error {
	sites, err := client.SearchSites(ctx, name)
	if err != nil {
		return fmt.Errorf("search stations: %w", err)
	}

	if len(sites) == 0 {
		fmt.Fprintln(w, "No matching stations found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d stations:\n", len(sites))
	fmt.Fprintf(w, "%-10s | %s\n", "ID", "Name")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	for _, site := range sites {
		fmt.Fprintf(w, "%-10d | %s\n", site.ID, site.Name)
	}

	return nil
}

func ListLines(ctx context.Context, client *sl.Client, siteID int, w io.Writer) error {
	stopDepartures := client.Fetch(ctx, siteID)
	if stopDepartures.Failed() {
		return fmt.Errorf("fetch site %d: %w", siteID, stopDepartures.Err)
	}

	if len(stopDepartures.Departures) == 0 {
		fmt.Fprintln(w, "No departures found.")
		return nil
	}

	stationName := stopDepartures.StationName
	if stationName == "" {
		stationName = "Unknown Station"
	}

	fmt.Fprintf(w, "Departures from %s (ID: %d):\n", stationName, siteID)
	fmt.Fprintf(w, "%-8s | %s\n", "Line", "Destination")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	for _, lineDestination := range LinesAndDestinations(stopDepartures.Departures) {
		fmt.Fprintf(w, "%-8s | %s\n", lineDestination.Line, lineDestination.Destination)
	}

	return nil
}

// LinesAndDestinations returns the distinct line and destination pairs sorted by line then destination
func LinesAndDestinations(departures []ctdf.Departure) []LineDestination {
	var pairs []LineDestination

	for _, departure := range departures {
		if departure.LineNumber == "" || departure.Destination == "" {
			continue
		}

		pair := LineDestination{departure.LineNumber, departure.Destination}
		if !slices.Contains(pairs, pair) {
			pairs = append(pairs, pair)
		}
	}

	slices.SortFunc(pairs, func(a, b LineDestination) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Destination, b.Destination))
	})

	return pairs
}
