package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/sltraffic/pkg/ctdf"
	"github.com/travigo/sltraffic/pkg/sl"
)

type alertKey struct {
	Message     string
	Consequence string
}

// CollectAlerts scans every site once and returns each distinct deviation in the order first seen.
// Sites that fail are skipped.
func CollectAlerts(ctx context.Context, client *sl.Client, siteIDs []int) (deviations []ctdf.Deviation, scanned []int) {
	seen := map[alertKey]bool{}
	deviations = []ctdf.Deviation{}

	add := func(deviation ctdf.Deviation) {
		key := alertKey{deviation.Message, deviation.GetConsequence()}
		if deviation.Message == "" || seen[key] {
			return
		}

		seen[key] = true
		deviations = append(deviations, deviation)
	}

	for _, siteID := range siteIDs {
		result := client.Fetch(ctx, siteID)
		if result.Failed() {
			log.Warn().Err(result.Err).Int("site", siteID).Msg("Skipping site")
			continue
		}

		for _, deviation := range result.StopDeviations {
			add(deviation)
		}
		for _, departure := range result.Departures {
			for _, deviation := range departure.Deviations {
				add(deviation)
			}
		}

		scanned = append(scanned, siteID)
	}

	return deviations, scanned
}

func WriteAlerts(w io.Writer, deviations []ctdf.Deviation, prettyPrint bool) error {
	fmt.Fprintf(w, "Found %d unique alerts\n\n", len(deviations))

	if len(deviations) == 0 {
		fmt.Fprintln(w, "No alerts found.")
		return nil
	}

	if prettyPrint {
		_, err := pretty.Fprintf(w, "%# v\n", deviations)
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(deviations)
}
