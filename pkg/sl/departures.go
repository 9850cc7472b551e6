package sl

import (
	"bytes"
	"encoding/json"

	"github.com/travigo/sltraffic/pkg/ctdf"
)

const unknownDestination = "Unknown"

type departuresResponse struct {
	Departures     []departure `json:"departures"`
	StopDeviations []deviation `json:"stop_deviations"`
}

type departure struct {
	Line            json.RawMessage `json:"line"`
	LineDesignation designation     `json:"line_designation"`

	Destination *string `json:"destination"`
	Scheduled   string  `json:"scheduled"`
	Expected    string  `json:"expected"`

	Deviations []deviation `json:"deviations"`

	StopArea *struct {
		Name string `json:"name"`
	} `json:"stop_area"`
}

type deviation struct {
	Message         string `json:"message"`
	Consequence     string `json:"consequence"`
	ImportanceLevel int    `json:"importance_level"`
}

// designation accepts line designations sent as either strings or numbers
type designation string

func (d *designation) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		*d = designation(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*d = designation(number.String())

	return nil
}

// lineDesignation prefers the nested line object and falls back to the flat field
func (d departure) lineDesignation() string {
	trimmed := bytes.TrimSpace(d.Line)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var line struct {
			Designation designation `json:"designation"`
		}
		if err := json.Unmarshal(trimmed, &line); err == nil {
			return string(line.Designation)
		}
	}

	return string(d.LineDesignation)
}

func (d departure) toCTDF() ctdf.Departure {
	destination := unknownDestination
	if d.Destination != nil {
		destination = *d.Destination
	}

	converted := ctdf.Departure{
		LineNumber:  d.lineDesignation(),
		Destination: destination,
		Scheduled:   d.Scheduled,
		Expected:    d.Expected,
		Deviations:  convertDeviations(d.Deviations),
	}
	if d.StopArea != nil {
		converted.StopAreaName = d.StopArea.Name
	}

	return converted
}

func convertDeviations(deviations []deviation) []ctdf.Deviation {
	var converted []ctdf.Deviation

	for _, item := range deviations {
		converted = append(converted, ctdf.Deviation{
			Message:         item.Message,
			Consequence:     item.Consequence,
			ImportanceLevel: item.ImportanceLevel,
		})
	}

	return converted
}

func parseDepartures(body []byte) (ctdf.StopDepartures, error) {
	var response departuresResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ctdf.StopDepartures{}, err
	}

	stopDepartures := ctdf.StopDepartures{
		StopDeviations: convertDeviations(response.StopDeviations),
	}

	for _, item := range response.Departures {
		stopDepartures.Departures = append(stopDepartures.Departures, item.toCTDF())
	}

	if len(stopDepartures.Departures) > 0 {
		stopDepartures.StationName = stopDepartures.Departures[0].StopAreaName
	}

	return stopDepartures, nil
}
