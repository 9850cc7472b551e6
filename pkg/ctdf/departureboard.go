package ctdf

import (
	"time"
)

type EnrichedDeparture struct {
	LineNumber  string `json:"line_num" groups:"basic,full"`
	Destination string `json:"destination" groups:"basic,full"`
	DisplayTime string `json:"display_time" groups:"basic,full"`
	StatusText  string `json:"status_text" groups:"basic,full"`

	Scheduled    string      `json:"scheduled" groups:"full"`
	Expected     string      `json:"expected,omitempty" groups:"full"`
	StopAreaName string      `json:"stop_area,omitempty" groups:"full"`
	Deviations   []Deviation `json:"deviations,omitempty" groups:"full"`

	// Expected time if present, otherwise scheduled
	EffectiveTime time.Time `json:"-"`
}

type Station struct {
	StationName string               `json:"station" groups:"basic,full"`
	Departures  []*EnrichedDeparture `json:"departures" groups:"basic,full"`
}

type AggregatedGroup struct {
	GroupName  string     `json:"group" groups:"basic,full"`
	Stations   []*Station `json:"stations" groups:"basic,full"`
	Deviations []string   `json:"deviations" groups:"basic,full"`
}
