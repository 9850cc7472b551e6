package ctdf

// Departure is a single upstream departure record for a site, before any filtering
type Departure struct {
	LineNumber   string
	Destination  string
	Scheduled    string
	Expected     string
	Deviations   []Deviation
	StopAreaName string
}

// StopDepartures is everything fetched for one site in one cycle.
// Err is set when the fetch failed, in which case the rest is empty.
type StopDepartures struct {
	SiteID         int
	StationName    string
	Departures     []Departure
	StopDeviations []Deviation

	Err error
}

func (s StopDepartures) Failed() bool {
	return s.Err != nil
}
