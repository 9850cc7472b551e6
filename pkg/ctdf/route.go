package ctdf

import "strings"

// Route is a single monitored (site, line, destination) entry from the configuration.
type Route struct {
	Group       string
	SiteID      int
	Line        string
	Destination string // lower case
	Label       string
}

type Filter struct {
	Line        string
	Destination string
}

func (r Route) Filter() Filter {
	return Filter{
		Line:        strings.TrimSpace(r.Line),
		Destination: strings.ToLower(strings.TrimSpace(r.Destination)),
	}
}

// StopGroup is a named display bucket holding the sites it monitors in configuration order
type StopGroup struct {
	Name  string
	Sites []*SiteFilters
}

type SiteFilters struct {
	SiteID  int
	Label   string
	Filters []Filter
}

func (g *StopGroup) GetSite(siteID int) *SiteFilters {
	for _, site := range g.Sites {
		if site.SiteID == siteID {
			return site
		}
	}

	return nil
}
