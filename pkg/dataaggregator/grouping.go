package dataaggregator

import (
	"github.com/travigo/sltraffic/pkg/ctdf"
	"golang.org/x/exp/slices"
)

type StopGroups struct {
	Groups []*ctdf.StopGroup

	// Every site referenced by any group, once, in order of first appearance
	SiteIDs []int
}

func BuildStopGroups(routes []ctdf.Route) StopGroups {
	var stopGroups StopGroups
	seenSites := map[int]bool{}

	for _, route := range routes {
		filter := route.Filter()

		group := stopGroups.GetGroup(route.Group)
		if group == nil {
			group = &ctdf.StopGroup{Name: route.Group}
			stopGroups.Groups = append(stopGroups.Groups, group)
		}

		site := group.GetSite(route.SiteID)
		if site == nil {
			site = &ctdf.SiteFilters{SiteID: route.SiteID}
			group.Sites = append(group.Sites, site)
		}
		if site.Label == "" {
			site.Label = route.Label
		}
		if !slices.Contains(site.Filters, filter) {
			site.Filters = append(site.Filters, filter)
		}

		if !seenSites[route.SiteID] {
			seenSites[route.SiteID] = true
			stopGroups.SiteIDs = append(stopGroups.SiteIDs, route.SiteID)
		}
	}

	return stopGroups
}

func (s StopGroups) GetGroup(name string) *ctdf.StopGroup {
	for _, group := range s.Groups {
		if group.Name == name {
			return group
		}
	}

	return nil
}

// OrderedGroups returns the groups named in order first, followed by any other groups in configuration order
func (s StopGroups) OrderedGroups(order []string) []*ctdf.StopGroup {
	if len(order) == 0 {
		return s.Groups
	}

	var ordered []*ctdf.StopGroup
	added := map[string]bool{}

	for _, name := range order {
		group := s.GetGroup(name)
		if group != nil && !added[name] {
			ordered = append(ordered, group)
			added[name] = true
		}
	}

	for _, group := range s.Groups {
		if !added[group.Name] {
			ordered = append(ordered, group)
		}
	}

	return ordered
}

// SiteFilters is the union of every group's filters for a site, which is what gets requested upstream
func (s StopGroups) SiteFilters(siteID int) []ctdf.Filter {
	var filters []ctdf.Filter

	for _, group := range s.Groups {
		site := group.GetSite(siteID)
		if site == nil {
			continue
		}

		for _, filter := range site.Filters {
			if !slices.Contains(filters, filter) {
				filters = append(filters, filter)
			}
		}
	}

	return filters
}
