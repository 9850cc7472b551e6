package sl

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Site struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// parseSites handles both a bare list and a {"sites": [...]} wrapper
func parseSites(body []byte) ([]Site, error) {
	var sites []Site

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &sites)
		return sites, err
	}

	var wrapped struct {
		Sites []Site `json:"sites"`
	}
	err := json.Unmarshal(trimmed, &wrapped)

	return wrapped.Sites, err
}

// The API does not always filter strictly by name so apply it again locally
func filterSites(sites []Site, name string) []Site {
	name = strings.ToLower(name)

	var filtered []Site
	for _, site := range sites {
		if site.ID != 0 && site.Name != "" && strings.Contains(strings.ToLower(site.Name), name) {
			filtered = append(filtered, site)
		}
	}

	return filtered
}
