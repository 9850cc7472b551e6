package dataaggregator

import (
	"strings"

	"github.com/travigo/sltraffic/pkg/ctdf"
)

// Matches reports whether any filter has the same line and a destination contained in destination.
// Containment is deliberate as upstream destinations vary ("Södertälje centrum" / "Södertälje C").
func Matches(lineNumber string, destination string, filters []ctdf.Filter) bool {
	destination = strings.ToLower(destination)

	for _, filter := range filters {
		if lineNumber == filter.Line && strings.Contains(destination, strings.ToLower(filter.Destination)) {
			return true
		}
	}

	return false
}
