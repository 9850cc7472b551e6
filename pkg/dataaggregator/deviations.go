package dataaggregator

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/travigo/sltraffic/pkg/ctdf"
	"golang.org/x/exp/slices"
)

// DeviationAggregator merges deviations sharing a message. Built fresh for every group
// so affected lines never leak from one group into another.
type DeviationAggregator struct {
	order   []string
	records map[string]*deviationRecord
}

type deviationRecord struct {
	consequence     string
	importanceLevel int
	lines           map[string]bool
}

func NewDeviationAggregator() *DeviationAggregator {
	return &DeviationAggregator{
		records: map[string]*deviationRecord{},
	}
}

// Add records a deviation, lines being the lines it applies to on top of its own AffectedLines.
// Stop level deviations carry no lines.
func (a *DeviationAggregator) Add(deviation ctdf.Deviation, lines ...string) {
	if deviation.Message == "" {
		return
	}

	record, exists := a.records[deviation.Message]
	if !exists {
		record = &deviationRecord{
			consequence:     deviation.GetConsequence(),
			importanceLevel: deviation.ImportanceLevel,
			lines:           map[string]bool{},
		}
		a.records[deviation.Message] = record
		a.order = append(a.order, deviation.Message)
	}

	for _, affected := range [][]string{deviation.AffectedLines, lines} {
		for _, line := range affected {
			if line != "" {
				record.lines[line] = true
			}
		}
	}
}

// Deviations returns new values in first-seen order
func (a *DeviationAggregator) Deviations() []ctdf.Deviation {
	deviations := make([]ctdf.Deviation, 0, len(a.order))

	for _, message := range a.order {
		record := a.records[message]

		var lines []string
		for line := range record.lines {
			lines = append(lines, line)
		}
		SortLines(lines)

		deviations = append(deviations, ctdf.Deviation{
			Message:         message,
			Consequence:     record.consequence,
			ImportanceLevel: record.importanceLevel,
			AffectedLines:   lines,
		})
	}

	return deviations
}

func (a *DeviationAggregator) Render() []string {
	rendered := []string{}

	for _, deviation := range a.Deviations() {
		rendered = append(rendered, FormatDeviation(deviation))
	}

	return rendered
}

func FormatDeviation(deviation ctdf.Deviation) string {
	if len(deviation.AffectedLines) > 0 {
		return fmt.Sprintf("Line %s: [%s] %s", strings.Join(deviation.AffectedLines, ", "), deviation.GetConsequence(), deviation.Message)
	}

	return fmt.Sprintf("[%s] %s", deviation.GetConsequence(), deviation.Message)
}

// SortLines orders by length then lexicographically, so "4" < "30" < "176" without parsing ids like "17X"
func SortLines(lines []string) {
	slices.SortFunc(lines, func(a, b string) int {
		if len(a) != len(b) {
			return cmp.Compare(len(a), len(b))
		}

		return strings.Compare(a, b)
	})
}
