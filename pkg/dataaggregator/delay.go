package dataaggregator

import (
	"errors"
	"fmt"
	"time"
)

const StatusOnTime = "On Time"

const DisplayTimeFormat = "15:04"

var ErrInvalidTimestamp = errors.New("invalid timestamp")

var localTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC3339 instants ("Z" or an offset) and zone-less
// ISO-8601 local times, which are read in location
func ParseTimestamp(value string, location *time.Location) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}

	if location == nil {
		location = time.UTC
	}

	for _, layout := range localTimestampLayouts {
		if parsed, err := time.ParseInLocation(layout, value, location); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// ComputeDelay returns the status text and the instant to display (expected, else scheduled).
// An error means either timestamp can't be parsed and the departure should be dropped.
func ComputeDelay(scheduled string, expected string, location *time.Location) (status string, displayTime time.Time, err error) {
	if expected == "" {
		expected = scheduled
	}

	scheduledTime, err := ParseTimestamp(scheduled, location)
	if err != nil {
		return "", time.Time{}, err
	}
	expectedTime, err := ParseTimestamp(expected, location)
	if err != nil {
		return "", time.Time{}, err
	}

	return DelayStatus(expectedTime.Sub(scheduledTime)), expectedTime, nil
}

// DelayStatus truncates the delay toward zero, anything within a minute either way is on time
func DelayStatus(delay time.Duration) string {
	delta := delay.Minutes()

	switch {
	case delta > 1:
		return fmt.Sprintf("+%d min", int(delta))
	case delta < -1:
		return fmt.Sprintf("%d min", int(delta))
	default:
		return StatusOnTime
	}
}
