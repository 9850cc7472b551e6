package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/sltraffic/pkg/ctdf"
	"gopkg.in/yaml.v3"

	_ "time/tzdata"
)

const (
	DefaultAPIBaseURL       = "https://transport.integration.sl.se/v1/sites"
	DefaultAPITimeout       = 10 * time.Second
	DefaultCacheTTL         = 8 * time.Second
	DefaultMaxDepartures    = 10
	DefaultForecast         = "PT60M"
	DefaultTimezone         = "Europe/Stockholm"
	DefaultFetchConcurrency = 8
)

var (
	ErrConfigUnreadable = errors.New("configuration unreadable")
	ErrConfigInvalid    = errors.New("configuration invalid")
)

// File mirrors the on-disk configuration. Both YAML and the original config.json layout are accepted.
type File struct {
	MonitoredRoutes []RouteEntry `yaml:"monitored_routes" validate:"dive"`

	APIBaseURL       string   `yaml:"api_base_url" validate:"omitempty,url"`
	APITimeout       float64  `yaml:"api_timeout" validate:"gte=0"`
	CacheTTL         *float64 `yaml:"cache_ttl" validate:"omitempty,gte=0"`
	MaxDepartures    int      `yaml:"max_departures" validate:"gte=0"`
	GroupOrder       []string `yaml:"group_order" validate:"dive,required"`
	Forecast         string   `yaml:"forecast"`
	Timezone         string   `yaml:"timezone"`
	FetchConcurrency int      `yaml:"fetch_concurrency" validate:"gte=0"`
}

type RouteEntry struct {
	Group string  `yaml:"group" validate:"required"`
	ID    int     `yaml:"id" validate:"required,gt=0"`
	Line  string  `yaml:"line" validate:"required"`
	Dest  string  `yaml:"dest" validate:"required"`
	Label *string `yaml:"label"`
}

// Settings is the parsed, immutable view of a configuration handed to the aggregator
type Settings struct {
	Routes []ctdf.Route

	APIBaseURL       string
	APITimeout       time.Duration
	CacheTTL         time.Duration
	MaxDepartures    int
	GroupOrder       []string
	ForecastWindow   time.Duration
	Location         *time.Location
	FetchConcurrency int

	// Incremented by the Provider on every successful load
	Generation uint64
}

func Default() *Settings {
	location, _ := time.LoadLocation(DefaultTimezone)

	return &Settings{
		APIBaseURL:       DefaultAPIBaseURL,
		APITimeout:       DefaultAPITimeout,
		CacheTTL:         DefaultCacheTTL,
		MaxDepartures:    DefaultMaxDepartures,
		ForecastWindow:   60 * time.Minute,
		Location:         location,
		FetchConcurrency: DefaultFetchConcurrency,
	}
}

// ForecastMinutes is the forecast window as sent to the departures API
func (s *Settings) ForecastMinutes() int {
	return int(s.ForecastWindow / time.Minute)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Parse(data []byte) (*Settings, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	settings := Default()

	if file.APIBaseURL != "" {
		settings.APIBaseURL = strings.TrimRight(file.APIBaseURL, "/")
	}
	if file.APITimeout > 0 {
		settings.APITimeout = seconds(file.APITimeout)
	}
	if file.CacheTTL != nil {
		settings.CacheTTL = seconds(*file.CacheTTL)
	}
	if file.MaxDepartures > 0 {
		settings.MaxDepartures = file.MaxDepartures
	}
	if file.FetchConcurrency > 0 {
		settings.FetchConcurrency = file.FetchConcurrency
	}
	settings.GroupOrder = file.GroupOrder

	forecast := file.Forecast
	if forecast == "" {
		forecast = DefaultForecast
	}
	window, err := parseForecast(forecast)
	if err != nil {
		return nil, fmt.Errorf("%w: forecast %q: %w", ErrConfigInvalid, forecast, err)
	}
	settings.ForecastWindow = window

	if file.Timezone != "" {
		location, err := time.LoadLocation(file.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q: %w", ErrConfigInvalid, file.Timezone, err)
		}
		settings.Location = location
	}

	for _, entry := range file.MonitoredRoutes {
		route := ctdf.Route{
			Group:       entry.Group,
			SiteID:      entry.ID,
			Line:        strings.TrimSpace(entry.Line),
			Destination: strings.ToLower(strings.TrimSpace(entry.Dest)),
		}
		if entry.Label != nil {
			route.Label = *entry.Label
		}

		settings.Routes = append(settings.Routes, route)
	}

	return settings, nil
}

func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigUnreadable, err)
	}

	return Parse(data)
}

func parseForecast(value string) (time.Duration, error) {
	duration, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, err
	}

	reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	window := duration.Shift(reference).Sub(reference)

	if window < time.Minute {
		return 0, errors.New("must be at least one minute")
	}

	return window, nil
}

func seconds(value float64) time.Duration {
	return time.Duration(value * float64(time.Second))
}
