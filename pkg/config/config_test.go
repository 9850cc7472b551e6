package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/sltraffic/pkg/ctdf"
)

const legacyConfig = `{
  "api_base_url": "https://transport.integration.sl.se/v1/sites/",
  "api_timeout": 5,
  "monitored_routes": [
    {"group": "TO WORK", "id": 1555, "line": "30", "dest": "Solna", "label": null},
    {"group": "FROM WORK", "id": 9507, "line": 41, "dest": "Södertälje centrum", "label": "Odenplan"}
  ]
}`

func TestParseLegacyJSON(t *testing.T) {
	settings, err := Parse([]byte(legacyConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://transport.integration.sl.se/v1/sites", settings.APIBaseURL)
	assert.Equal(t, 5*time.Second, settings.APITimeout)
	assert.Equal(t, DefaultCacheTTL, settings.CacheTTL)
	assert.Equal(t, DefaultMaxDepartures, settings.MaxDepartures)
	assert.Equal(t, 60, settings.ForecastMinutes())
	assert.Equal(t, DefaultTimezone, settings.Location.String())

	assert.Equal(t, []ctdf.Route{
		{Group: "TO WORK", SiteID: 1555, Line: "30", Destination: "solna"},
		{Group: "FROM WORK", SiteID: 9507, Line: "41", Destination: "södertälje centrum", Label: "Odenplan"},
	}, settings.Routes)
}

func TestParseYAML(t *testing.T) {
	settings, err := Parse([]byte(`
cache_ttl: 0
max_departures: 2
group_order: ["FROM WORK", "TO WORK"]
forecast: PT30M
timezone: UTC
fetch_concurrency: 2
monitored_routes:
  - group: TO WORK
    id: 9189
    line: "18"
    dest: Alvik
`))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), settings.CacheTTL)
	assert.Equal(t, 2, settings.MaxDepartures)
	assert.Equal(t, []string{"FROM WORK", "TO WORK"}, settings.GroupOrder)
	assert.Equal(t, 30, settings.ForecastMinutes())
	assert.Equal(t, time.UTC, settings.Location)
	assert.Equal(t, 2, settings.FetchConcurrency)
	assert.Len(t, settings.Routes, 1)
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":        `{"monitored_routes": [`,
		"missing group": `{"monitored_routes": [{"id": 1, "line": "30", "dest": "Solna"}]}`,
		"bad id":        `{"monitored_routes": [{"group": "A", "id": -4, "line": "30", "dest": "Solna"}]}`,
		"bad forecast":  `{"forecast": "sixty"}`,
		"bad timezone":  `{"timezone": "Nowhere/Special"}`,
		"bad url":       `{"api_base_url": "not a url"}`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "config.json"))
	assert.ErrorIs(t, err, ErrConfigUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProviderKeepsLastValidConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyConfig), 0o644))

	provider := NewProvider(path, 0)
	first := provider.Current()
	assert.Equal(t, uint64(1), first.Generation)
	assert.Len(t, first.Routes, 2)

	// Unchanged file is not reloaded
	assert.False(t, provider.Reload())

	require.NoError(t, os.WriteFile(path, []byte(`{"monitored_routes": [`), 0o644))
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Minute)))
	assert.False(t, provider.Reload())
	assert.Same(t, first, provider.Current())

	require.NoError(t, os.Remove(path))
	assert.False(t, provider.Reload())
	assert.Same(t, first, provider.Current())

	require.NoError(t, os.WriteFile(path, []byte(`{"monitored_routes": []}`), 0o644))
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(2*time.Minute)))
	assert.True(t, provider.Reload())
	assert.Equal(t, uint64(2), provider.Current().Generation)
	assert.Empty(t, provider.Current().Routes)
}

func TestProviderMissingFileStartsEmpty(t *testing.T) {
	provider := NewProvider(filepath.Join(t.TempDir(), "missing.yaml"), 0)

	settings := provider.Current()
	assert.Empty(t, settings.Routes)
	assert.Equal(t, uint64(0), settings.Generation)
	assert.Equal(t, DefaultAPIBaseURL, settings.APIBaseURL)
}
