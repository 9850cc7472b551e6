package sl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/sltraffic/pkg/config"
	"github.com/travigo/sltraffic/pkg/ctdf"
)

const DefaultUserAgent = "SLTrafficMonitor/1.0"

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Client talks to the SL Transport sites API
type Client struct {
	BaseURL         string
	UserAgent       string
	Timeout         time.Duration
	ForecastMinutes int

	HTTPClient *http.Client
}

func NewClient(httpClient *http.Client, settings *config.Settings) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		BaseURL:         settings.APIBaseURL,
		UserAgent:       DefaultUserAgent,
		Timeout:         settings.APITimeout,
		ForecastMinutes: settings.ForecastMinutes(),
		HTTPClient:      httpClient,
	}
}

// Fetch gets the departures for a single site bounded by the client timeout.
// Failures are logged and returned as an empty result with Err set.
func (c *Client) Fetch(ctx context.Context, siteID int) ctdf.StopDepartures {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	stopDepartures, err := c.GetDepartures(ctx, siteID)
	if err != nil {
		log.Error().
			Err(err).
			Int("site", siteID).
			Str("latency", time.Since(startTime).String()).
			Msg("Failed to fetch site departures")

		return ctdf.StopDepartures{SiteID: siteID, Err: err}
	}

	log.Debug().
		Int("site", siteID).
		Int("departures", len(stopDepartures.Departures)).
		Int("deviations", len(stopDepartures.StopDeviations)).
		Str("latency", time.Since(startTime).String()).
		Msg("Fetched site departures")

	return stopDepartures
}

func (c *Client) GetDepartures(ctx context.Context, siteID int) (ctdf.StopDepartures, error) {
	query := url.Values{}
	if c.ForecastMinutes > 0 {
		query.Set("forecast", strconv.Itoa(c.ForecastMinutes))
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/%d/departures", c.BaseURL, siteID), query)
	if err != nil {
		return ctdf.StopDepartures{}, err
	}

	stopDepartures, err := parseDepartures(body)
	if err != nil {
		return ctdf.StopDepartures{}, fmt.Errorf("decode departures for site %d: %w", siteID, err)
	}
	stopDepartures.SiteID = siteID

	return stopDepartures, nil
}

func (c *Client) SearchSites(ctx context.Context, name string) ([]Site, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("expand", "true")

	body, err := c.get(ctx, c.BaseURL, query)
	if err != nil {
		return nil, err
	}

	sites, err := parseSites(body)
	if err != nil {
		return nil, fmt.Errorf("decode sites: %w", err)
	}

	return filterSites(sites, name), nil
}

func (c *Client) get(ctx context.Context, requestURL string, query url.Values) ([]byte, error) {
	if len(query) > 0 {
		requestURL = fmt.Sprintf("%s?%s", requestURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, req.URL.Path)
	}

	return io.ReadAll(resp.Body)
}
