package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CurrentAQI fetches the headline reading for the configured region.
func (c *Client) CurrentAQI(ctx context.Context) (*CurrentAQI, error) {
	var out CurrentAQI
	if err := c.get(ctx, "/api/overview/current-aqi", nil, &out); err != nil {
		return nil, err
	}
	if out.AQI <= 0 {
		return nil, fmt.Errorf("current-aqi: implausible payload (aqi=%v)", out.AQI)
	}
	return &out, nil
}

// Stations fetches the per-station readings table.
func (c *Client) Stations(ctx context.Context) ([]Station, error) {
	var out []Station
	if err := c.get(ctx, "/api/overview/station-data", nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("station-data: empty station list")
	}
	return out, nil
}

// RealtimeAlerts fetches the active pollution alerts feed.
func (c *Client) RealtimeAlerts(ctx context.Context) (*AlertsFeed, error) {
	var out AlertsFeed
	if err := c.get(ctx, "/api/modern/alerts/realtime", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdvancedForecast fetches the AI forecast for the given horizon and
// location. Horizon may be empty for all horizons.
func (c *Client) AdvancedForecast(ctx context.Context, horizon, location string) (*Forecast, error) {
	q := url.Values{}
	if horizon != "" {
		q.Set("horizon", horizon)
	}
	if location != "" {
		q.Set("location", location)
	}
	var out Forecast
	if err := c.get(ctx, "/api/forecasting/advanced-forecast", q, &out); err != nil {
		return nil, err
	}
	if len(out.Forecasts) == 0 {
		return nil, fmt.Errorf("advanced-forecast: no horizons in payload")
	}
	return &out, nil
}

// MaskGuidance fetches mask advice for an AQI value and user profile
// (general, sensitive, athlete, elderly, pregnant, child).
func (c *Client) MaskGuidance(ctx context.Context, aqi int, profile string) (*MaskGuidance, error) {
	q := url.Values{}
	q.Set("aqi", strconv.Itoa(aqi))
	if profile != "" {
		q.Set("profile", profile)
	}
	var out MaskGuidance
	if err := c.get(ctx, "/api/health-guidance/mask-guidance", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SafeRoutes fetches exposure-scored routes. Mode "all" returns every
// travel mode.
func (c *Client) SafeRoutes(ctx context.Context, origin, destination, mode string) (*SafeRoutes, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("mode", mode)
	var out SafeRoutes
	if err := c.get(ctx, "/api/health-guidance/safe-routes", q, &out); err != nil {
		return nil, err
	}
	if len(out.Routes) == 0 {
		return nil, fmt.Errorf("safe-routes: no routes in payload")
	}
	return &out, nil
}

// HyperlocalAQI fetches the interpolated estimate for a coordinate.
func (c *Client) HyperlocalAQI(ctx context.Context, lat, lon, radiusKM float64) (*Hyperlocal, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("radius", strconv.FormatFloat(radiusKM, 'f', 1, 64))
	var out Hyperlocal
	if err := c.get(ctx, "/api/advanced/hyperlocal-aqi", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitReport posts a citizen pollution report. This is the one user
// action that writes to the backend.
func (c *Client) SubmitReport(ctx context.Context, r Report) (*ReportAck, error) {
	var out ReportAck
	if err := c.post(ctx, "/api/citizen-portal/submit-report", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
