package state

import (
	"time"

	"aqidash/internal/api"
	"aqidash/internal/flagger"
	"aqidash/internal/poller"
)

type Page int

const (
	PageMenu Page = iota
	PageDashboard
	PageForecast // "Forecast Outlook"
	PageStations // "Monitoring Stations"
	PageHealth   // "Health & Mask Guidance"
	PageConsole  // "Raw Data Feed"
)

// AppState holds the latest snapshot of every feed along with where
// each snapshot came from
type AppState struct {
	Current      *api.CurrentAQI
	CurrentProv  poller.Provenance
	Stations     []api.Station
	StationsProv poller.Provenance
	Alerts       *api.AlertsFeed
	AlertsProv   poller.Provenance
	Forecast     *api.Forecast
	ForecastProv poller.Provenance
	Mask         *api.MaskGuidance
	Routes       *api.SafeRoutes
	Hyperlocal   *api.Hyperlocal
	Flags        *flagger.SnapshotFlags
	LastUpdate   time.Time
	Paused       bool
	Err          error
	ConsoleLogs  []string
	CurrentPage  Page
}
