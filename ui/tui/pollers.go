package tui

import (
	"context"
	"log"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/config"
	"aqidash/internal/fallback"
	"aqidash/internal/poller"
	"aqidash/internal/recorder"

	tea "github.com/charmbracelet/bubbletea"
)

// Feeds bundles everything the TUI needs to drive its data pipelines.
// Recorder may be nil when history persistence is disabled.
type Feeds struct {
	Client   *api.Client
	Fallback *fallback.Generator
	Recorder *recorder.Recorder
	Config   config.Config
	Logger   *log.Logger
}

// PollerSet owns one poller per backend feed. Each poller delivers its
// updates to the Bubble Tea program through send, so the UI thread never
// blocks on the network.
type PollerSet struct {
	Current  *poller.Poller[*api.CurrentAQI]
	Stations *poller.Poller[[]api.Station]
	Alerts   *poller.Poller[*api.AlertsFeed]
	Forecast *poller.Poller[*api.Forecast]
}

func NewPollerSet(f Feeds, send func(tea.Msg)) *PollerSet {
	pollCfg := func(interval time.Duration) poller.Config {
		return poller.Config{
			Interval: interval,
			Timeout:  f.Config.RequestTimeout(),
			FreshFor: f.Config.FreshFor(),
		}
	}

	current := poller.New("current-aqi", pollCfg(f.Config.CurrentInterval()),
		f.Client.CurrentAQI,
		f.Fallback.CurrentAQI,
		func(u poller.Update[*api.CurrentAQI]) {
			if f.Recorder != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				if err := f.Recorder.Record(ctx, u); err != nil {
					f.Logger.Printf("recording reading failed: %v", err)
				}
				cancel()
			}
			send(CurrentMsg(u))
		},
		f.Logger)

	stations := poller.New("stations", pollCfg(f.Config.StationsInterval()),
		f.Client.Stations,
		f.Fallback.Stations,
		func(u poller.Update[[]api.Station]) { send(StationsMsg(u)) },
		f.Logger)

	alerts := poller.New("alerts", pollCfg(f.Config.AlertsInterval()),
		f.Client.RealtimeAlerts,
		f.Fallback.Alerts,
		func(u poller.Update[*api.AlertsFeed]) { send(AlertsMsg(u)) },
		f.Logger)

	forecast := poller.New("forecast", pollCfg(f.Config.ForecastInterval()),
		func(ctx context.Context) (*api.Forecast, error) {
			return f.Client.AdvancedForecast(ctx, "all", f.Config.Location.Area)
		},
		f.Fallback.Forecast,
		func(u poller.Update[*api.Forecast]) {
			// The forecast feed knows the dominant emission source; hand it
			// to the recorder for graph attribution.
			if f.Recorder != nil && u.Snapshot != nil && u.Snapshot.AIInsights.DominantSource != "" {
				f.Recorder.SetDominantSource(u.Snapshot.AIInsights.DominantSource)
			}
			send(ForecastMsg(u))
		},
		f.Logger)

	return &PollerSet{
		Current:  current,
		Stations: stations,
		Alerts:   alerts,
		Forecast: forecast,
	}
}

func (ps *PollerSet) StartAll(ctx context.Context) {
	ps.Current.Start(ctx)
	ps.Stations.Start(ctx)
	ps.Alerts.Start(ctx)
	ps.Forecast.Start(ctx)
}

func (ps *PollerSet) StopAll() {
	ps.Current.Stop()
	ps.Stations.Stop()
	ps.Alerts.Stop()
	ps.Forecast.Stop()
}

// PauseAll suspends periodic fetching while the terminal is unfocused.
// In-flight requests are left to finish.
func (ps *PollerSet) PauseAll() {
	ps.Current.Pause()
	ps.Stations.Pause()
	ps.Alerts.Pause()
	ps.Forecast.Pause()
}

// ResumeAll restarts fetching; each feed refreshes immediately rather
// than waiting out the current tick.
func (ps *PollerSet) ResumeAll() {
	ps.Current.Resume()
	ps.Stations.Resume()
	ps.Alerts.Resume()
	ps.Forecast.Resume()
}
