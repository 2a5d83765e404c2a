package tui

import (
	"context"
	"fmt"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/flagger"
	"aqidash/internal/poller"
	"aqidash/ui/tui/components"
	"aqidash/ui/tui/state"
	"aqidash/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	feeds          Feeds
	pollers        *PollerSet
	flagSvc        *flagger.FlaggerService
	state          state.AppState
	spinner        spinner.Model
	chart          *components.AQIWidget
	menuCursor     int
	animCursor     float64
	velocity       float64 // Physics velocity
	spring         harmonica.Spring
	consoleScrollY int
	mouseX         int
	mouseY         int
	quitting       bool
	width          int
	height         int
}

// Messages. The feed messages wrap poller updates delivered via
// Program.Send from the apply callbacks.
type AnimateMsg time.Time
type CurrentMsg poller.Update[*api.CurrentAQI]
type StationsMsg poller.Update[[]api.Station]
type AlertsMsg poller.Update[*api.AlertsFeed]
type ForecastMsg poller.Update[*api.Forecast]
type MaskLoadedMsg struct {
	Guidance *api.MaskGuidance
	Err      error
}
type RoutesLoadedMsg struct {
	Routes *api.SafeRoutes
	Err    error
}
type HyperlocalLoadedMsg struct {
	Estimate *api.Hyperlocal
	Err      error
}

func InitialModel(f Feeds) MainModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	chart := components.NewAQIWidget(30, 10)

	// Initialize physics spring for smooth cursor animation
	// Increased frequency (12.0) for faster response and damping (0.9) to prevent overshoot
	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	return MainModel{
		feeds:   f,
		flagSvc: flagger.NewFlaggerService(flagger.DefaultConfig()),
		spinner: s,
		chart:   chart,
		spring:  spring,
		state: state.AppState{
			CurrentPage: state.PageMenu,
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	return tea.Batch(
		m.spinner.Tick,
		animateCmd(),
	)
}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func fetchMaskCmd(f Feeds, aqiValue int, profile string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), f.Config.RequestTimeout())
		defer cancel()
		g, err := f.Client.MaskGuidance(ctx, aqiValue, profile)
		if err != nil {
			return MaskLoadedMsg{Guidance: f.Fallback.MaskGuidance(aqiValue, profile), Err: err}
		}
		return MaskLoadedMsg{Guidance: g}
	}
}

func fetchRoutesCmd(f Feeds) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), f.Config.RequestTimeout())
		defer cancel()
		r, err := f.Client.SafeRoutes(ctx, f.Config.Location.Area, "", "all")
		if err != nil {
			return RoutesLoadedMsg{Routes: f.Fallback.SafeRoutes(f.Config.Location.Area, "", "all"), Err: err}
		}
		return RoutesLoadedMsg{Routes: r}
	}
}

func fetchHyperlocalCmd(f Feeds) tea.Cmd {
	loc := f.Config.Location
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), f.Config.RequestTimeout())
		defer cancel()
		h, err := f.Client.HyperlocalAQI(ctx, loc.Latitude, loc.Longitude, loc.RadiusKM)
		if err != nil {
			return HyperlocalLoadedMsg{Estimate: f.Fallback.Hyperlocal(loc.Latitude, loc.Longitude, loc.RadiusKM), Err: err}
		}
		return HyperlocalLoadedMsg{Estimate: h}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case CurrentMsg:
		return m.handleCurrentMsg(poller.Update[*api.CurrentAQI](msg))

	case StationsMsg:
		u := poller.Update[[]api.Station](msg)
		m.state.Stations = u.Snapshot
		m.state.StationsProv = u.Provenance
		return m, nil

	case AlertsMsg:
		u := poller.Update[*api.AlertsFeed](msg)
		if u.Snapshot != nil {
			m.state.Alerts = u.Snapshot
			m.state.AlertsProv = u.Provenance
			if u.Snapshot.Summary.Critical > 0 {
				m.appendLog(fmt.Sprintf("%d critical alert(s) active | %s", u.Snapshot.Summary.Critical, u.Provenance))
			}
		}
		return m, nil

	case ForecastMsg:
		u := poller.Update[*api.Forecast](msg)
		if u.Snapshot != nil {
			m.state.Forecast = u.Snapshot
			m.state.ForecastProv = u.Provenance
		}
		return m, nil

	case MaskLoadedMsg:
		m.state.Mask = msg.Guidance
		return m, nil

	case RoutesLoadedMsg:
		m.state.Routes = msg.Routes
		return m, nil

	case HyperlocalLoadedMsg:
		m.state.Hyperlocal = msg.Estimate
		return m, nil

	case tea.FocusMsg:
		if m.state.Paused && m.pollers != nil {
			m.pollers.ResumeAll()
			m.state.Paused = false
			m.appendLog("window focused, polling resumed")
		}
		return m, nil

	case tea.BlurMsg:
		if !m.state.Paused && m.pollers != nil {
			m.pollers.PauseAll()
			m.state.Paused = true
			m.appendLog("window blurred, polling paused")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "p":
		return m.togglePause()
	}

	if m.state.CurrentPage == state.PageMenu {
		switch msg.String() {
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < 4 {
				m.menuCursor++
			}
		case "enter":
			return m, m.navigateTo(m.menuCursor)
		}
		return m, nil
	}

	if m.state.CurrentPage == state.PageConsole {
		switch msg.String() {
		case "up", "k":
			if m.consoleScrollY > 0 {
				m.consoleScrollY--
			}
		case "down", "j":
			m.consoleScrollY++
		}
	}

	if msg.String() == "b" || msg.String() == "esc" || msg.String() == "backspace" {
		m.state.CurrentPage = state.PageMenu
		m.consoleScrollY = 0
		return m, nil
	}

	return m, nil
}

// togglePause mirrors the focus/blur handling for users whose terminal
// never reports focus events.
func (m *MainModel) togglePause() (tea.Model, tea.Cmd) {
	if m.pollers == nil {
		return m, nil
	}
	if m.state.Paused {
		m.pollers.ResumeAll()
		m.state.Paused = false
		m.appendLog("polling resumed")
	} else {
		m.pollers.PauseAll()
		m.state.Paused = true
		m.appendLog("polling paused")
	}
	return m, nil
}

func (m *MainModel) navigateTo(cursor int) tea.Cmd {
	switch cursor {
	case 0:
		m.state.CurrentPage = state.PageDashboard
	case 1:
		m.state.CurrentPage = state.PageForecast
	case 2:
		m.state.CurrentPage = state.PageStations
	case 3:
		m.state.CurrentPage = state.PageHealth
		aqiValue := 200
		if m.state.Current != nil {
			aqiValue = int(m.state.Current.AQI)
		}
		return tea.Batch(
			fetchMaskCmd(m.feeds, aqiValue, m.feeds.Config.Health.Profile),
			fetchRoutesCmd(m.feeds),
			fetchHyperlocalCmd(m.feeds),
		)
	case 4:
		m.state.CurrentPage = state.PageConsole
	}
	return nil
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	var v float64 = m.velocity
	m.animCursor, v = m.spring.Update(m.animCursor, float64(m.menuCursor), v)
	m.velocity = v
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	newW := msg.Width/2 - 6
	if newW > 10 {
		m.chart.Resize(newW, 10)
	}
	return m, nil
}

func (m *MainModel) handleCurrentMsg(u poller.Update[*api.CurrentAQI]) (tea.Model, tea.Cmd) {
	if u.Snapshot == nil {
		if u.Err != nil {
			m.state.Err = u.Err
		}
		return m, nil
	}

	// Update State
	snap := u.Snapshot
	m.state.Err = nil
	m.state.Current = snap
	m.state.CurrentProv = u.Provenance
	m.state.Flags = m.flagSvc.Flag(snap, u.Provenance, time.Now())
	m.state.LastUpdate = u.FetchedAt

	// Update Chart
	m.chart.Push(snap.AQI)

	// Update Logs
	m.appendLog(fmt.Sprintf("AQI %.0f (%s) | PM2.5 %.1f | PM10 %.1f | wind %.1f km/h | %s",
		snap.AQI,
		snap.Category,
		snap.Pollutants.PM25,
		snap.Pollutants.PM10,
		snap.Weather.WindSpeed,
		u.Provenance,
	))
	return m, nil
}

func (m *MainModel) appendLog(line string) {
	m.state.ConsoleLogs = append(m.state.ConsoleLogs,
		fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), line))
	if len(m.state.ConsoleLogs) > 100 {
		m.state.ConsoleLogs = m.state.ConsoleLogs[1:]
	}
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.mouseX = msg.X
	m.mouseY = msg.Y

	if msg.Action == tea.MouseActionRelease && m.state.CurrentPage == state.PageMenu {
		for i := 0; i <= 4; i++ {
			if zone.Get(fmt.Sprintf("menu_%d", i)).InBounds(msg) {
				m.menuCursor = i
				return m, m.navigateTo(i)
			}
		}
	}
	return m, nil
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	switch m.state.CurrentPage {
	case state.PageMenu:
		return views.RenderMenu(m.width, m.height, m.menuCursor, m.animCursor, m.mouseX, m.mouseY)
	case state.PageDashboard:
		return views.RenderDashboard(m.state, m.spinner.View(), m.chart.View())
	case state.PageForecast:
		return views.RenderForecast(m.state, m.chart.View(), m.width, m.height)
	case state.PageStations:
		return views.RenderStations(m.state, m.width, m.height)
	case state.PageHealth:
		return views.RenderHealth(m.state, m.spinner.View(), m.width, m.height)
	case state.PageConsole:
		return views.RenderRawConsole(m.state, m.width, m.height, m.consoleScrollY)
	default:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render("View Under Construction\n\nPress 'b' to go back"),
		)
	}
}

func Start(f Feeds) error {
	m := InitialModel(f)
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.pollers = NewPollerSet(f, p.Send)
	m.pollers.StartAll(ctx)
	defer m.pollers.StopAll()

	_, err := p.Run()
	return err
}
