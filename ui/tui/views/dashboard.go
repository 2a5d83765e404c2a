package views

import (
	"fmt"

	"aqidash/internal/report"
	"aqidash/ui/tui/state"
	"aqidash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"
	zone "github.com/lrstanley/bubblezone"
)

type DashboardView struct{}

func (v DashboardView) Render(s state.AppState, props ViewProps) string {
	if s.Current == nil {
		waiting := "Waiting for first reading"
		if s.Err != nil {
			waiting = fmt.Sprintf("Waiting for first reading (%v)", s.Err)
		}
		return lipgloss.JoinHorizontal(lipgloss.Left, props.SpinnerView, " ", waiting)
	}

	updated := "never"
	if !s.LastUpdate.IsZero() {
		updated = humanize.Time(s.LastUpdate)
	}

	headerParts := []string{
		props.SpinnerView,
		styles.TitleStyle.Render("Delhi-NCR Air Quality"),
		ProvenanceBadge(s.CurrentProv),
		fmt.Sprintf(" Updated %s", updated),
	}
	if s.Paused {
		headerParts = append(headerParts, " ", styles.PausedStyle.Render("PAUSED"))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left, headerParts...)

	dashboard := report.Build(s.Current, s.Stations, s.Alerts, s.Flags, s.CurrentProv)

	renderSection := func(sec *report.Section) string {
		content := ""
		for _, item := range sec.Items {
			valStr := item.Note
			if valStr == "" {
				valStr = fmt.Sprintf("%.1f%s", item.Value, item.Unit)
			}
			if item.Status != "" {
				valStr = ColorForStatus(item.Status).Render(fmt.Sprintf("%s [%s]", valStr, item.Status))
			}
			content += fmt.Sprintf("% -18s : %s\n", item.Label, valStr)
		}
		return content
	}

	var currentCol, pollutantCol, weatherCol, alertCol string

	if curSec := dashboard.SectionByID(report.SectionCurrent); curSec != nil {
		headline := AQIStyle(s.Current.AQI).Render(dashboard.Headline)
		currentCol = zone.Mark("current_box", styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render("Air Quality"),
				headline,
				fmt.Sprintf("Risk score: %d/100\n", dashboard.RiskScore),
				renderSection(curSec),
				props.ChartView,
			),
		))
	}

	if polSec := dashboard.SectionByID(report.SectionPollutants); polSec != nil {
		pollutantCol = styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render("Pollutants"),
				renderSection(polSec),
			),
		)
	}

	if wxSec := dashboard.SectionByID(report.SectionWeather); wxSec != nil {
		weatherCol = styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render("Weather"),
				renderSection(wxSec),
			),
		)
	}

	if alSec := dashboard.SectionByID(report.SectionAlerts); alSec != nil && len(alSec.Items) > 0 {
		alertCol = styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.JoinHorizontal(lipgloss.Left,
					lipgloss.NewStyle().Bold(true).Render("Active Alerts "),
					ProvenanceBadge(s.AlertsProv),
				),
				renderSection(alSec),
			),
		)
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, currentCol, pollutantCol)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, weatherCol, alertCol)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left,
		header,
		row1,
		row2,
		lipgloss.NewStyle().Foreground(styles.Subtle).Render("\n'b' back • 'p' pause • 'q' quit"),
	))
}
