package views

import (
	"fmt"
	"strconv"
	"strings"

	"aqidash/ui/tui/state"
	"aqidash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type StationsView struct{}

func (v StationsView) Render(s state.AppState, props ViewProps) string {
	header := MenuHeaderStyle.Width(props.Width).Render("Monitoring Station Network")

	if len(s.Stations) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			lipgloss.NewStyle().Padding(1, 2).Render("No station data yet"),
			lipgloss.NewStyle().Padding(1, 2).Foreground(styles.Subtle).Render("Press 'b' to go back"),
		)
	}

	info := lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinHorizontal(lipgloss.Left,
			fmt.Sprintf("%d stations reporting  ", len(s.Stations)),
			ProvenanceBadge(s.StationsProv),
		))

	var rows []string
	rows = append(rows, lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%-22s %4s %-12s %-18s %s", "Station", "AQI", "", "Primary Source", "Trend")))

	// Styled cells carry escape codes, so padding is applied to the plain
	// parts only.
	for _, st := range s.Stations {
		bar := ""
		if value, err := strconv.ParseFloat(st.AQI, 64); err == nil {
			bar = AQIStyle(value).Render(stationBar(value))
		}
		trendCell := ColorForStatus(st.Trend).Render(st.Trend)
		rows = append(rows, fmt.Sprintf("%-22s %4s %s %-18s %s %s",
			st.Name, st.AQI, bar, st.PrimarySource, TrendArrow(st.Trend), trendCell))
	}

	table := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		info,
		lipgloss.NewStyle().PaddingLeft(2).Render(table),
		lipgloss.NewStyle().Padding(1, 2).Foreground(styles.Subtle).Render("Press 'b' to go back"),
	)
}

// stationBar gives a compact visual weight next to the numeric AQI.
func stationBar(value float64) string {
	const barWidth = 10
	filled := int(float64(barWidth) * value / 500)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
