package views

import (
	"fmt"

	"aqidash/ui/tui/state"
	"aqidash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type HealthView struct{}

func (v HealthView) Render(s state.AppState, props ViewProps) string {
	header := MenuHeaderStyle.Width(props.Width).Render("Health & Mask Guidance")

	if s.Mask == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			lipgloss.NewStyle().Padding(1, 2).Render(
				lipgloss.JoinHorizontal(lipgloss.Left, props.SpinnerView, " Fetching guidance")),
			lipgloss.NewStyle().Padding(1, 2).Foreground(styles.Subtle).Render("Press 'b' to go back"),
		)
	}

	m := s.Mask

	borderColor := lipgloss.Color("46")
	switch m.Recommendation.MaskLevel {
	case "critical", "very_high":
		borderColor = lipgloss.Color("196")
	case "high", "medium":
		borderColor = lipgloss.Color("220")
	}

	recommendation := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(m.Recommendation.MaskType),
			fmt.Sprintf("Protection: %s", m.Recommendation.ProtectionLevel),
			fmt.Sprintf("For AQI %d, %s profile", m.AQI, m.Profile),
			"",
			m.Recommendation.Message,
		))

	var tips []string
	tips = append(tips, lipgloss.NewStyle().Bold(true).Render("Usage Tips"))
	for _, tip := range m.UsageTips {
		tips = append(tips, "• "+tip)
	}
	tipBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, tips...))

	var options []string
	options = append(options, lipgloss.NewStyle().Bold(true).Render("Where to Buy"))
	for _, opt := range m.PurchaseOptions {
		options = append(options, fmt.Sprintf("%-14s %-24s %s", opt.Vendor, opt.Product, opt.PriceRange))
	}
	optionBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, options...))

	advisory := ""
	if s.Current != nil {
		advisory = lipgloss.NewStyle().
			Padding(1, 2).
			Render(fmt.Sprintf("Current advisory: %s\nHealth risk: %s", s.Current.HealthAdvisory, s.Current.HealthRisk))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, tipBox, optionBox)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(1, 2).Render(recommendation),
		advisory,
		lipgloss.NewStyle().PaddingLeft(2).Render(content),
		renderHyperlocal(s),
		renderRoutes(s),
		lipgloss.NewStyle().Padding(1, 2).Foreground(styles.Subtle).Render("Press 'b' to go back"),
	)
}

// renderHyperlocal shows the interpolated estimate for the configured
// coordinate, which can differ from the nearest station's headline.
func renderHyperlocal(s state.AppState) string {
	if s.Hyperlocal == nil {
		return ""
	}
	h := s.Hyperlocal

	rows := []string{
		lipgloss.NewStyle().Bold(true).Render("Your Location"),
		fmt.Sprintf("%s  %s",
			AQIStyle(h.CurrentAQI).Render(fmt.Sprintf("AQI %.0f", h.CurrentAQI)),
			ColorForStatus(h.Category).Render(h.Category)),
		fmt.Sprintf("PM2.5 %.1f  PM10 %.1f  (%.2f, %.2f ± %.1f km)",
			h.Pollutants.PM25, h.Pollutants.PM10,
			h.Location.Latitude, h.Location.Longitude, h.Location.RadiusKM),
		fmt.Sprintf("Confidence %.0f%%  source: %s", h.Confidence, h.DataSource),
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Highlight).
			Padding(1, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

// renderRoutes lists exposure-scored travel options, best first.
func renderRoutes(s state.AppState) string {
	if s.Routes == nil || len(s.Routes.Routes) == 0 {
		return ""
	}

	var rows []string
	rows = append(rows, lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Safe Routes: %s → %s", s.Routes.Origin, s.Routes.Destination)))
	for _, r := range s.Routes.Routes {
		line := fmt.Sprintf("%-9s %5.1f km  %4.0f min  exposure AQI %3.0f  safety %s",
			r.Mode, r.DistanceKM, r.DurationMinutes, r.EstimatedAQI,
			ColorForStatus(r.Quality).Render(fmt.Sprintf("%.1f (%s)", r.SafetyScore, r.Quality)))
		if s.Routes.BestRoute != nil && r.ID == s.Routes.BestRoute.ID {
			line = "★ " + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Highlight).
			Padding(1, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
