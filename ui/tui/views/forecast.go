package views

import (
	"fmt"
	"strings"

	"aqidash/internal/api"
	"aqidash/ui/tui/state"
	"aqidash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type ForecastView struct{}

// horizonOrder fixes the card order; the feed delivers horizons as a map.
var horizonOrder = []struct {
	key   string
	label string
}{
	{"6_hour", "Next 6 Hours"},
	{"24_hour", "Next 24 Hours"},
	{"72_hour", "Next 72 Hours"},
}

func (v ForecastView) Render(s state.AppState, props ViewProps) string {
	header := MenuHeaderStyle.Width(props.Width).Render("Forecast Outlook")

	if s.Forecast == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			lipgloss.NewStyle().Padding(1, 2).Render("Waiting for the first forecast cycle"),
			lipgloss.NewStyle().Padding(1, 2).Foreground(styles.Subtle).Render("Press 'b' to go back"),
		)
	}

	fc := s.Forecast

	// Info section
	info := lipgloss.NewStyle().
		Padding(1, 2).
		Render(fmt.Sprintf("Starting from: AQI %.0f (%s), %s dominant\nDominant source: %s (%.0f%% contribution)\nModel confidence: %.0f%%   Data: %s",
			fc.CurrentConditions.AQI, fc.CurrentConditions.Category, fc.CurrentConditions.PrimaryPollutant,
			fc.AIInsights.DominantSource, fc.AIInsights.SourceContribution*100,
			fc.AIInsights.ModelConfidence*100, ProvenanceBadge(s.ForecastProv)))

	// Recent history chart
	chart := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("Recent AQI"),
			props.ChartView,
		))

	// One card per horizon
	var horizonCols []string
	for _, h := range horizonOrder {
		hf, ok := fc.Forecasts[h.key]
		if !ok {
			continue
		}
		horizonCols = append(horizonCols, renderHorizon(h.label, hf))
	}
	horizons := lipgloss.JoinHorizontal(lipgloss.Top, horizonCols...)

	// Predicted-condition alerts
	var alertLines []string
	for _, a := range fc.Alerts {
		line := fmt.Sprintf("%s %s (%s)",
			ColorForStatus(a.Severity).Render("["+strings.ToUpper(a.Severity)+"]"),
			a.Message, a.Timeframe)
		alertLines = append(alertLines, line)
	}
	alertBox := ""
	if len(alertLines) > 0 {
		alertBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render("Forecast Alerts"),
				lipgloss.JoinVertical(lipgloss.Left, alertLines...),
			))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, chart, horizons)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		info,
		content,
		alertBox,
		lipgloss.NewStyle().Padding(1, 2).Foreground(styles.Subtle).Render("Press 'b' to go back"),
	)
}

func renderHorizon(label string, hf api.HorizonForecast) string {
	var rows []string
	preds := hf.Predictions
	// Long horizons carry hourly points; sample down to keep the card short.
	step := 1
	if len(preds) > 12 {
		step = len(preds) / 12
	}
	for i := 0; i < len(preds); i += step {
		p := preds[i]
		rows = append(rows, predictionBar(p))
	}

	trend := ColorForStatus(hf.Trend).Render(hf.Trend)
	summary := fmt.Sprintf("Peak %.0f • %s • conf %.0f%%", hf.PeakAQI, trend, hf.Confidence*100)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(label),
			summary,
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		))
}

// predictionBar renders one forecast point on a 0-500 scale.
func predictionBar(p api.Prediction) string {
	barWidth := 20
	filled := int(float64(barWidth) * p.AQI / 500)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	color := lipgloss.Color("46") // Green
	if p.AQI > 300 {
		color = lipgloss.Color("196") // Red
	} else if p.AQI > 200 {
		color = lipgloss.Color("220") // Gold
	}

	ts := p.Timestamp
	if len(ts) >= 16 {
		ts = ts[11:16] // HH:MM from RFC 3339
	}
	return fmt.Sprintf("%5s [%s] %5.0f", ts, lipgloss.NewStyle().Foreground(color).Render(bar), p.AQI)
}
