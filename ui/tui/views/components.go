package views

import (
	"strings"

	"aqidash/internal/aqi"
	"aqidash/internal/poller"
	"aqidash/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// ColorForStatus maps a status or trend word to a display style. It
// matches on substrings so "Very Poor", "very_poor" and "critical alert"
// all land on the same color.
func ColorForStatus(status string) lipgloss.Style {
	sStyle := styles.StatusStyle
	lower := strings.ToLower(status)

	for _, word := range []string{"severe", "very poor", "very_poor", "critical", "emergency", "hazardous"} {
		if strings.Contains(lower, word) {
			return sStyle.Foreground(lipgloss.Color("196")) // Red
		}
	}
	for _, word := range []string{"poor", "warning", "rising", "worsening", "moderate", "notice"} {
		if strings.Contains(lower, word) {
			return sStyle.Foreground(lipgloss.Color("220")) // Gold
		}
	}
	return sStyle.Foreground(lipgloss.Color("46")) // Green
}

// AQIStyle colors a rendered AQI value with its CPCB band color.
func AQIStyle(value float64) lipgloss.Style {
	band := aqi.For(value)
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(band.Color))
}

// ProvenanceBadge renders the data-origin tag shown next to every feed.
func ProvenanceBadge(prov poller.Provenance) string {
	switch prov {
	case poller.Live:
		return styles.LiveBadgeStyle.Render("LIVE")
	case poller.Cached:
		return styles.CachedBadgeStyle.Render("CACHED")
	default:
		return styles.EstimatedBadgeStyle.Render("ESTIMATED")
	}
}

// TrendArrow compacts a trend word into a single glyph.
func TrendArrow(trend string) string {
	switch strings.ToLower(trend) {
	case "rising", "worsening", "increasing":
		return "↑"
	case "falling", "improving", "decreasing":
		return "↓"
	default:
		return "→"
	}
}
