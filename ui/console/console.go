package console

import (
	"fmt"
	"io"
	"strings"

	"aqidash/internal/report"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Print renders an air quality report to the writer in a highly compact format.
func Print(w io.Writer, r report.Report) {
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", "DELHI-NCR AIR QUALITY", colorReset)
	if r.Headline != "" {
		fmt.Fprintf(w, "%s%s%s [%s]\n", colorFor(r.Headline), r.Headline, colorReset, strings.ToUpper(r.Provenance))
	}

	for _, sec := range r.Sections {
		if len(sec.Items) == 0 {
			continue
		}

		// Section Header
		fmt.Fprintf(w, "%s%s%s\n", colorCyan, "─ "+sec.Title, colorReset)

		for _, it := range sec.Items {
			color := colorFor(it.Status)

			// Compact Label (max 20 chars)
			label := it.Label
			if len(label) > 20 {
				label = label[:17] + "..."
			}

			// Value Formatting
			valStr := ""
			if it.Unit != "" {
				valStr = fmt.Sprintf("%.1f%s", it.Value, it.Unit)
			} else if it.Value != 0 {
				valStr = fmt.Sprintf("%.0f", it.Value)
			} else if it.Note != "" {
				valStr = it.Note
				// Truncate long notes
				if len(valStr) > 34 {
					valStr = valStr[:31] + "..."
				}
			}

			// Status Marker
			statusMarker := ""
			if it.Status != "" {
				marker := "✓"
				switch color {
				case colorYellow:
					marker = "!"
				case colorRed:
					marker = "X"
				}
				statusMarker = fmt.Sprintf(" %s%s%s", color, marker, colorReset)
			}

			// Dots leader
			dots := strings.Repeat("·", 22-len(label))

			fmt.Fprintf(w, "  %s%s %s%s\n", label, colorCyan+dots+colorReset, valStr, statusMarker)
		}
	}

	// Single-line Summary
	fmt.Fprintf(w, "%s─ Summary%s: risk %d/100 | data %s\n\n", colorCyan, colorReset, r.RiskScore, r.Provenance)
}

func colorFor(status string) string {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "severe"), strings.Contains(s, "very poor"),
		strings.Contains(s, "critical"), strings.Contains(s, "emergency"):
		return colorRed
	case strings.Contains(s, "poor"), strings.Contains(s, "warning"),
		strings.Contains(s, "rising"), strings.Contains(s, "moderate"),
		strings.Contains(s, "notice"):
		return colorYellow
	default:
		return colorGreen
	}
}
