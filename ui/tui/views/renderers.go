package views

import (
	"aqidash/ui/tui/state"
)

func RenderMenu(width, height, cursor int, animCursor float64, mouseX, mouseY int) string {
	v := MenuView{}
	return v.Render(state.AppState{}, ViewProps{
		Width:      width,
		Height:     height,
		MenuCursor: cursor,
		AnimCursor: animCursor,
		MouseX:     mouseX,
		MouseY:     mouseY,
	})
}

func RenderDashboard(s state.AppState, spinnerView, chartView string) string {
	v := DashboardView{}
	return v.Render(s, ViewProps{
		SpinnerView: spinnerView,
		ChartView:   chartView,
	})
}

func RenderForecast(s state.AppState, chartView string, width, height int) string {
	v := ForecastView{}
	return v.Render(s, ViewProps{
		Width:     width,
		Height:    height,
		ChartView: chartView,
	})
}

func RenderStations(s state.AppState, width, height int) string {
	v := StationsView{}
	return v.Render(s, ViewProps{
		Width:  width,
		Height: height,
	})
}

func RenderHealth(s state.AppState, spinnerView string, width, height int) string {
	v := HealthView{}
	return v.Render(s, ViewProps{
		Width:       width,
		Height:      height,
		SpinnerView: spinnerView,
	})
}

func RenderRawConsole(s state.AppState, width, height, scrollY int) string {
	v := ConsoleView{}
	return v.Render(s, ViewProps{
		Width:   width,
		Height:  height,
		ScrollY: scrollY,
	})
}
