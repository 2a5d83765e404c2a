package tui

import (
	"io"
	"log"
	"testing"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/config"
	"aqidash/internal/fallback"
	"aqidash/internal/poller"
	"aqidash/ui/tui/state"

	tea "github.com/charmbracelet/bubbletea"
)

func testFeeds() Feeds {
	logger := log.New(io.Discard, "", 0)
	cfg := config.Default()
	return Feeds{
		Client:   api.NewClient(cfg.API.BaseURL, time.Second, logger),
		Fallback: fallback.NewGenerator(42, cfg.Location.Area),
		Config:   cfg,
		Logger:   logger,
	}
}

func TestMenuNavigation(t *testing.T) {
	model := InitialModel(testFeeds())

	// Initial state
	if model.menuCursor != 0 {
		t.Errorf("Expected initial menu cursor 0, got %d", model.menuCursor)
	}
	if model.state.CurrentPage != state.PageMenu {
		t.Errorf("Expected initial page PageMenu, got %v", model.state.CurrentPage)
	}

	// Test Down Navigation
	cmd := tea.KeyMsg{Type: tea.KeyDown, Runes: []rune{}, Alt: false}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.menuCursor != 1 {
		t.Errorf("Expected menu cursor 1 after Down key, got %d", m.menuCursor)
	}

	// Test Up Navigation
	cmd = tea.KeyMsg{Type: tea.KeyUp, Runes: []rune{}, Alt: false}
	updatedModel, _ = m.Update(cmd)
	m = updatedModel.(*MainModel)

	if m.menuCursor != 0 {
		t.Errorf("Expected menu cursor 0 after Up key, got %d", m.menuCursor)
	}
}

func TestMenuAnimationLogic(t *testing.T) {
	model := InitialModel(testFeeds())

	// Move cursor to 1
	model.menuCursor = 1

	// Initial animation cursor should be 0
	if model.animCursor != 0 {
		t.Errorf("Expected initial animCursor 0, got %f", model.animCursor)
	}

	// Simulate a few animation frames
	// The spring physics should move animCursor towards menuCursor (1.0)

	// Frame 1
	animateMsg := AnimateMsg(time.Now())
	updatedModel, _ := model.Update(animateMsg)
	m := updatedModel.(*MainModel)

	if m.animCursor <= 0 {
		t.Errorf("Expected animCursor to increase after animation frame, got %f", m.animCursor)
	}
	if m.animCursor >= 1.0 {
		t.Errorf("Expected animCursor to not reach target immediately, got %f", m.animCursor)
	}

	// Frame 2
	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)
	prevCursor := m.animCursor

	// Frame 3
	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)

	if m.animCursor <= prevCursor {
		t.Errorf("Expected animCursor to continue increasing, got %f (prev %f)", m.animCursor, prevCursor)
	}
}

func TestPageTransition(t *testing.T) {
	model := InitialModel(testFeeds())

	// Select first item (Dashboard)
	model.menuCursor = 0
	cmd := tea.KeyMsg{Type: tea.KeyEnter, Runes: []rune{}, Alt: false}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.state.CurrentPage != state.PageDashboard {
		t.Errorf("Expected page to change to PageDashboard, got %v", m.state.CurrentPage)
	}

	// Go Back
	cmd = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: false}
	updatedModel, _ = m.Update(cmd)
	m = updatedModel.(*MainModel)

	if m.state.CurrentPage != state.PageMenu {
		t.Errorf("Expected page to change back to PageMenu, got %v", m.state.CurrentPage)
	}
}

func TestCurrentUpdateFlowsIntoState(t *testing.T) {
	model := InitialModel(testFeeds())

	snap := model.feeds.Fallback.CurrentAQI()
	fetchedAt := time.Now()
	msg := CurrentMsg(poller.Update[*api.CurrentAQI]{
		Seq:        1,
		Snapshot:   snap,
		Provenance: poller.Estimated,
		FetchedAt:  fetchedAt,
	})

	updatedModel, _ := model.Update(msg)
	m := updatedModel.(*MainModel)

	if m.state.Current != snap {
		t.Fatal("Expected snapshot to land in state")
	}
	if m.state.CurrentProv != poller.Estimated {
		t.Errorf("Expected Estimated provenance, got %v", m.state.CurrentProv)
	}
	if m.state.Flags == nil {
		t.Fatal("Expected flags to be computed for the new snapshot")
	}
	if !m.state.Flags.FlagDataEstimated {
		t.Error("Expected estimated data flag for an Estimated update")
	}
	if !m.state.LastUpdate.Equal(fetchedAt) {
		t.Errorf("Expected LastUpdate %v, got %v", fetchedAt, m.state.LastUpdate)
	}
	if len(m.state.ConsoleLogs) != 1 {
		t.Fatalf("Expected one console log line, got %d", len(m.state.ConsoleLogs))
	}
	if len(m.chart.History) != 1 {
		t.Errorf("Expected one chart sample, got %d", len(m.chart.History))
	}
}

func TestHyperlocalEstimateFlowsIntoState(t *testing.T) {
	model := InitialModel(testFeeds())
	loc := model.feeds.Config.Location

	est := model.feeds.Fallback.Hyperlocal(loc.Latitude, loc.Longitude, loc.RadiusKM)
	updatedModel, _ := model.Update(HyperlocalLoadedMsg{Estimate: est})
	m := updatedModel.(*MainModel)

	if m.state.Hyperlocal != est {
		t.Fatal("Expected hyperlocal estimate to land in state")
	}
}

func TestFocusTogglesPausedState(t *testing.T) {
	model := InitialModel(testFeeds())
	model.pollers = NewPollerSet(model.feeds, func(tea.Msg) {})

	updatedModel, _ := model.Update(tea.BlurMsg{})
	m := updatedModel.(*MainModel)
	if !m.state.Paused {
		t.Fatal("Expected blur to pause polling")
	}

	updatedModel, _ = m.Update(tea.FocusMsg{})
	m = updatedModel.(*MainModel)
	if m.state.Paused {
		t.Fatal("Expected focus to resume polling")
	}
}
