package components

import (
	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
)

// historyCap bounds the sliding window; at the default 30s poll
// interval that is roughly the last 15 minutes.
const historyCap = 31

// AQIWidget draws the recent AQI readings as a braille line chart on
// the full 0-500 CPCB scale.
type AQIWidget struct {
	Chart   linechart.Model
	History []float64
	Width   int
	Height  int
}

func NewAQIWidget(width, height int) *AQIWidget {
	// width, height, minX, maxX, minY, maxY
	lc := linechart.New(width, height, 0, float64(historyCap-1), 0, 500)
	return &AQIWidget{
		Chart:   lc,
		History: make([]float64, 0, historyCap),
		Width:   width,
		Height:  height,
	}
}

func (c *AQIWidget) Init() tea.Cmd {
	return nil
}

// Push appends a reading, evicting the oldest once the window is full.
func (c *AQIWidget) Push(value float64) {
	c.History = append(c.History, value)
	if len(c.History) > historyCap {
		c.History = c.History[1:]
	}
}

func (c *AQIWidget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Data flows in through Push; there is no interactive state.
	return c, nil
}

func (c *AQIWidget) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
}

func (c *AQIWidget) View() string {
	c.Chart.Clear()
	for i := 0; i < len(c.History)-1; i++ {
		y1 := c.History[i]
		y2 := c.History[i+1]
		c.Chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: y1},
			canvas.Float64Point{X: float64(i + 1), Y: y2},
		)
	}
	c.Chart.DrawXYAxisAndLabel()
	return c.Chart.View()
}
