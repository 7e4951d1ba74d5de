package mapview

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/sumwatshade/fueldash/cmd/stamp"
)

var (
	mapTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	mapInfoStyle    = lipgloss.NewStyle().Faint(true)
	markerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	activeMarker    = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	crosshairStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	popupBoxStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	popupNameStyle  = lipgloss.NewStyle().Bold(true)
	popupPriceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	popupHighlight  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	historyLine     = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
)

const (
	chartHeight   = 6
	chartMaxWidth = 48
)

// View renders the header line, the marker canvas and the open popup.
func (m *Model) View() string {
	b := &strings.Builder{}
	b.WriteString(mapTitleStyle.Render("Map"))
	b.WriteString(" ")
	b.WriteString(mapInfoStyle.Render(fmt.Sprintf("%.4f, %.4f  z%.0f  %d markers", m.camera.Lat, m.camera.Lng, m.camera.Zoom, len(m.mounted))))
	b.WriteString("\n")
	if m.width == 0 || m.height == 0 {
		return b.String()
	}

	c := canvas.New(m.width, m.height)
	c.SetCell(canvas.Point{X: m.width / 2, Y: m.height / 2}, canvas.NewCellWithStyle('+', crosshairStyle))
	for id, k := range m.mounted {
		if id == m.popup {
			continue
		}
		c.SetCell(canvas.Point{X: k.col, Y: k.row}, canvas.NewCellWithStyle('•', markerStyle))
	}
	// drawn last so it is never hidden under a neighbour
	if k, ok := m.mounted[m.popup]; ok {
		c.SetCell(canvas.Point{X: k.col, Y: k.row}, canvas.NewCellWithStyle('◉', activeMarker))
	}
	b.WriteString(c.View())

	if st, ok := m.stations.Get(m.popup); ok && m.popup != "" {
		b.WriteString("\n")
		b.WriteString(m.popupView(st))
	}
	return b.String()
}

func (m *Model) popupView(st client.Station) string {
	lines := []string{popupNameStyle.Render(st.Name)}
	if st.Brand != "" {
		lines = append(lines, mapInfoStyle.Render(st.Brand))
	}
	if st.Address != "" {
		lines = append(lines, mapInfoStyle.Render(st.Address))
	}
	if len(st.Prices) == 0 {
		lines = append(lines, mapInfoStyle.Render("No price available"))
	}
	for _, p := range st.Prices {
		label := fmt.Sprintf("%-6s", p.FuelTypeLabel)
		if p.FuelTypeLabel == m.highlight {
			label = popupHighlight.Render(label)
		}
		price := popupPriceStyle.Render(p.Price.StringFixed(1) + "c")
		when := mapInfoStyle.Render(stamp.Display(p.UpdatedRaw, m.loc))
		lines = append(lines, label+" "+price+"  "+when)
	}
	if m.historySrc != nil {
		if h := m.historyView(); h != "" {
			lines = append(lines, h)
		}
	}
	lines = append(lines, mapInfoStyle.Render("(esc to close)"))
	return popupBoxStyle.Render(strings.Join(lines, "\n"))
}

// historyView draws the popup station's recent prices for one fuel type:
// the highlighted one when the station has it, else the first one seen.
func (m *Model) historyView() string {
	switch {
	case m.historyFor != m.popup:
		return ""
	case m.historyLoading:
		return mapInfoStyle.Render("loading price history...")
	case m.historyErr != nil:
		return mapInfoStyle.Render("price history unavailable")
	}
	label, pts := m.chartSeries()
	if len(pts) < 2 {
		return mapInfoStyle.Render("No price history")
	}

	minT, maxT := pts[0].Time, pts[len(pts)-1].Time
	minV, maxV := pts[0].Value, pts[0].Value
	for _, p := range pts[1:] {
		minV, maxV = min(minV, p.Value), max(maxV, p.Value)
	}
	if minV == maxV {
		minV -= 0.5
		maxV += 0.5
	}
	if !maxT.After(minT) {
		maxT = minT.Add(time.Minute)
	}

	loc := m.loc
	lc := timeserieslinechart.New(min(chartMaxWidth, max(20, m.width-4)), chartHeight,
		timeserieslinechart.WithTimeRange(minT, maxT),
		timeserieslinechart.WithYRange(minV, maxV),
		timeserieslinechart.WithStyle(historyLine),
		timeserieslinechart.WithXLabelFormatter(func(i int, v float64) string {
			return time.Unix(int64(v), 0).In(loc).Format("Jan 02")
		}),
	)
	lc.SetViewTimeAndYRange(minT, maxT, minV, maxV)
	for _, p := range pts {
		lc.Push(p)
	}
	lc.DrawBraille()
	return mapInfoStyle.Render(label+" last 7 days") + "\n" + lc.View()
}

func (m *Model) chartSeries() (string, []timeserieslinechart.TimePoint) {
	label := ""
	for _, h := range m.history {
		if h.FuelTypeLabel == m.highlight {
			label = h.FuelTypeLabel
			break
		}
	}
	if label == "" && len(m.history) > 0 {
		label = m.history[0].FuelTypeLabel
	}
	var pts []timeserieslinechart.TimePoint
	for _, h := range m.history {
		if h.FuelTypeLabel != label || h.CapturedAt.IsZero() {
			continue
		}
		pts = append(pts, timeserieslinechart.TimePoint{Time: h.CapturedAt, Value: h.Price.InexactFloat64()})
	}
	return label, pts
}
