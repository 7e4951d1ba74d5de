package mapview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sumwatshade/fueldash/cmd/latest"
)

const frameInterval = 50 * time.Millisecond

// internal message advancing the current flight
type frameMsg struct {
	ticket latest.Ticket[Camera]
	at     time.Time
}

// FlyTo animates the camera to the point over d. A newer FlyTo supersedes
// this one; its remaining frames are ignored.
func (m *Model) FlyTo(lat, lng float64, zoom int, d time.Duration) tea.Cmd {
	to := Camera{Lat: lat, Lng: lng, Zoom: clampZoom(float64(zoom))}
	ticket := m.flights.Issue(to)
	if d <= 0 {
		m.flight = nil
		m.camera = to
		m.Sync()
		return nil
	}
	m.flight = &flight{ticket: ticket, from: m.camera, to: to, start: time.Now(), d: d}
	return nextFrame(ticket)
}

func nextFrame(t latest.Ticket[Camera]) tea.Cmd {
	return tea.Tick(frameInterval, func(now time.Time) tea.Msg {
		return frameMsg{ticket: t, at: now}
	})
}

// Update advances camera animation and keeps the popup's price history in
// step with the open popup.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	// popup may have changed since the last message
	before := m.watchPopup()
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case historyMsg:
		m.applyHistory(msg)
	case frameMsg:
		cmd = m.advance(msg)
	}
	return tea.Batch(before, cmd, m.watchPopup())
}

func (m *Model) advance(f frameMsg) tea.Cmd {
	if m.flight == nil || !m.flights.IsCurrent(f.ticket) {
		return nil
	}
	p := float64(f.at.Sub(m.flight.start)) / float64(m.flight.d)
	if p >= 1 {
		m.camera = m.flight.to
		m.flight = nil
		m.Sync()
		return nil
	}
	if p < 0 {
		p = 0
	}
	e := p * p * (3 - 2*p) // smoothstep
	from, to := m.flight.from, m.flight.to
	m.camera = Camera{
		Lat:  from.Lat + (to.Lat-from.Lat)*e,
		Lng:  from.Lng + (to.Lng-from.Lng)*e,
		Zoom: from.Zoom + (to.Zoom-from.Zoom)*e,
	}
	m.Sync()
	return nextFrame(f.ticket)
}
