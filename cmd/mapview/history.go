package mapview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/sumwatshade/fueldash/cmd/latest"
)

// HistorySource supplies recent prices for the popup chart.
type HistorySource interface {
	FetchHistory(ctx context.Context, stationID string) ([]client.HistoryPoint, error)
}

type historyMsg struct {
	ticket latest.Ticket[string]
	points []client.HistoryPoint
	err    error
}

// SetHistorySource enables the price history chart in the popup. Without a
// source the popup shows current prices only.
func (m *Model) SetHistorySource(src HistorySource, timeout time.Duration) {
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}
	m.historySrc, m.historyTimeout = src, timeout
}

// watchPopup fetches history for the popup station whenever the popup
// opened, changed or closed since the last call. Every change issues a new
// ticket, so a reply for a previous popup is never applied.
func (m *Model) watchPopup() tea.Cmd {
	if m.popup == m.historyFor {
		return nil
	}
	m.historyFor = m.popup
	m.history, m.historyErr, m.historyLoading = nil, nil, false
	ticket := m.histories.Issue(m.popup)
	if m.popup == "" || m.historySrc == nil {
		return nil
	}
	m.historyLoading = true
	src, timeout := m.historySrc, m.historyTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		pts, err := src.FetchHistory(ctx, ticket.Target)
		return historyMsg{ticket: ticket, points: pts, err: err}
	}
}

func (m *Model) applyHistory(msg historyMsg) {
	if !m.histories.IsCurrent(msg.ticket) {
		m.log.Debug("stale history dropped", "station", msg.ticket.Target)
		return
	}
	m.historyLoading = false
	if msg.err != nil {
		m.historyErr = msg.err
		m.log.Warn("history fetch failed", "station", msg.ticket.Target, "err", msg.err)
		return
	}
	m.history = msg.points
}
