package ranking

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/sumwatshade/fueldash/cmd/fuel"
	"github.com/sumwatshade/fueldash/cmd/latest"
)

// internal message carrying a finished ranking fetch and the ticket it was
// issued under
type fetchedMsg struct {
	ticket   latest.Ticket[fuel.Type]
	snapshot client.RankingSnapshot
	err      error
}

// Init enters Loading for the default fuel type and starts the spinner.
func (s *State) Init() tea.Cmd {
	return tea.Batch(s.Select(s.selected), s.spinner.Tick)
}

// Select switches to f and starts a fetch for it. The loading state is
// visible immediately; the data arrives later as a message.
func (s *State) Select(f fuel.Type) tea.Cmd {
	if !f.Valid() {
		s.log.Error("ignoring invalid fuel type", "fuel", f)
		return nil
	}
	s.selected = f
	s.phase = Loading
	s.err = nil
	t := s.requests.Issue(f)
	s.log.Debug("ranking fetch issued", "fuel", f, "seq", t.Seq)
	return s.fetchCmd(t)
}

// Refresh re-fetches the current fuel type.
func (s *State) Refresh() tea.Cmd {
	return s.Select(s.selected)
}

func (s *State) fetchCmd(t latest.Ticket[fuel.Type]) tea.Cmd {
	svc, timeout := s.svc, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := svc.FetchRanking(ctx, t.Target)
		return fetchedMsg{ticket: t, snapshot: snap, err: err}
	}
}

// Update applies fetch results and forwards navigation to the list.
func (s *State) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case fetchedMsg:
		s.apply(m)
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(m)
		return cmd
	}
	if s.visible() == nil {
		return nil
	}
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return cmd
}

func (s *State) apply(m fetchedMsg) {
	if !s.requests.Matches(m.ticket) {
		s.log.Debug("stale ranking result dropped", "fuel", m.ticket.Target, "selected", s.selected)
		return
	}
	if m.err != nil {
		s.phase = Failed
		s.err = m.err
		s.log.Warn("ranking fetch failed", "fuel", m.ticket.Target, "err", m.err)
		return
	}
	snap := m.snapshot
	s.snapshot = &snap
	s.phase = Loaded
	s.err = nil
	s.setItems(snap.Entries)
	s.log.Info("ranking loaded", "fuel", snap.FuelType, "entries", len(snap.Entries), "total", snap.TotalRecords)
}

func (s *State) setItems(entries []client.RankingEntry) {
	items := make([]list.Item, 0, len(entries))
	for i, e := range entries {
		items = append(items, entryItem{RankingEntry: e, rank: i + 1})
	}
	s.list.SetItems(items)
	s.list.Select(0)
}
