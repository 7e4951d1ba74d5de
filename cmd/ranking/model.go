package ranking

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/sumwatshade/fueldash/cmd/fuel"
	"github.com/sumwatshade/fueldash/cmd/latest"
)

// Phase is the fetch lifecycle of the ranking pane.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// State owns the selected fuel type and the current ranking snapshot. All
// mutation happens inside Update / Select / Refresh on the program loop.
type State struct {
	svc     client.Service
	timeout time.Duration
	log     *slog.Logger
	loc     *time.Location

	selected fuel.Type
	phase    Phase
	snapshot *client.RankingSnapshot // last good result, kept through failures
	err      error
	requests latest.Tracker[fuel.Type]

	list    list.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(svc client.Service, def fuel.Type, timeout time.Duration, log *slog.Logger) *State {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if !def.Valid() {
		def = fuel.Default
	}
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.PaginationStyle = paginationStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return &State{
		svc:      svc,
		timeout:  timeout,
		log:      log,
		loc:      time.Local,
		selected: def,
		list:     l,
		spinner:  sp,
	}
}

func (s *State) Phase() Phase        { return s.phase }
func (s *State) Selected() fuel.Type { return s.selected }
func (s *State) Err() error          { return s.err }

func (s *State) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Snapshot returns the snapshot currently on screen, if any. While a
// different fuel type is loading nothing is on screen.
func (s *State) Snapshot() (client.RankingSnapshot, bool) {
	v := s.visible()
	if v == nil {
		return client.RankingSnapshot{}, false
	}
	return *v, true
}

func (s *State) visible() *client.RankingSnapshot {
	if s.snapshot == nil {
		return nil
	}
	switch s.phase {
	case Loaded, Failed:
		return s.snapshot
	case Loading:
		if s.snapshot.FuelType == s.selected {
			return s.snapshot
		}
	}
	return nil
}

// SelectedEntry returns the entry under the list cursor.
func (s *State) SelectedEntry() (client.RankingEntry, bool) {
	if v := s.visible(); v == nil || len(v.Entries) == 0 {
		return client.RankingEntry{}, false
	}
	it, ok := s.list.SelectedItem().(entryItem)
	if !ok {
		return client.RankingEntry{}, false
	}
	return it.RankingEntry, true
}

// SetSize resizes the list to the pane.
func (s *State) SetSize(width, height int) {
	s.width, s.height = width, height
	s.list.SetSize(max(10, width), max(3, height-listChrome))
}
