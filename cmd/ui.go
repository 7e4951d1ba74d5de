package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/sumwatshade/fueldash/cmd/focus"
	"github.com/sumwatshade/fueldash/cmd/fuel"
	"github.com/sumwatshade/fueldash/cmd/mapview"
	"github.com/sumwatshade/fueldash/cmd/markers"
	"github.com/sumwatshade/fueldash/cmd/picker"
	"github.com/sumwatshade/fueldash/cmd/ranking"
	"github.com/sumwatshade/fueldash/cmd/stations"
)

// model wires the panes together. Each piece of state has one owner:
// ranking owns selection and snapshot, registry the station list, the map
// the markers (and through them the handle index), focus the camera intent.
type model struct {
	cfg      Config
	log      *slog.Logger
	ranking  *ranking.State
	registry *stations.Registry
	handles  *markers.Map
	mapView  *mapview.Model
	focus    *focus.Controller
	picker   *picker.Model
	width    int
	height   int
	// help / key bindings
	keys keyMap
	help bhelp.Model
}

func newModel(cfg Config, svc client.Service, log *slog.Logger) model {
	registry := stations.NewRegistry(svc, cfg.Timeout, log.With("component", "stations"))
	handles := markers.New(registry)
	mv := mapview.New(registry, handles, cfg.Center, log.With("component", "map"))
	mv.SetHighlight(string(cfg.DefaultFuel))
	mv.SetHistorySource(svc, cfg.Timeout)
	fc := focus.New(mv, handles, focus.Options{
		Zoom:       cfg.FocusZoom,
		Duration:   cfg.FocusFor,
		PopupDelay: cfg.PopupDelay,
	}, log.With("component", "focus"))

	return model{
		cfg:      cfg,
		log:      log,
		ranking:  ranking.New(svc, cfg.DefaultFuel, cfg.Timeout, log.With("component", "ranking")),
		registry: registry,
		handles:  handles,
		mapView:  mv,
		focus:    fc,
		keys:     keys,
		help:     bhelp.New(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.ranking.Init(), m.registry.Load())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		return m, m.handleKey(km)
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.layout()
	}

	// everything else fans out; each component ignores messages it does not own
	var cmds []tea.Cmd
	if m.registry.Update(msg) {
		m.handles.Prune()
		m.mapView.Sync()
	}
	cmds = append(cmds, m.ranking.Update(msg), m.focus.Update(msg), m.mapView.Update(msg))
	if m.picker != nil {
		cmds = append(cmds, m.stepPicker(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.picker != nil {
		if key.Matches(msg, m.keys.Close) {
			m.picker = nil
			return nil
		}
		return m.stepPicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m.ranking.Refresh()
	case key.Matches(msg, m.keys.NextFuel):
		return m.selectFuel(m.ranking.Selected().Next())
	case key.Matches(msg, m.keys.PrevFuel):
		return m.selectFuel(m.ranking.Selected().Prev())
	case key.Matches(msg, m.keys.PickFuel):
		m.picker = picker.New(m.ranking.Selected())
		return m.picker.Init()
	case key.Matches(msg, m.keys.Focus):
		return m.focusSelected()
	case key.Matches(msg, m.keys.ZoomIn):
		m.mapView.ZoomBy(1)
		return nil
	case key.Matches(msg, m.keys.ZoomOut):
		m.mapView.ZoomBy(-1)
		return nil
	case key.Matches(msg, m.keys.Close):
		m.mapView.ClosePopup()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return nil
	}
	if f, ok := digitFuel(msg); ok {
		return m.selectFuel(f)
	}
	// list navigation
	return m.ranking.Update(msg)
}

func (m *model) selectFuel(f fuel.Type) tea.Cmd {
	m.mapView.SetHighlight(string(f))
	return m.ranking.Select(f)
}

// stepPicker forwards msg to the open picker and applies its result.
func (m *model) stepPicker(msg tea.Msg) tea.Cmd {
	cmd := m.picker.Update(msg)
	if !m.picker.Done() {
		return cmd
	}
	choice, ok := m.picker.Choice()
	m.picker = nil
	if !ok {
		return nil
	}
	return m.selectFuel(choice)
}

// focusSelected moves the map to the entry under the cursor. Entries
// without coordinates are skipped here, before the focus controller.
func (m *model) focusSelected() tea.Cmd {
	e, ok := m.ranking.SelectedEntry()
	if !ok {
		return nil
	}
	t, ok := focusTargetFor(e, m.registry, m.cfg.NearestM)
	if !ok {
		m.log.Debug("entry has no coordinates, not focusing", "station", e.StationLabel)
		return nil
	}
	return m.focus.Focus(t)
}

type nearestFinder interface {
	Nearest(lat, lng, maxMeters float64) (client.Station, bool)
}

// focusTargetFor builds the focus target for a ranked entry. A missing
// station id is resolved from the station list by position when possible.
func focusTargetFor(e client.RankingEntry, near nearestFinder, maxMeters float64) (focus.Target, bool) {
	if !e.HasCoordinates() {
		return focus.Target{}, false
	}
	t := focus.Target{Lat: *e.Lat, Lng: *e.Lng, StationID: e.StationID}
	if t.StationID == "" && near != nil && maxMeters > 0 {
		if s, ok := near.Nearest(t.Lat, t.Lng, maxMeters); ok {
			t.StationID = s.ID
		}
	}
	return t, true
}

func digitFuel(msg tea.KeyMsg) (fuel.Type, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return "", false
	}
	r := msg.Runes[0]
	all := fuel.All()
	if r < '1' || int(r-'1') >= len(all) {
		return "", false
	}
	return all[r-'1'], true
}

func (m *model) layout() {
	leftW := leftPaneWidth(m.width)
	rightW := max(20, m.width-leftW-1)
	bodyH := max(6, m.height-4-lipgloss.Height(m.help.View(m.keys)))
	// contentStyle pads 1 row / 2 cols on each side
	m.ranking.SetSize(leftW-4, bodyH-2)
	m.mapView.SetSize(rightW-4, max(3, bodyH-2-popupReserve))
}

// rows kept below the map for the popup box and its price chart
const popupReserve = 18

func (m model) View() string {
	var left string
	if m.picker != nil {
		left = m.picker.View()
	} else {
		left = m.ranking.View()
	}
	right := m.mapView.View()

	leftW := leftPaneWidth(m.width)
	rightW := max(20, m.width-leftW-1)
	leftRendered := lipgloss.NewStyle().Width(leftW).Render(contentStyle.Render(left))
	rightRendered := lipgloss.NewStyle().Width(rightW).Render(contentStyle.Render(right))
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, dividerStyle.Render("│"), rightRendered)

	header := headerStyle.Render(appTitle) + m.status()
	sep := dividerStyle.Render(strings.Repeat("─", max(0, m.width)))
	foot := m.help.View(m.keys)
	layout := lipgloss.JoinVertical(lipgloss.Left, header, sep, columns, sep, foot)
	if m.width > 0 {
		layout = lipgloss.NewStyle().Width(m.width).Render(layout)
	}
	return layout
}

func (m model) status() string {
	switch {
	case !m.registry.Loaded():
		return statusStyle.Render("loading stations...")
	case m.registry.Err() != nil:
		return warnStyle.Render("station map unavailable: " + m.registry.Err().Error())
	default:
		return statusStyle.Render(fmt.Sprintf("%d stations · %s", m.registry.Len(), m.cfg.BaseURL))
	}
}

// 35% left, min width 34
func leftPaneWidth(total int) int {
	return max(34, int(float64(total)*0.35))
}
