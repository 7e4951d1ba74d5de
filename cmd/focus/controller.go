// Package focus moves the map to a ranked station and opens its popup once
// the camera has arrived.
package focus

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sumwatshade/fueldash/cmd/latest"
	"github.com/sumwatshade/fueldash/cmd/markers"
)

// Phase of the focus state machine. Idle is both initial and re-enterable.
type Phase int

const (
	Idle Phase = iota
	Transitioning
	Settled
)

func (p Phase) String() string {
	switch p {
	case Transitioning:
		return "transitioning"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

// Target is where the map should centre. StationID may be empty, in which
// case only the camera moves.
type Target struct {
	Lat       float64
	Lng       float64
	StationID string
}

// Camera is the map renderer's animated move.
type Camera interface {
	FlyTo(lat, lng float64, zoom int, d time.Duration) tea.Cmd
}

// Handles resolves a station id to its mounted marker.
type Handles interface {
	Lookup(stationID string) (markers.Handle, bool)
}

type Options struct {
	Zoom       int
	Duration   time.Duration
	PopupDelay time.Duration
}

type Controller struct {
	camera  Camera
	handles Handles
	opts    Options
	log     *slog.Logger

	phase   Phase
	target  Target
	issued  latest.Tracker[Target]
	pending latest.Ticket[Target]
}

type settledMsg struct{ ticket latest.Ticket[Target] }

type popupDueMsg struct {
	ticket latest.Ticket[Target]
	handle markers.Handle
}

func New(camera Camera, handles Handles, opts Options, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{camera: camera, handles: handles, opts: opts, log: log}
}

func (c *Controller) Phase() Phase   { return c.phase }
func (c *Controller) Target() Target { return c.target }

// Focus starts a camera transition to t, superseding any transition still in
// flight. Completion is time-bounded: it fires after the configured duration
// whether or not the renderer has finished animating.
func (c *Controller) Focus(t Target) tea.Cmd {
	ticket := c.issued.Issue(t)
	c.pending = ticket
	c.phase = Transitioning
	c.target = t
	c.log.Debug("focus", "lat", t.Lat, "lng", t.Lng, "station", t.StationID, "seq", ticket.Seq)

	move := c.camera.FlyTo(t.Lat, t.Lng, c.opts.Zoom, c.opts.Duration)
	done := tea.Tick(c.opts.Duration, func(time.Time) tea.Msg {
		return settledMsg{ticket: ticket}
	})
	return tea.Batch(move, done)
}

// Update handles transition completion and the delayed popup.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case settledMsg:
		return c.settle(m.ticket)
	case popupDueMsg:
		if !c.issued.IsCurrent(m.ticket) {
			c.log.Debug("popup superseded", "station", m.ticket.Target.StationID)
			return nil
		}
		m.handle.OpenPopup()
	}
	return nil
}

func (c *Controller) settle(ticket latest.Ticket[Target]) tea.Cmd {
	if !c.issued.IsCurrent(ticket) {
		c.log.Debug("stale focus completion ignored", "station", ticket.Target.StationID)
		return nil
	}
	c.phase = Settled
	id := ticket.Target.StationID
	if id == "" {
		return nil
	}
	h, ok := c.handles.Lookup(id)
	if !ok {
		c.log.Debug("no marker mounted for station", "station", id)
		return nil
	}
	// give the camera a moment to visibly arrive before the popup opens
	return tea.Tick(c.opts.PopupDelay, func(time.Time) tea.Msg {
		return popupDueMsg{ticket: ticket, handle: h}
	})
}
