package focus

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumwatshade/fueldash/cmd/markers"
)

type flight struct {
	lat, lng float64
	zoom     int
	d        time.Duration
}

type recordingCamera struct{ flights []flight }

func (c *recordingCamera) FlyTo(lat, lng float64, zoom int, d time.Duration) tea.Cmd {
	c.flights = append(c.flights, flight{lat, lng, zoom, d})
	return nil
}

type handle struct {
	id     string
	opened int
}

func (h *handle) StationID() string { return h.id }
func (h *handle) OpenPopup()        { h.opened++ }

type handleSet map[string]*handle

func (s handleSet) Lookup(id string) (markers.Handle, bool) {
	h, ok := s[id]
	if !ok {
		return nil, false
	}
	return h, true
}

var opts = Options{Zoom: 15, Duration: 1500 * time.Millisecond, PopupDelay: time.Millisecond}

func newController() (*Controller, *recordingCamera, handleSet) {
	cam := &recordingCamera{}
	hs := handleSet{"A": {id: "A"}, "B": {id: "B"}}
	return New(cam, hs, opts, nil), cam, hs
}

// settle delivers the transition completion for the given ticket and runs
// the resulting popup delay, if any.
func settle(t *testing.T, c *Controller, msg settledMsg) {
	t.Helper()
	cmd := c.Update(msg)
	if cmd == nil {
		return
	}
	c.Update(cmd())
}

func TestFocusMovesCamera(t *testing.T) {
	c, cam, hs := newController()
	assert.Equal(t, Idle, c.Phase())

	target := Target{Lat: -33.93, Lng: 151.19, StationID: "A"}
	require.NotNil(t, c.Focus(target))
	assert.Equal(t, Transitioning, c.Phase())
	assert.Equal(t, target, c.Target())
	require.Len(t, cam.flights, 1)
	assert.Equal(t, flight{-33.93, 151.19, 15, 1500 * time.Millisecond}, cam.flights[0])

	settle(t, c, settledMsg{ticket: c.pending})
	assert.Equal(t, Settled, c.Phase())
	assert.Equal(t, 1, hs["A"].opened)
}

func TestSupersededFocusOpensOnlyLatestPopup(t *testing.T) {
	c, cam, hs := newController()

	c.Focus(Target{Lat: 1, Lng: 1, StationID: "A"})
	first := c.pending
	c.Focus(Target{Lat: 2, Lng: 2, StationID: "B"})
	second := c.pending

	// A's timer fires late, after B was requested
	settle(t, c, settledMsg{ticket: first})
	assert.Equal(t, Transitioning, c.Phase())
	assert.Zero(t, hs["A"].opened)

	settle(t, c, settledMsg{ticket: second})
	assert.Equal(t, Settled, c.Phase())
	assert.Zero(t, hs["A"].opened)
	assert.Equal(t, 1, hs["B"].opened)
	assert.Len(t, cam.flights, 2)
}

func TestFocusDuringPopupDelayCancelsPopup(t *testing.T) {
	c, _, hs := newController()

	c.Focus(Target{Lat: 1, Lng: 1, StationID: "A"})
	popup := c.Update(settledMsg{ticket: c.pending})
	require.NotNil(t, popup)

	c.Focus(Target{Lat: 2, Lng: 2, StationID: "B"})
	c.Update(popup())
	assert.Zero(t, hs["A"].opened)
	assert.Zero(t, hs["B"].opened)
}

func TestFocusWithoutStationOnlyMovesCamera(t *testing.T) {
	c, cam, hs := newController()
	c.Focus(Target{Lat: 3, Lng: 3})

	assert.Nil(t, c.Update(settledMsg{ticket: c.pending}))
	assert.Equal(t, Settled, c.Phase())
	assert.Len(t, cam.flights, 1)
	assert.Zero(t, hs["A"].opened+hs["B"].opened)
}

func TestFocusWithUnmountedMarker(t *testing.T) {
	c, _, _ := newController()
	c.Focus(Target{Lat: 3, Lng: 3, StationID: "not-mounted"})

	assert.Nil(t, c.Update(settledMsg{ticket: c.pending}))
	assert.Equal(t, Settled, c.Phase())
}

func TestRefocusSameTargetOpensOnce(t *testing.T) {
	c, _, hs := newController()
	target := Target{Lat: 1, Lng: 1, StationID: "A"}

	c.Focus(target)
	first := c.pending
	c.Focus(target)

	settle(t, c, settledMsg{ticket: first})
	settle(t, c, settledMsg{ticket: c.pending})
	assert.Equal(t, 1, hs["A"].opened)
}
