package mapview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/sumwatshade/fueldash/cmd/markers"
)

type stationList []client.Station

func (l stationList) All() []client.Station { return l }

func (l stationList) Get(id string) (client.Station, bool) {
	for _, s := range l {
		if s.ID == id {
			return s, true
		}
	}
	return client.Station{}, false
}

func (l stationList) Has(id string) bool {
	_, ok := l.Get(id)
	return ok
}

var sydney = Camera{Lat: -33.8688, Lng: 151.2093, Zoom: 11}

var testStations = stationList{
	{ID: "mascot", Name: "Metro Mascot", Brand: "Metro", Address: "1 Botany Rd", Latitude: -33.93, Longitude: 151.19,
		Prices: []client.PricePoint{{FuelTypeLabel: "E10", Price: decimal.RequireFromString("171.9"), UpdatedRaw: "2025-01-15T02:30:00"}}},
	{ID: "ryde", Name: "Ampol Ryde", Latitude: -33.815, Longitude: 151.103},
	{ID: "bondi", Name: "7-Eleven Bondi", Latitude: -33.8915, Longitude: 151.2767},
	{ID: "newcastle", Name: "Shell Newcastle", Latitude: -32.93, Longitude: 151.78},
}

func newMap(t *testing.T) (*Model, *markers.Map) {
	t.Helper()
	handles := markers.New(testStations)
	m := New(testStations, handles, sydney, nil)
	m.SetLocation(time.FixedZone("AEDT", 11*60*60))
	m.SetSize(80, 20)
	return m, handles
}

// land finishes the current flight.
func land(t *testing.T, m *Model) {
	t.Helper()
	require.NotNil(t, m.flight)
	m.Update(frameMsg{ticket: m.flight.ticket, at: m.flight.start.Add(m.flight.d)})
}

func TestSyncMountsVisibleMarkers(t *testing.T) {
	m, handles := newMap(t)

	assert.Equal(t, []string{"bondi", "mascot", "ryde"}, handles.IDs())
	assert.Equal(t, 3, m.Mounted())
	_, ok := handles.Lookup("newcastle")
	assert.False(t, ok)
}

func TestZeroSizeMountsNothing(t *testing.T) {
	handles := markers.New(testStations)
	m := New(testStations, handles, sydney, nil)
	m.Sync()
	assert.Zero(t, handles.Len())
}

func TestFlyToRemountsMarkers(t *testing.T) {
	m, handles := newMap(t)
	mascot, ok := handles.Lookup("mascot")
	require.True(t, ok)

	require.NotNil(t, m.FlyTo(-32.93, 151.78, 15, time.Second))
	land(t, m)

	assert.Equal(t, Camera{Lat: -32.93, Lng: 151.78, Zoom: 15}, m.Camera())
	assert.Equal(t, []string{"newcastle"}, handles.IDs())

	// the old handle is dead once unmounted
	mascot.OpenPopup()
	_, open := m.PopupStation()
	assert.False(t, open)

	h, ok := handles.Lookup("newcastle")
	require.True(t, ok)
	h.OpenPopup()
	id, open := m.PopupStation()
	assert.True(t, open)
	assert.Equal(t, "newcastle", id)
}

func TestFlightFramesInterpolate(t *testing.T) {
	m, _ := newMap(t)
	m.FlyTo(-33.93, 151.19, 15, time.Second)
	f := m.flight

	next := m.Update(frameMsg{ticket: f.ticket, at: f.start.Add(500 * time.Millisecond)})
	assert.NotNil(t, next)
	cam := m.Camera()
	assert.InDelta(t, (-33.8688-33.93)/2, cam.Lat, 1e-9)
	assert.InDelta(t, 13, cam.Zoom, 1e-9)
}

func TestSupersededFlightIsIgnored(t *testing.T) {
	m, _ := newMap(t)
	m.FlyTo(-32.93, 151.78, 15, time.Second)
	stale := m.flight.ticket
	m.FlyTo(-33.93, 151.19, 14, time.Second)

	assert.Nil(t, m.Update(frameMsg{ticket: stale, at: time.Now().Add(time.Hour)}))
	assert.Equal(t, sydney, m.Camera())

	land(t, m)
	assert.Equal(t, Camera{Lat: -33.93, Lng: 151.19, Zoom: 14}, m.Camera())
}

func TestZeroDurationJumps(t *testing.T) {
	m, handles := newMap(t)
	assert.Nil(t, m.FlyTo(-32.93, 151.78, 15, 0))
	assert.Equal(t, []string{"newcastle"}, handles.IDs())
}

func TestPopupClosesWhenMarkerUnmounts(t *testing.T) {
	m, handles := newMap(t)
	h, ok := handles.Lookup("bondi")
	require.True(t, ok)
	h.OpenPopup()

	m.FlyTo(-32.93, 151.78, 15, 0)
	_, open := m.PopupStation()
	assert.False(t, open)
}

func TestZoomBy(t *testing.T) {
	m, _ := newMap(t)
	m.ZoomBy(1)
	assert.Equal(t, 12.0, m.Camera().Zoom)
	m.ZoomBy(100)
	assert.Equal(t, float64(maxZoom), m.Camera().Zoom)
	m.ZoomBy(-100)
	assert.Equal(t, float64(minZoom), m.Camera().Zoom)
}

func TestPopupView(t *testing.T) {
	m, handles := newMap(t)
	m.SetHighlight("E10")
	h, ok := handles.Lookup("mascot")
	require.True(t, ok)
	h.OpenPopup()

	view := m.View()
	assert.Contains(t, view, "Metro Mascot")
	assert.Contains(t, view, "171.9c")
	assert.Contains(t, view, "Jan 15 13:30")
	assert.Contains(t, view, "3 markers")

	m.ClosePopup()
	assert.NotContains(t, m.View(), "Metro Mascot")
}

type historyStub struct {
	points map[string][]client.HistoryPoint
	calls  []string
}

func (h *historyStub) FetchHistory(ctx context.Context, id string) ([]client.HistoryPoint, error) {
	h.calls = append(h.calls, id)
	pts, ok := h.points[id]
	if !ok {
		return nil, &client.FetchFailedError{Op: "fetch history", StationID: id, Cause: errors.New("unexpected status code: 404")}
	}
	return pts, nil
}

func week(label string, prices ...float64) []client.HistoryPoint {
	start := time.Date(2025, 1, 8, 2, 30, 0, 0, time.UTC)
	var out []client.HistoryPoint
	for i, p := range prices {
		out = append(out, client.HistoryPoint{
			FuelTypeLabel: label,
			Price:         decimal.NewFromFloat(p),
			CapturedAt:    start.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
	return out
}

func openPopup(t *testing.T, handles *markers.Map, id string) {
	t.Helper()
	h, ok := handles.Lookup(id)
	require.True(t, ok)
	h.OpenPopup()
}

type tick struct{}

func TestHistoryFetchedWhenPopupOpens(t *testing.T) {
	m, handles := newMap(t)
	src := &historyStub{points: map[string][]client.HistoryPoint{"mascot": week("E10", 175.9, 174.9, 172.9, 171.9)}}
	m.SetHistorySource(src, time.Second)
	m.SetHighlight("E10")

	assert.Nil(t, m.Update(tick{}), "no popup, no fetch")
	openPopup(t, handles, "mascot")
	cmd := m.Update(tick{})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "loading price history")

	assert.Nil(t, m.Update(cmd()))
	assert.Equal(t, []string{"mascot"}, src.calls)
	require.Len(t, m.history, 4)
	assert.Contains(t, m.View(), "E10 last 7 days")

	// same popup, nothing new to fetch
	assert.Nil(t, m.Update(tick{}))
}

func TestHistoryReplyForClosedPopupIsDropped(t *testing.T) {
	m, handles := newMap(t)
	src := &historyStub{points: map[string][]client.HistoryPoint{"mascot": week("E10", 175.9, 171.9)}}
	m.SetHistorySource(src, time.Second)

	openPopup(t, handles, "mascot")
	late := m.Update(tick{})()
	m.ClosePopup()

	assert.Nil(t, m.Update(late))
	assert.Empty(t, m.history)
	assert.False(t, m.historyLoading)
}

func TestHistoryReplyForPreviousPopupIsDropped(t *testing.T) {
	m, handles := newMap(t)
	src := &historyStub{points: map[string][]client.HistoryPoint{
		"mascot": week("E10", 175.9, 171.9),
		"bondi":  week("U91", 181.9, 180.9, 179.9),
	}}
	m.SetHistorySource(src, time.Second)

	openPopup(t, handles, "mascot")
	late := m.Update(tick{})()
	openPopup(t, handles, "bondi")

	next := m.Update(late)
	require.NotNil(t, next, "the new popup's history is requested")
	assert.Empty(t, m.history)
	assert.True(t, m.historyLoading)

	m.Update(next())
	assert.Equal(t, []string{"mascot", "bondi"}, src.calls)
	require.Len(t, m.history, 3)
	assert.Equal(t, "U91", m.history[0].FuelTypeLabel)
	assert.Contains(t, m.View(), "U91 last 7 days")
}

func TestHistoryFailureShowsNotice(t *testing.T) {
	m, handles := newMap(t)
	m.SetHistorySource(&historyStub{}, time.Second)

	openPopup(t, handles, "ryde")
	m.Update(m.Update(tick{})())

	view := m.View()
	assert.Contains(t, view, "Ampol Ryde")
	assert.Contains(t, view, "price history unavailable")
}
