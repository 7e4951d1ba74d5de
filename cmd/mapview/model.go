// Package mapview is a minimal station map: it projects stations onto a
// terminal canvas, mounts markers for the ones inside the viewport and shows
// one station popup at a time.
package mapview

import (
	"log/slog"
	"math"
	"time"

	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/sumwatshade/fueldash/cmd/latest"
	"github.com/sumwatshade/fueldash/cmd/markers"
)

const (
	tileSize = 256.0
	// terminal cells are roughly twice as tall as wide
	cellWidthPx  = 8.0
	cellHeightPx = 16.0
	minZoom      = 1
	maxZoom      = 19
)

// Camera is the visible centre and zoom level.
type Camera struct {
	Lat  float64
	Lng  float64
	Zoom float64
}

// Stations is the read side of the station registry.
type Stations interface {
	All() []client.Station
	Get(id string) (client.Station, bool)
}

// Registrar receives marker mount/unmount events.
type Registrar interface {
	Register(id string, h markers.Handle) error
	Unregister(id string)
}

type Model struct {
	stations Stations
	handles  Registrar
	log      *slog.Logger

	camera  Camera
	flight  *flight
	flights latest.Tracker[Camera]

	width   int
	height  int
	mounted map[string]*marker
	popup   string
	// fuel label to emphasise in the popup
	highlight string
	loc       *time.Location

	// price history of the popup station
	historySrc     HistorySource
	historyTimeout time.Duration
	histories      latest.Tracker[string]
	historyFor     string
	history        []client.HistoryPoint
	historyErr     error
	historyLoading bool
}

type flight struct {
	ticket latest.Ticket[Camera]
	from   Camera
	to     Camera
	start  time.Time
	d      time.Duration
}

// marker is the handle given to the registry. It stays valid until the
// marker leaves the viewport.
type marker struct {
	id   string
	col  int
	row  int
	live bool
	m    *Model
}

func (k *marker) StationID() string { return k.id }

// OpenPopup is a no-op once the marker has been unmounted.
func (k *marker) OpenPopup() {
	if k.live {
		k.m.popup = k.id
	}
}

func New(stations Stations, handles Registrar, center Camera, log *slog.Logger) *Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	center.Zoom = clampZoom(center.Zoom)
	return &Model{
		stations: stations,
		handles:  handles,
		log:      log,
		camera:   center,
		mounted:  map[string]*marker{},
		loc:      time.Local,
	}
}

func (m *Model) Camera() Camera { return m.camera }

// PopupStation returns the id of the station whose popup is open.
func (m *Model) PopupStation() (string, bool) { return m.popup, m.popup != "" }

func (m *Model) ClosePopup() { m.popup = "" }

func (m *Model) SetHighlight(label string) { m.highlight = label }

func (m *Model) SetLocation(loc *time.Location) {
	if loc != nil {
		m.loc = loc
	}
}

// SetSize sets the canvas size in cells and re-evaluates mounted markers.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = max(0, width), max(0, height)
	m.Sync()
}

// ZoomBy changes the zoom level immediately, cancelling any flight.
func (m *Model) ZoomBy(delta int) {
	m.flight = nil
	m.flights.Issue(m.camera)
	m.camera.Zoom = clampZoom(math.Round(m.camera.Zoom) + float64(delta))
	m.Sync()
}

// Sync mounts markers for stations inside the viewport and unmounts the
// rest. Handles are unregistered before they are invalidated.
func (m *Model) Sync() {
	seen := make(map[string]bool, len(m.mounted))
	for _, s := range m.stations.All() {
		col, row, ok := m.project(s.Latitude, s.Longitude)
		if !ok {
			continue
		}
		seen[s.ID] = true
		if k, exists := m.mounted[s.ID]; exists {
			k.col, k.row = col, row
			continue
		}
		k := &marker{id: s.ID, col: col, row: row, live: true, m: m}
		if err := m.handles.Register(s.ID, k); err != nil {
			m.log.Warn("marker not registered", "station", s.ID, "err", err)
			continue
		}
		m.mounted[s.ID] = k
	}
	for id, k := range m.mounted {
		if seen[id] {
			continue
		}
		m.handles.Unregister(id)
		k.live = false
		delete(m.mounted, id)
		if m.popup == id {
			m.popup = ""
		}
	}
}

// Mounted reports how many markers are on screen.
func (m *Model) Mounted() int { return len(m.mounted) }

// project maps a coordinate to a canvas cell relative to the camera.
func (m *Model) project(lat, lng float64) (col, row int, ok bool) {
	if m.width == 0 || m.height == 0 {
		return 0, 0, false
	}
	cx, cy := worldPixel(m.camera.Lat, m.camera.Lng, m.camera.Zoom)
	x, y := worldPixel(lat, lng, m.camera.Zoom)
	col = int(math.Round((x-cx)/cellWidthPx)) + m.width/2
	row = int(math.Round((y-cy)/cellHeightPx)) + m.height/2
	ok = col >= 0 && col < m.width && row >= 0 && row < m.height
	return col, row, ok
}

// worldPixel is the Web Mercator pixel position at the given zoom.
func worldPixel(lat, lng, zoom float64) (float64, float64) {
	scale := tileSize * math.Pow(2, zoom)
	x := (lng + 180) / 360 * scale
	sin := math.Sin(lat * math.Pi / 180)
	sin = math.Min(math.Max(sin, -0.9999), 0.9999)
	y := (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}

func clampZoom(z float64) float64 {
	return math.Min(math.Max(z, minZoom), maxZoom)
}
