package stations

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/patrickmn/go-cache"
	"github.com/sumwatshade/fueldash/cmd/client"
	"github.com/tkrajina/gpxgo/gpx"
)

const (
	nearestCacheExpiry  = 10 * time.Minute
	nearestCacheCleanup = 30 * time.Minute
	// coordinates are rounded to ~1m before keying the nearest-station cache
	nearestKeyPrecision = 5
)

// Registry owns the full station list. It is fetched once per session and
// never refreshed.
type Registry struct {
	svc     client.Service
	timeout time.Duration
	log     *slog.Logger

	requested bool
	loaded    bool
	err       error
	stations  []client.Station
	byID      map[string]int
	nearest   *cache.Cache
}

// internal message carrying the one-time load result
type loadedMsg struct {
	stations []client.Station
	err      error
}

func NewRegistry(svc client.Service, timeout time.Duration, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		svc:     svc,
		timeout: timeout,
		log:     log,
		byID:    map[string]int{},
		nearest: cache.New(nearestCacheExpiry, nearestCacheCleanup),
	}
}

// Load returns the fetch command the first time it is called and nil after.
func (r *Registry) Load() tea.Cmd {
	if r.requested {
		return nil
	}
	r.requested = true
	svc, timeout := r.svc, r.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		st, err := svc.FetchStations(ctx)
		return loadedMsg{stations: st, err: err}
	}
}

// Update applies the load result. It reports whether the registry changed.
func (r *Registry) Update(msg tea.Msg) bool {
	m, ok := msg.(loadedMsg)
	if !ok || r.loaded {
		return false
	}
	r.loaded = true
	if m.err != nil {
		// an empty map is still a usable dashboard
		r.err = m.err
		r.log.Warn("station load failed", "err", m.err)
		return true
	}
	r.index(m.stations)
	r.log.Info("stations loaded", "count", len(r.stations))
	return true
}

func (r *Registry) index(in []client.Station) {
	r.stations = make([]client.Station, 0, len(in))
	r.byID = make(map[string]int, len(in))
	for _, s := range in {
		if _, dup := r.byID[s.ID]; dup {
			r.log.Warn("duplicate station id ignored", "id", s.ID, "name", s.Name)
			continue
		}
		r.byID[s.ID] = len(r.stations)
		r.stations = append(r.stations, s)
	}
}

func (r *Registry) Loaded() bool { return r.loaded }
func (r *Registry) Err() error   { return r.err }
func (r *Registry) Len() int     { return len(r.stations) }

// All returns a copy of the station list.
func (r *Registry) All() []client.Station {
	out := make([]client.Station, len(r.stations))
	copy(out, r.stations)
	return out
}

func (r *Registry) Get(id string) (client.Station, bool) {
	i, ok := r.byID[id]
	if !ok {
		return client.Station{}, false
	}
	return r.stations[i], true
}

// Has reports whether id belongs to a known station.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Nearest returns the closest station within maxMeters of the point.
func (r *Registry) Nearest(lat, lng, maxMeters float64) (client.Station, bool) {
	key := fmt.Sprintf("%.*f,%.*f,%g", nearestKeyPrecision, lat, nearestKeyPrecision, lng, maxMeters)
	if cached, found := r.nearest.Get(key); found {
		id := cached.(string)
		if id == "" {
			return client.Station{}, false
		}
		return r.Get(id)
	}

	best, bestDist := -1, math.MaxFloat64
	for i, s := range r.stations {
		d := gpx.Distance2D(lat, lng, s.Latitude, s.Longitude, true)
		if d <= maxMeters && d < bestDist {
			best, bestDist = i, d
		}
	}
	id := ""
	if best >= 0 {
		id = r.stations[best].ID
	}
	// only cache once the list is final
	if r.loaded {
		r.nearest.Set(key, id, cache.DefaultExpiration)
	}
	if best < 0 {
		return client.Station{}, false
	}
	return r.stations[best], true
}
