// Package markers indexes live map marker handles by station id. The index
// records which marker belongs to which station; the map layer that mounts
// and unmounts markers owns their lifetime.
package markers

import (
	"errors"
	"sort"
)

// ErrUnknownStation is returned when registering a handle for an id the
// station registry does not know.
var ErrUnknownStation = errors.New("unknown station")

// Handle is a reference to a mounted marker.
type Handle interface {
	StationID() string
	OpenPopup()
}

// Membership answers whether a station id is currently known.
type Membership interface {
	Has(id string) bool
}

// Map is the station id -> marker handle registry.
type Map struct {
	handles map[string]Handle
	members Membership
}

func New(members Membership) *Map {
	return &Map{handles: map[string]Handle{}, members: members}
}

// Register records the handle of a freshly mounted marker. A second
// registration for the same id replaces the first.
func (m *Map) Register(id string, h Handle) error {
	if h == nil {
		return errors.New("nil marker handle")
	}
	if m.members != nil && !m.members.Has(id) {
		return ErrUnknownStation
	}
	m.handles[id] = h
	return nil
}

// Unregister must be called before a marker's handle becomes invalid.
func (m *Map) Unregister(id string) {
	delete(m.handles, id)
}

// Lookup returns the handle for id. A missing handle is a normal transient
// state (marker not mounted yet), not an error.
func (m *Map) Lookup(id string) (Handle, bool) {
	h, ok := m.handles[id]
	if !ok {
		return nil, false
	}
	if m.members != nil && !m.members.Has(id) {
		return nil, false
	}
	return h, true
}

// Prune drops handles whose station is no longer known and returns how many
// were removed.
func (m *Map) Prune() int {
	if m.members == nil {
		return 0
	}
	n := 0
	for id := range m.handles {
		if !m.members.Has(id) {
			delete(m.handles, id)
			n++
		}
	}
	return n
}

func (m *Map) Len() int { return len(m.handles) }

// IDs lists registered station ids in sorted order.
func (m *Map) IDs() []string {
	out := make([]string, 0, len(m.handles))
	for id := range m.handles {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
