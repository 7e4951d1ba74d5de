package fuel

import (
	"errors"
	"fmt"
	"strings"
)

// Type is a fuel grade that ranking and price data are scoped to.
type Type string

const (
	E10    Type = "E10"
	U91    Type = "U91"
	P95    Type = "P95"
	P98    Type = "P98"
	Diesel Type = "PDL"
	LPG    Type = "LPG"
	EV     Type = "EV"
)

// Default is selected when nothing else is configured.
const Default = E10

// ErrUnknown is returned for values outside the fixed set of fuel grades.
var ErrUnknown = errors.New("unknown fuel type")

var all = []Type{E10, U91, P95, P98, Diesel, LPG, EV}

// All returns the fuel grades in display order.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// Parse resolves a code (case-insensitive) or the "Diesel" alias.
func Parse(s string) (Type, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "DIESEL" {
		return Diesel, nil
	}
	for _, t := range all {
		if string(t) == v {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Valid reports whether t is one of the enumerated grades.
func (t Type) Valid() bool {
	return t.index() >= 0
}

// Label is the human name shown in tabs and popups.
func (t Type) Label() string {
	if t == Diesel {
		return "Diesel"
	}
	return string(t)
}

func (t Type) Next() Type {
	i := t.index()
	if i < 0 {
		return Default
	}
	return all[(i+1)%len(all)]
}

func (t Type) Prev() Type {
	i := t.index()
	if i < 0 {
		return Default
	}
	return all[(i-1+len(all))%len(all)]
}

func (t Type) index() int {
	for i, v := range all {
		if v == t {
			return i
		}
	}
	return -1
}
