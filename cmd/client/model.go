package client

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sumwatshade/fueldash/cmd/fuel"
)

// RankingSnapshot is one complete "cheapest N stations for a fuel type"
// result. It is replaced wholesale, never patched.
type RankingSnapshot struct {
	FuelType fuel.Type
	Title    string
	// UpdatedAt is zero when UpdatedRaw could not be parsed.
	UpdatedAt    time.Time
	UpdatedRaw   string
	Entries      []RankingEntry
	TotalRecords int
}

// RankingEntry is a single ranked station. Lat, Lng and StationID are
// optional; without coordinates the entry cannot be focused on the map.
type RankingEntry struct {
	StationLabel string
	Address      string
	Price        decimal.Decimal
	FuelType     string
	Lat          *float64
	Lng          *float64
	StationID    string
}

// HasCoordinates reports whether the entry can be located on the map.
func (e RankingEntry) HasCoordinates() bool {
	return e.Lat != nil && e.Lng != nil
}

// Station is a physical site with a stable identifier.
type Station struct {
	ID        string
	Name      string
	Brand     string
	Address   string
	Latitude  float64
	Longitude float64
	Prices    []PricePoint
}

// PriceFor returns the first price quoted for the given fuel label.
func (s Station) PriceFor(label string) (PricePoint, bool) {
	for _, p := range s.Prices {
		if p.FuelTypeLabel == label {
			return p, true
		}
	}
	return PricePoint{}, false
}

type PricePoint struct {
	FuelTypeLabel string
	Price         decimal.Decimal
	UpdatedAt     time.Time
	UpdatedRaw    string
}

// HistoryPoint is one captured price of a station, oldest first.
type HistoryPoint struct {
	FuelTypeLabel string
	Price         decimal.Decimal
	// CapturedAt is zero when CapturedRaw could not be parsed.
	CapturedAt  time.Time
	CapturedRaw string
}

// wire shapes

type statsResponse struct {
	Title         string         `json:"title"`
	DataUpdatedAt string         `json:"data_updated_at"`
	Cheapest      []rankingEntry `json:"cheapest_5"`
	TotalRecords  int            `json:"total_records"`
}

type rankingEntry struct {
	Station     string          `json:"station"`
	Address     string          `json:"address"`
	Price       decimal.Decimal `json:"price"`
	FuelType    string          `json:"fuel_type"`
	Lat         *float64        `json:"lat"`
	Lng         *float64        `json:"lng"`
	StationCode string          `json:"station_code"`
}

type stationRecord struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Brand     string        `json:"brand"`
	Address   string        `json:"address"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Prices    []priceRecord `json:"prices"`

	// flat "latest price" form served by older backends
	CurrentPrice decimal.NullDecimal `json:"current_price"`
	FuelType     *string             `json:"fuel_type"`
	LastUpdated  *string             `json:"last_updated"`
}

type priceRecord struct {
	Type    string          `json:"type"`
	Price   decimal.Decimal `json:"price"`
	Updated string          `json:"updated"`
}

type historyResponse struct {
	StationCode string          `json:"station_code"`
	History     []historyRecord `json:"history"`
}

type historyRecord struct {
	Price      decimal.Decimal `json:"price"`
	CapturedAt string          `json:"captured_at"`
	FuelType   string          `json:"fuel_type"`
}
