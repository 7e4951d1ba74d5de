package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sumwatshade/fueldash/cmd/fuel"
	"github.com/sumwatshade/fueldash/cmd/stamp"
)

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// minValidPrice is in cents; anything at or below it is a placeholder.
var minValidPrice = decimal.NewFromInt(10)

// Service fetches ranking, station and price history data from the
// dashboard backend.
type Service interface {
	FetchRanking(ctx context.Context, f fuel.Type) (RankingSnapshot, error)
	FetchStations(ctx context.Context) ([]Station, error)
	FetchHistory(ctx context.Context, stationID string) ([]HistoryPoint, error)
}

var _ Service = (*httpService)(nil)

type httpService struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*httpService)

func WithHTTPClient(c *http.Client) Option {
	return func(s *httpService) { s.httpClient = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *httpService) { s.log = l }
}

// NewService returns a Service talking to the backend at baseURL.
func NewService(baseURL string, opts ...Option) Service {
	s := &httpService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FetchRanking retrieves the cheapest stations for f. The returned snapshot
// is tagged with f, the fuel type the request targeted.
func (s *httpService) FetchRanking(ctx context.Context, f fuel.Type) (RankingSnapshot, error) {
	if !f.Valid() {
		return RankingSnapshot{}, fmt.Errorf("fetch ranking: %w: %q", fuel.ErrUnknown, f)
	}
	q := url.Values{"fuel_type": {string(f)}}
	var body statsResponse
	if err := s.getJSON(ctx, "/api/stats?"+q.Encode(), &body); err != nil {
		return RankingSnapshot{}, &FetchFailedError{Op: "fetch ranking", FuelType: f, Cause: err}
	}

	snap := RankingSnapshot{
		FuelType:     f,
		Title:        body.Title,
		UpdatedRaw:   body.DataUpdatedAt,
		TotalRecords: body.TotalRecords,
		Entries:      make([]RankingEntry, 0, len(body.Cheapest)),
	}
	if t, err := stamp.Parse(body.DataUpdatedAt); err == nil {
		snap.UpdatedAt = t
	}
	for _, e := range body.Cheapest {
		snap.Entries = append(snap.Entries, e.toEntry())
	}
	return snap, nil
}

// FetchStations retrieves the full station list.
func (s *httpService) FetchStations(ctx context.Context) ([]Station, error) {
	var body []stationRecord
	if err := s.getJSON(ctx, "/api/stations", &body); err != nil {
		return nil, &FetchFailedError{Op: "fetch stations", Cause: err}
	}
	out := make([]Station, 0, len(body))
	for _, r := range body {
		if strings.TrimSpace(r.Code) == "" {
			s.log.Warn("station without code skipped", "name", r.Name)
			continue
		}
		out = append(out, r.toStation())
	}
	return out, nil
}

// ErrNoStation is returned by FetchHistory for an empty station id.
var ErrNoStation = errors.New("no station id")

// FetchHistory retrieves the last week of captured prices for one station,
// in capture order.
func (s *httpService) FetchHistory(ctx context.Context, stationID string) ([]HistoryPoint, error) {
	id := strings.TrimSpace(stationID)
	if id == "" {
		return nil, fmt.Errorf("fetch history: %w", ErrNoStation)
	}
	var body historyResponse
	if err := s.getJSON(ctx, "/api/station/"+url.PathEscape(id)+"/history", &body); err != nil {
		return nil, &FetchFailedError{Op: "fetch history", StationID: id, Cause: err}
	}
	out := make([]HistoryPoint, 0, len(body.History))
	for _, h := range body.History {
		hp := HistoryPoint{FuelTypeLabel: h.FuelType, Price: h.Price, CapturedRaw: h.CapturedAt}
		if t, err := stamp.Parse(h.CapturedAt); err == nil {
			hp.CapturedAt = t
		}
		out = append(out, hp)
	}
	return out, nil
}

func (s *httpService) getJSON(ctx context.Context, path string, v any) error {
	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn("request failed", "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("error fetching data: %w", err)
	}
	defer resp.Body.Close()
	s.log.Debug("request done", "path", path, "request_id", reqID, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error unmarshaling JSON: %w", err)
	}
	return nil
}

func (e rankingEntry) toEntry() RankingEntry {
	out := RankingEntry{
		StationLabel: e.Station,
		Address:      e.Address,
		Price:        e.Price,
		FuelType:     e.FuelType,
		StationID:    strings.TrimSpace(e.StationCode),
	}
	// the backend reports 0,0 for stations it could not join
	if e.Lat != nil && e.Lng != nil && !(*e.Lat == 0 && *e.Lng == 0) {
		out.Lat, out.Lng = e.Lat, e.Lng
	}
	return out
}

func (r stationRecord) toStation() Station {
	st := Station{
		ID:        strings.TrimSpace(r.Code),
		Name:      r.Name,
		Brand:     r.Brand,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
	for _, p := range r.Prices {
		st.Prices = append(st.Prices, newPricePoint(p.Type, p.Price, p.Updated))
	}
	if len(r.Prices) == 0 && r.FuelType != nil && r.CurrentPrice.Valid && r.CurrentPrice.Decimal.GreaterThan(minValidPrice) {
		updated := ""
		if r.LastUpdated != nil {
			updated = *r.LastUpdated
		}
		st.Prices = append(st.Prices, newPricePoint(*r.FuelType, r.CurrentPrice.Decimal, updated))
	}
	return st
}

func newPricePoint(label string, price decimal.Decimal, updated string) PricePoint {
	pp := PricePoint{FuelTypeLabel: label, Price: price, UpdatedRaw: updated}
	if t, err := stamp.Parse(updated); err == nil {
		pp.UpdatedAt = t
	}
	return pp
}
