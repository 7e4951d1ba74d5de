package client

import (
	"fmt"

	"github.com/sumwatshade/fueldash/cmd/fuel"
)

// FetchFailedError covers every way a backend call can fail: transport,
// timeout, non-2xx status or an unreadable body. FuelType is set for ranking
// fetches so callers can correlate the failure with their current selection;
// StationID likewise for history fetches.
type FetchFailedError struct {
	Op        string
	FuelType  fuel.Type
	StationID string
	Cause     error
}

func (e *FetchFailedError) Error() string {
	if e.FuelType != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.FuelType, e.Cause)
	}
	if e.StationID != "" {
		return fmt.Sprintf("%s (station %s): %v", e.Op, e.StationID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *FetchFailedError) Unwrap() error {
	return e.Cause
}
