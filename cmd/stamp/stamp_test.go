package stamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sydney = time.FixedZone("AEDT", 11*60*60)

func TestParseAssumesUTCWithoutDesignator(t *testing.T) {
	naive, err := Parse("2025-01-15T02:30:00")
	require.NoError(t, err)
	explicit, err := Parse("2025-01-15T02:30:00Z")
	require.NoError(t, err)

	assert.True(t, naive.Equal(explicit))
	assert.Equal(t, time.Date(2025, 1, 15, 2, 30, 0, 0, time.UTC), naive)
}

func TestParseVariants(t *testing.T) {
	want := time.Date(2025, 1, 15, 2, 30, 0, 0, time.UTC)
	for _, raw := range []string{
		"2025-01-15 02:30:00",
		"2025-01-15T02:30:00.000000",
		"2025-01-15T13:30:00+11:00",
		"2025-01-15T02:30Z",
		"2025-01-15T02:30:00z",
		"2025-01-15 02:30",
	} {
		got, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed to %s", raw, got)
	}
}

func TestDisplayLowerCaseDesignator(t *testing.T) {
	assert.Equal(t, "Jan 15 13:30", Display("2025-01-15T02:30:00z", sydney))
}

func TestFormatDoesNotDoubleOffset(t *testing.T) {
	// 02:30 UTC is 13:30 in Sydney summer time, not 13:30+11h
	assert.Equal(t, "Jan 15 13:30", Display("2025-01-15T02:30:00", sydney))
	assert.Equal(t, "Jan 15 13:30", Display("2025-01-15T02:30:00Z", sydney))
}

func TestDisplayFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "yesterday-ish", Display("yesterday-ish", sydney))
	assert.Equal(t, "", Display("", sydney))
}

func TestRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 1, 15, 2, 30, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 23, 59, 42, 0, time.UTC),
		time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, in := range instants {
		shown := Format(in, sydney)
		back, err := Reparse(shown, sydney, in)
		require.NoError(t, err)
		assert.True(t, in.Truncate(time.Minute).Equal(back), "%s -> %q -> %s", in, shown, back)
	}
}
