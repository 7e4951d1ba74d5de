package fuel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"E10", E10},
		{"u91", U91},
		{" p98 ", P98},
		{"Diesel", Diesel},
		{"PDL", Diesel},
		{"lpg", LPG},
		{"EV", EV},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("kerosene")
	require.ErrorIs(t, err, ErrUnknown)
	assert.False(t, Type("kerosene").Valid())
}

func TestCycle(t *testing.T) {
	assert.Equal(t, U91, E10.Next())
	assert.Equal(t, E10, EV.Next())
	assert.Equal(t, EV, E10.Prev())
	assert.Equal(t, Default, Type("bogus").Next())

	seen := map[Type]bool{}
	cur := E10
	for range All() {
		seen[cur] = true
		cur = cur.Next()
	}
	assert.Len(t, seen, len(All()))
	assert.Equal(t, E10, cur)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Diesel", Diesel.Label())
	assert.Equal(t, "P95", P95.Label())
}
