package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEnd(t *testing.T) {
	p := Period{Year: 2025, Month: 7}

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), p.End())
}

func TestEndCrossesYear(t *testing.T) {
	p := Period{Year: 2024, Month: 12}

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.End())
}

func TestPrevNext(t *testing.T) {
	tests := []struct {
		name string
		p    Period
		prev Period
		next Period
	}{
		{"mid year", Period{2025, 7}, Period{2025, 6}, Period{2025, 8}},
		{"january", Period{2025, 1}, Period{2024, 12}, Period{2025, 2}},
		{"december", Period{2024, 12}, Period{2024, 11}, Period{2025, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.prev, tt.p.Prev())
			assert.Equal(t, tt.next, tt.p.Next())
		})
	}
}

func TestContains(t *testing.T) {
	p := Period{Year: 2025, Month: 7}

	assert.True(t, p.Contains(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Period{2025, 1}.Validate())
	require.NoError(t, Period{2025, 12}.Validate())
	require.Error(t, Period{2025, 0}.Validate())
	require.Error(t, Period{2025, 13}.Validate())
	require.Error(t, Period{0, 5}.Validate())
}

func TestOf(t *testing.T) {
	// Local time east of UTC on the first of the month still maps by UTC.
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2025, 8, 1, 1, 30, 0, 0, loc) // 2025-07-31T22:30Z

	assert.Equal(t, Period{2025, 7}, Of(ts))
}

func TestString(t *testing.T) {
	assert.Equal(t, "2025-07", Period{2025, 7}.String())
	assert.Equal(t, "2024-12", Period{2024, 12}.String())
}
