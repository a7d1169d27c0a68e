package civiltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saoPaulo(t *testing.T) *Normalizer {
	t.Helper()
	n, err := Load("America/Sao_Paulo")
	require.NoError(t, err)
	return n
}

func TestParse_NaiveAttachesZone(t *testing.T) {
	n := saoPaulo(t)

	got, err := n.Parse("2025-07-31T20:00:00")
	require.NoError(t, err)

	assert.Equal(t, "2025-07-31T20:00:00-03:00", got.Format(time.RFC3339))
	assert.Equal(t, n.Location(), got.Location())
}

func TestParse_ZonedConvertsSameInstant(t *testing.T) {
	n := saoPaulo(t)

	got, err := n.Parse("2025-07-31T23:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, "2025-07-31T20:00:00-03:00", got.Format(time.RFC3339))
	assert.True(t, got.Equal(time.Date(2025, 7, 31, 23, 0, 0, 0, time.UTC)))
}

func TestParse_OtherLayouts(t *testing.T) {
	n := saoPaulo(t)

	cases := map[string]string{
		"2025-07-31 20:00:00":       "2025-07-31T20:00:00-03:00",
		"2025-07-31T20:00":          "2025-07-31T20:00:00-03:00",
		"2025-07-31":                "2025-07-31T00:00:00-03:00",
		"2025-07-31T22:00:00+01:00": "2025-07-31T18:00:00-03:00",
		"2025-07-31T20:00:00.5":     "2025-07-31T20:00:00-03:00",
	}
	for in, want := range cases {
		got, err := n.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.Format(time.RFC3339), in)
	}
}

func TestParse_Invalid(t *testing.T) {
	n := saoPaulo(t)

	_, err := n.Parse("tomorrow")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = n.Parse("   ")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestParsePtr_AbsentStaysAbsent(t *testing.T) {
	n := saoPaulo(t)

	got, err := n.ParsePtr(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, n.Normalize(nil))
}

func TestRunAt_AbsoluteAcrossOffsetChange(t *testing.T) {
	n, err := Load("America/New_York")
	require.NoError(t, err)

	// DST starts 2025-03-09 02:00 local; the wall clock skips an hour.
	due, err := n.Parse("2025-03-09T12:00:00")
	require.NoError(t, err)

	runAt := RunAt(due, 24*time.Hour)
	assert.Equal(t, 24*time.Hour, due.Sub(runAt))
	assert.Equal(t, "2025-03-08T11:00:00-05:00", runAt.In(n.Location()).Format(time.RFC3339))
}
