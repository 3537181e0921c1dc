package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

func mustRange(t *testing.T, text string) TimeInterval {
	t.Helper()
	interval, err := ParseRange(text)
	require.NoError(t, err)
	return interval
}

func TestParseRangeFormats(t *testing.T) {
	cases := map[string]TimeInterval{
		"09:00 - 10:00": {Start: 540, End: 600},
		"9:00-10:30":    {Start: 540, End: 630},
		"18:00 – 19:15": {Start: 1080, End: 1155},
		"23:00 - 24:00": {Start: 1380, End: 1440},
		"24:00 - 01:00": {Start: 1440, End: 1500},
		"00:00 - 01:00": {Start: 1440, End: 1500},
		"01:30 - 03:00": {Start: 1530, End: 1620},
		"02:00 - 03:00": {Start: 120, End: 180},
		"23:30 - 00:30": {Start: 1410, End: 1470},
	}
	for text, want := range cases {
		got, err := ParseRange(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}
}

func TestParseRangeRejectsMalformed(t *testing.T) {
	for _, text := range []string{"", "09:00", "09:00 10:00", "9-10", "25:00 - 26:00", "09:60 - 10:00", "24:30 - 01:00", "10:00 - 10:00", "09:00 - 10:00 - 11:00"} {
		_, err := ParseRange(text)
		require.Error(t, err, text)

		var rangeErr *appErrors.MalformedRangeError
		assert.True(t, errors.As(err, &rangeErr), text)
		assert.Equal(t, appErrors.ErrMalformedRange.Code, appErrors.FromError(err).Code)
	}
}

func TestOverlapsTouchingAndPartial(t *testing.T) {
	nine := mustRange(t, "09:00 - 10:00")
	ten := mustRange(t, "10:00 - 11:00")
	half := mustRange(t, "09:30 - 10:30")

	assert.False(t, Overlaps(nine, ten))
	assert.True(t, Overlaps(nine, half))
	assert.True(t, Overlaps(nine, nine))
}

func TestOverlapsSymmetric(t *testing.T) {
	ranges := []string{"09:00 - 10:00", "09:30 - 10:30", "10:00 - 11:00", "23:00 - 24:00", "23:30 - 24:00", "00:00 - 01:00", "08:00 - 12:00"}
	for _, a := range ranges {
		for _, b := range ranges {
			ia, ib := mustRange(t, a), mustRange(t, b)
			assert.Equal(t, Overlaps(ia, ib), Overlaps(ib, ia), "%s vs %s", a, b)
		}
	}
}

func TestOverlapsMidnightEdge(t *testing.T) {
	lateEvening := mustRange(t, "23:00 - 24:00")
	earlyMorning := mustRange(t, "00:00 - 01:00")
	lastHalfHour := mustRange(t, "23:30 - 24:00")

	assert.False(t, Overlaps(lateEvening, earlyMorning), "24:00 end touches 00:00 start")
	assert.True(t, Overlaps(lateEvening, lastHalfHour))
}

func TestOverlapsAcrossMidnightSameNominalDay(t *testing.T) {
	crossing := mustRange(t, "23:30 - 00:30")

	assert.True(t, Overlaps(crossing, mustRange(t, "00:00 - 01:00")))
	assert.True(t, Overlaps(crossing, mustRange(t, "24:00 - 01:00")))
	assert.False(t, Overlaps(crossing, mustRange(t, "00:30 - 01:30")), "touching after midnight")
	assert.False(t, Overlaps(crossing, mustRange(t, "08:00 - 09:00")), "morning of the same day")
}

func TestMinutesOfNormalisesMidnight(t *testing.T) {
	minutes, err := MinutesOf("24:00")
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)

	minutes, err = MinutesOf("13:45")
	require.NoError(t, err)
	assert.Equal(t, 825, minutes)

	_, err = MinutesOf("noon")
	require.Error(t, err)
}

func TestTimeIntervalString(t *testing.T) {
	assert.Equal(t, "23:00 - 24:00", mustRange(t, "23:00-24:00").String())
	assert.Equal(t, "23:30 - 00:30", mustRange(t, "23:30 - 00:30").String())
	assert.Equal(t, "00:00 - 01:00", mustRange(t, "24:00 - 01:00").String())
	assert.Equal(t, "00:00 - 24:00", mustRange(t, "00:00 - 24:00").String())
}

func TestNormalizeDay(t *testing.T) {
	day, ok := NormalizeDay(" mon ")
	require.True(t, ok)
	assert.Equal(t, "Monday", day)

	day, ok = NormalizeDay("THURSDAY")
	require.True(t, ok)
	assert.Equal(t, "Thursday", day)

	_, ok = NormalizeDay("Someday")
	assert.False(t, ok)
}
