package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWalkDate_DatetimeAttribute(t *testing.T) {
	got := parseWalkDate("2025-03-12T09:00:00Z", "")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), got.UTC())
}

func TestParseWalkDate_AttributeWithoutZone(t *testing.T) {
	got := parseWalkDate("2025-03-12T09:00:00", "")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), *got)
}

func TestParseWalkDate_FallsBackToFreeText(t *testing.T) {
	got := parseWalkDate("not-a-date", "Wednesday 12 March 2025 9:00 am")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), *got)
}

func TestParseWalkDate_FreeTextTwelveHour(t *testing.T) {
	got := parseWalkDate("", "12 March 2025 1:30 pm")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 12, 13, 30, 0, 0, time.UTC), *got)
}

func TestParseWalkDate_FreeTextTwentyFourHour(t *testing.T) {
	got := parseWalkDate("", "12 March 2025 14:30")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC), *got)
}

func TestParseWalkDate_DateOnlyDefaultsToMidnight(t *testing.T) {
	got := parseWalkDate("", "12 March 2025")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseWalkDate_CompactMeridiem(t *testing.T) {
	got := parseWalkDate("", "12 March 2025 10:15am")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 12, 10, 15, 0, 0, time.UTC), *got)
}

func TestParseWalkDate_UnparseableYieldsNil(t *testing.T) {
	assert.Nil(t, parseWalkDate("", "meet at the usual car park"))
	assert.Nil(t, parseWalkDate("", ""))
	assert.Nil(t, parseWalkDate("garbage", "more garbage"))
}
