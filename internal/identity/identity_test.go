package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerive_Deterministic(t *testing.T) {
	date := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	first := Derive("/a", "Hill Walk", &date)
	second := Derive("/a", "Hill Walk", &date)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestDerive_NilDateUsesSentinel(t *testing.T) {
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	withDate := Derive("/a", "Hill Walk", &date)
	withoutDate := Derive("/a", "Hill Walk", nil)

	assert.NotEqual(t, withDate, withoutDate)
	// The sentinel keeps dateless listings deterministic too.
	assert.Equal(t, withoutDate, Derive("/a", "Hill Walk", nil))
}

func TestDerive_DistinctTriplesDistinctIDs(t *testing.T) {
	date := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	other := date.Add(24 * time.Hour)

	base := Derive("/a", "Hill Walk", &date)

	assert.NotEqual(t, base, Derive("/b", "Hill Walk", &date))
	assert.NotEqual(t, base, Derive("/a", "Ridge Walk", &date))
	assert.NotEqual(t, base, Derive("/a", "Hill Walk", &other))
}

func TestDerive_TimezoneNormalized(t *testing.T) {
	utc := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CET", 3600))

	assert.Equal(t, Derive("/a", "Hill Walk", &utc), Derive("/a", "Hill Walk", &offset))
}
