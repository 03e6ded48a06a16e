package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func cacheQuery() Query {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return Query{
		PropertyID:    1,
		Start:         start,
		End:           start.AddDate(0, 0, 3),
		Adults:        2,
		RoomTypeCodes: []string{"QUEEN"},
	}
}

func TestVersionedKey_StableForSameQuery(t *testing.T) {
	q := cacheQuery()
	assert.Equal(t, versionedKey("avail", 4, q), versionedKey("avail", 4, q))
}

func TestVersionedKey_VersionBumpOrphansKey(t *testing.T) {
	q := cacheQuery()
	// a result computed at version 4 must never be addressable once a
	// booking mutation moves the property to version 5
	assert.NotEqual(t, versionedKey("avail", 4, q), versionedKey("avail", 5, q))
}

func TestVersionedKey_QueryParametersChangeKey(t *testing.T) {
	q := cacheQuery()
	base := versionedKey("avail", 1, q)

	other := q
	other.Adults = 3
	assert.NotEqual(t, base, versionedKey("avail", 1, other))

	other = q
	other.RoomTypeCodes = nil
	assert.NotEqual(t, base, versionedKey("avail", 1, other))

	other = q
	other.End = q.End.AddDate(0, 0, 1)
	assert.NotEqual(t, base, versionedKey("avail", 1, other))
}
