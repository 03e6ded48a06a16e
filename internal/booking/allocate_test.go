package booking

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westbethel/motel-booking/internal/model"
	"github.com/westbethel/motel-booking/internal/repository"
)

func rooms(typeID uint64, ids ...uint64) []model.Room {
	out := make([]model.Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Room{ID: id, RoomTypeID: typeID, Status: model.RoomStatusAvailable})
	}
	return out
}

func TestAllocate_DeterministicAscending(t *testing.T) {
	candidates := map[uint64][]model.Room{
		1: rooms(1, 11, 12, 13),
	}
	got, err := allocate([]uint64{1}, candidates, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint64{11}, got)

	// identical inputs always pick the same room
	again, err := allocate([]uint64{1}, candidates, nil)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestAllocate_SkipsBookedRooms(t *testing.T) {
	candidates := map[uint64][]model.Room{
		1: rooms(1, 11, 12, 13),
	}
	booked := map[uint64]struct{}{11: {}, 12: {}}
	got, err := allocate([]uint64{1}, candidates, booked)
	require.NoError(t, err)
	assert.Equal(t, []uint64{13}, got)
}

func TestAllocate_NoReuseWithinRequest(t *testing.T) {
	candidates := map[uint64][]model.Room{
		1: rooms(1, 11, 12),
	}
	got, err := allocate([]uint64{1, 1}, candidates, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint64{11, 12}, got)
}

func TestAllocate_AllOrNothing(t *testing.T) {
	candidates := map[uint64][]model.Room{
		1: rooms(1, 11),
		2: {}, // nothing free of the second type
	}
	got, err := allocate([]uint64{1, 2}, candidates, nil)
	assert.ErrorIs(t, err, repository.ErrRoomUnavailable)
	assert.Nil(t, got)
}

// With two physical rooms, two requests succeed and the third finds the
// inventory exhausted.
func TestAllocate_ThirdRequestOverTwoRoomsFails(t *testing.T) {
	candidates := map[uint64][]model.Room{
		1: rooms(1, 11, 12),
	}
	booked := map[uint64]struct{}{}

	first, err := allocate([]uint64{1}, candidates, booked)
	require.NoError(t, err)
	booked[first[0]] = struct{}{}

	second, err := allocate([]uint64{1}, candidates, booked)
	require.NoError(t, err)
	assert.NotEqual(t, first[0], second[0])
	booked[second[0]] = struct{}{}

	_, err = allocate([]uint64{1}, candidates, booked)
	assert.ErrorIs(t, err, repository.ErrRoomUnavailable)
}

func TestNewReference_Format(t *testing.T) {
	ref, err := newReference("WBM")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^WBM-[0-9A-F]{8}$`), ref)

	other, err := newReference("WBM")
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestNewInvoiceNumber_Format(t *testing.T) {
	number, err := newInvoiceNumber()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-[0-9A-F]{8}$`), number)
}
