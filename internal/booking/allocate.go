package booking

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/westbethel/motel-booking/internal/model"
	"github.com/westbethel/motel-booking/internal/repository"
)

// allocate deterministically assigns one physical room per requested
// room type.  Candidates must already be sorted ascending by id; the
// first candidate not present in the booked union and not already taken
// by this call wins.  All-or-nothing: if any requested type cannot be
// satisfied the whole allocation fails with ErrRoomUnavailable and no
// partial result escapes.
func allocate(requestedTypeIDs []uint64, candidatesByType map[uint64][]model.Room, booked map[uint64]struct{}) ([]uint64, error) {
	taken := make(map[uint64]struct{}, len(requestedTypeIDs))
	roomIDs := make([]uint64, 0, len(requestedTypeIDs))
	for _, typeID := range requestedTypeIDs {
		var picked uint64
		for _, room := range candidatesByType[typeID] {
			if _, busy := booked[room.ID]; busy {
				continue
			}
			if _, mine := taken[room.ID]; mine {
				continue
			}
			picked = room.ID
			break
		}
		if picked == 0 {
			return nil, repository.ErrRoomUnavailable
		}
		taken[picked] = struct{}{}
		roomIDs = append(roomIDs, picked)
	}
	return roomIDs, nil
}

// newReference builds a booking reference of the form CODE-8HEXUPPER,
// e.g. "WBM-9F3A21C4".  Collisions are caught by the unique index on
// bookings.reference.
func newReference(propertyCode string) (string, error) {
	return codeWithSuffix(propertyCode)
}

// newInvoiceNumber builds an invoice number of the form INV-8HEXUPPER.
func newInvoiceNumber() (string, error) {
	return codeWithSuffix("INV")
}

func codeWithSuffix(prefix string) (string, error) {
	raw := make([]byte, 4)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(raw)), nil
}
