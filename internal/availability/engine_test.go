package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westbethel/motel-booking/internal/model"
	"github.com/westbethel/motel-booking/internal/repository"
)

// fakeInventory backs the engine's store interfaces with in-memory data.
type fakeInventory struct {
	property    *model.Property
	roomTypes   []model.RoomType
	roomsByType map[uint64][]model.Room
	booked      map[uint64]struct{}
}

func (f *fakeInventory) GetByID(_ context.Context, id uint64) (*model.Property, error) {
	if f.property == nil || f.property.ID != id {
		return nil, repository.ErrPropertyNotFound
	}
	return f.property, nil
}

func (f *fakeInventory) RoomTypesByProperty(_ context.Context, _ uint64) ([]model.RoomType, error) {
	return f.roomTypes, nil
}

func (f *fakeInventory) RoomTypesByCodes(_ context.Context, _ uint64, codes []string) ([]model.RoomType, error) {
	var out []model.RoomType
	for _, rt := range f.roomTypes {
		for _, code := range codes {
			if rt.Code == code {
				out = append(out, rt)
			}
		}
	}
	return out, nil
}

func (f *fakeInventory) AvailableRoomsByType(_ context.Context, _, roomTypeID uint64) ([]model.Room, error) {
	return f.roomsByType[roomTypeID], nil
}

func (f *fakeInventory) BookedRoomIDs(_ context.Context, _ uint64, _, _ time.Time) (map[uint64]struct{}, error) {
	if f.booked == nil {
		return map[uint64]struct{}{}, nil
	}
	return f.booked, nil
}

func rate(cents int64, currency string) *model.Money {
	m := model.NewMoney(cents, currency)
	return &m
}

func newInventory() *fakeInventory {
	return &fakeInventory{
		property: &model.Property{ID: 1, Code: "WBM", Currency: "USD"},
		roomTypes: []model.RoomType{
			{ID: 10, PropertyID: 1, Code: "QUEEN", Name: "Queen", BaseRate: rate(10000, "USD")},
			{ID: 11, PropertyID: 1, Code: "KING", Name: "King"},
		},
		roomsByType: map[uint64][]model.Room{
			10: {{ID: 100, RoomNumber: "101"}, {ID: 101, RoomNumber: "102"}, {ID: 102, RoomNumber: "103"}},
			11: {{ID: 110, RoomNumber: "201"}},
		},
	}
}

func searchRange(nights int) (time.Time, time.Time) {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, nights)
}

func TestSearch_NightlyRatesPerNight(t *testing.T) {
	inv := newInventory()
	engine := NewEngine(inv, inv, inv, nil)
	start, end := searchRange(3)

	res, err := engine.Search(context.Background(), Query{PropertyID: 1, Start: start, End: end, Adults: 2})
	require.NoError(t, err)
	require.Len(t, res.RoomTypes, 2)

	queen := res.RoomTypes[0]
	assert.Equal(t, "QUEEN", queen.Code)
	require.Len(t, queen.NightlyRates, 3)
	assert.Equal(t, "2026-09-10", queen.NightlyRates[0].Date)
	assert.Equal(t, "2026-09-12", queen.NightlyRates[2].Date)
	for _, n := range queen.NightlyRates {
		assert.Equal(t, "100.00", n.Amount)
		assert.Equal(t, "USD", n.Currency)
	}
	assert.Equal(t, "2026-09-10", res.Start)
	assert.Equal(t, "2026-09-13", res.End)
}

func TestSearch_SubtractsBookedRooms(t *testing.T) {
	inv := newInventory()
	inv.booked = map[uint64]struct{}{100: {}, 102: {}}
	engine := NewEngine(inv, inv, inv, nil)
	start, end := searchRange(2)

	res, err := engine.Search(context.Background(), Query{PropertyID: 1, Start: start, End: end, Adults: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RoomTypes[0].AvailableRooms)
	assert.Equal(t, 1, res.RoomTypes[1].AvailableRooms)
}

func TestSearch_FiltersByRoomTypeCodes(t *testing.T) {
	inv := newInventory()
	engine := NewEngine(inv, inv, inv, nil)
	start, end := searchRange(1)

	res, err := engine.Search(context.Background(), Query{
		PropertyID: 1, Start: start, End: end, Adults: 1, RoomTypeCodes: []string{"KING"},
	})
	require.NoError(t, err)
	require.Len(t, res.RoomTypes, 1)
	assert.Equal(t, "KING", res.RoomTypes[0].Code)
}

func TestSearch_PropertyCurrencyFallback(t *testing.T) {
	inv := newInventory()
	engine := NewEngine(inv, inv, inv, nil)
	start, end := searchRange(1)

	res, err := engine.Search(context.Background(), Query{
		PropertyID: 1, Start: start, End: end, Adults: 1, RoomTypeCodes: []string{"KING"},
	})
	require.NoError(t, err)
	king := res.RoomTypes[0]
	require.Len(t, king.NightlyRates, 1)
	// type without its own rate prices at zero in the property currency
	assert.Equal(t, "0.00", king.NightlyRates[0].Amount)
	assert.Equal(t, "USD", king.NightlyRates[0].Currency)
}

func TestSearch_InvalidRange(t *testing.T) {
	inv := newInventory()
	engine := NewEngine(inv, inv, inv, nil)
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	_, err := engine.Search(context.Background(), Query{PropertyID: 1, Start: day, End: day, Adults: 1})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSearch_NoMatchingRoomTypes(t *testing.T) {
	inv := newInventory()
	engine := NewEngine(inv, inv, inv, nil)
	start, end := searchRange(1)

	_, err := engine.Search(context.Background(), Query{
		PropertyID: 1, Start: start, End: end, Adults: 1, RoomTypeCodes: []string{"SUITE"},
	})
	assert.ErrorIs(t, err, ErrNoMatchingRoomTypes)
}
