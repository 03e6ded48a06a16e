package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westbethel/motel-booking/internal/model"
	"github.com/westbethel/motel-booking/internal/repository"
)

// fakeCatalog backs the engine's store interfaces with in-memory data.
type fakeCatalog struct {
	property  *model.Property
	roomTypes map[uint64]*model.RoomType
	plans     map[uint64]*model.RatePlan
	addons    map[uint64]model.AddOn
}

func (f *fakeCatalog) GetByID(_ context.Context, id uint64) (*model.Property, error) {
	if f.property == nil || f.property.ID != id {
		return nil, repository.ErrPropertyNotFound
	}
	return f.property, nil
}

func (f *fakeCatalog) RoomTypeByID(_ context.Context, id uint64) (*model.RoomType, error) {
	rt, ok := f.roomTypes[id]
	if !ok {
		return nil, repository.ErrRoomTypeNotFound
	}
	return rt, nil
}

func (f *fakeCatalog) GetByPropertyAndID(_ context.Context, propertyID, id uint64) (*model.RatePlan, error) {
	plan, ok := f.plans[id]
	if !ok || plan.PropertyID != propertyID {
		return nil, repository.ErrRatePlanNotFound
	}
	return plan, nil
}

func (f *fakeCatalog) GetByIDs(_ context.Context, propertyID uint64, ids []uint64) ([]model.AddOn, error) {
	out := make([]model.AddOn, 0, len(ids))
	for _, id := range ids {
		a, ok := f.addons[id]
		if !ok || a.PropertyID != propertyID {
			return nil, repository.ErrAddOnNotFound
		}
		out = append(out, a)
	}
	return out, nil
}

func money(cents int64) *model.Money {
	m := model.NewMoney(cents, "USD")
	return &m
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		property: &model.Property{ID: 1, Code: "WBM", Currency: "USD"},
		roomTypes: map[uint64]*model.RoomType{
			10: {ID: 10, PropertyID: 1, Code: "QUEEN", Name: "Queen", BaseRate: money(10000)},
			11: {ID: 11, PropertyID: 1, Code: "KING", Name: "King"}, // no base rate
		},
		plans: map[uint64]*model.RatePlan{
			20: {ID: 20, PropertyID: 1, Name: "Standard", Channel: model.ChannelDirect},
		},
		addons: map[uint64]model.AddOn{
			30: {ID: 30, PropertyID: 1, Name: "Breakfast", Price: model.NewMoney(2500, "USD")},
		},
	}
}

func stay(nights int) (time.Time, time.Time) {
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func TestQuote_TwoRoomsTwoNights(t *testing.T) {
	engine := NewEngine(newCatalog(), newCatalog(), newCatalog(), newCatalog(), nil)
	checkIn, checkOut := stay(2)

	quote, err := engine.Quote(context.Background(), Context{
		PropertyID:  1,
		RatePlanID:  20,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      2,
		RoomTypeIDs: []uint64{10, 10},
	})
	require.NoError(t, err)
	require.Len(t, quote.Lines, 2)
	for _, line := range quote.Lines {
		assert.Equal(t, "200.00", line.Total.Amount())
		assert.Equal(t, "100.00", line.Unit.Amount())
		assert.Equal(t, uint32(2), line.Quantity)
	}
	assert.Equal(t, "400.00", quote.Base.Amount())
	assert.Equal(t, "0.00", quote.Tax.Amount())
	assert.Equal(t, "400.00", quote.Total.Amount())
	assert.Equal(t, "USD", quote.Total.Currency)
}

func TestQuote_Deterministic(t *testing.T) {
	engine := NewEngine(newCatalog(), newCatalog(), newCatalog(), newCatalog(), nil)
	checkIn, checkOut := stay(3)
	pc := Context{PropertyID: 1, RatePlanID: 20, CheckIn: checkIn, CheckOut: checkOut, Adults: 1, RoomTypeIDs: []uint64{10}, AddOnIDs: []uint64{30}}

	first, err := engine.Quote(context.Background(), pc)
	require.NoError(t, err)
	second, err := engine.Quote(context.Background(), pc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuote_AddOnPricedOncePerStay(t *testing.T) {
	engine := NewEngine(newCatalog(), newCatalog(), newCatalog(), newCatalog(), nil)
	checkIn, checkOut := stay(4)

	quote, err := engine.Quote(context.Background(), Context{
		PropertyID:  1,
		RatePlanID:  20,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      1,
		RoomTypeIDs: []uint64{10},
		AddOnIDs:    []uint64{30},
	})
	require.NoError(t, err)
	// 4 nights x $100 + one $25 breakfast, regardless of stay length
	assert.Equal(t, "425.00", quote.Total.Amount())
}

func TestQuote_FallsBackToPlanDefaultRate(t *testing.T) {
	catalog := newCatalog()
	catalog.plans[20].DefaultRate = money(8000)
	engine := NewEngine(catalog, catalog, catalog, catalog, nil)
	checkIn, checkOut := stay(1)

	quote, err := engine.Quote(context.Background(), Context{
		PropertyID:  1,
		RatePlanID:  20,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      1,
		RoomTypeIDs: []uint64{11}, // type without its own base rate
	})
	require.NoError(t, err)
	assert.Equal(t, "80.00", quote.Total.Amount())
}

func TestQuote_ZeroRateWithoutAnyFallback(t *testing.T) {
	engine := NewEngine(newCatalog(), newCatalog(), newCatalog(), newCatalog(), nil)
	checkIn, checkOut := stay(2)

	quote, err := engine.Quote(context.Background(), Context{
		PropertyID:  1,
		RatePlanID:  20,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      1,
		RoomTypeIDs: []uint64{11},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", quote.Total.Amount())
	assert.Equal(t, "USD", quote.Total.Currency)
}

func TestQuote_InvalidDateRange(t *testing.T) {
	engine := NewEngine(newCatalog(), newCatalog(), newCatalog(), newCatalog(), nil)
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	_, err := engine.Quote(context.Background(), Context{
		PropertyID: 1, RatePlanID: 20, CheckIn: day, CheckOut: day, Adults: 1, RoomTypeIDs: []uint64{10},
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = engine.Quote(context.Background(), Context{
		PropertyID: 1, RatePlanID: 20, CheckIn: day, CheckOut: day.AddDate(0, 0, -1), Adults: 1, RoomTypeIDs: []uint64{10},
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestQuote_EmptyRoomTypeSet(t *testing.T) {
	engine := NewEngine(newCatalog(), newCatalog(), newCatalog(), newCatalog(), nil)
	checkIn, checkOut := stay(1)

	_, err := engine.Quote(context.Background(), Context{
		PropertyID: 1, RatePlanID: 20, CheckIn: checkIn, CheckOut: checkOut, Adults: 1,
	})
	assert.ErrorIs(t, err, ErrEmptyRoomTypeSet)
}

func TestQuote_CurrencyMismatch(t *testing.T) {
	catalog := newCatalog()
	rate := model.NewMoney(9000, "EUR")
	catalog.roomTypes[10].BaseRate = &rate
	engine := NewEngine(catalog, catalog, catalog, catalog, nil)
	checkIn, checkOut := stay(1)

	_, err := engine.Quote(context.Background(), Context{
		PropertyID: 1, RatePlanID: 20, CheckIn: checkIn, CheckOut: checkOut, Adults: 1, RoomTypeIDs: []uint64{10},
	})
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestQuote_RejectsForeignPropertyRoomType(t *testing.T) {
	catalog := newCatalog()
	catalog.roomTypes[12] = &model.RoomType{ID: 12, PropertyID: 2, Code: "CABIN", Name: "Cabin", BaseRate: money(5000)}
	engine := NewEngine(catalog, catalog, catalog, catalog, nil)
	checkIn, checkOut := stay(1)

	_, err := engine.Quote(context.Background(), Context{
		PropertyID: 1, RatePlanID: 20, CheckIn: checkIn, CheckOut: checkOut, Adults: 1, RoomTypeIDs: []uint64{12},
	})
	assert.ErrorIs(t, err, repository.ErrRoomTypeMismatch)
}

func TestQuote_RoomTypeNotEligible(t *testing.T) {
	catalog := newCatalog()
	catalog.plans[20].EligibleRoomTypeIDs = []uint64{11}
	engine := NewEngine(catalog, catalog, catalog, catalog, nil)
	checkIn, checkOut := stay(1)

	_, err := engine.Quote(context.Background(), Context{
		PropertyID: 1, RatePlanID: 20, CheckIn: checkIn, CheckOut: checkOut, Adults: 1, RoomTypeIDs: []uint64{10},
	})
	assert.ErrorIs(t, err, ErrRoomTypeNotEligible)
}
