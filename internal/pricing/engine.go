package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/westbethel/motel-booking/internal/model"
	"github.com/westbethel/motel-booking/internal/repository"
)

var (
	// ErrInvalidDateRange is returned when the stay has no nights.
	ErrInvalidDateRange = errors.New("pricing: check-out must be after check-in")
	// ErrEmptyRoomTypeSet is returned when a quote names no room types.
	ErrEmptyRoomTypeSet = errors.New("pricing: at least one room type required")
	// ErrRoomTypeNotEligible is returned when the rate plan's eligible
	// set excludes a requested room type.
	ErrRoomTypeNotEligible = errors.New("pricing: room type not eligible for rate plan")
	// ErrCurrencyMismatch is returned when any rate carries a currency
	// different from the property default.  The property currency is the
	// single source of truth; mixed-currency quotes are rejected outright.
	ErrCurrencyMismatch = errors.New("pricing: rate currency differs from property currency")
)

// Context is the full pricing context of one prospective stay.
type Context struct {
	PropertyID  uint64
	RatePlanID  uint64
	CheckIn     time.Time
	CheckOut    time.Time
	Adults      uint32
	Children    uint32
	GuestID     uint64
	RoomTypeIDs []uint64
	AddOnIDs    []uint64
}

// Line is one priced component of a quote.
type Line struct {
	Description string
	Quantity    uint32
	Unit        model.Money
	Total       model.Money
}

// Quote is the result of pricing a stay: per-line detail plus base, tax
// and grand total, all in the property currency.
type Quote struct {
	Lines []Line
	Base  model.Money
	Tax   model.Money
	Total model.Money
}

// TaxPolicy computes the tax owed on a base amount.  The core ships
// only ZeroTaxPolicy; jurisdictional tax rules live outside this engine.
type TaxPolicy interface {
	Tax(base model.Money) model.Money
}

// ZeroTaxPolicy charges no tax.
type ZeroTaxPolicy struct{}

func (ZeroTaxPolicy) Tax(base model.Money) model.Money {
	return model.Money{Cents: 0, Currency: base.Currency}
}

// PropertyStore resolves properties.
type PropertyStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
}

// RoomTypeStore resolves room types.
type RoomTypeStore interface {
	RoomTypeByID(ctx context.Context, id uint64) (*model.RoomType, error)
}

// RatePlanStore resolves rate plans scoped to a property.
type RatePlanStore interface {
	GetByPropertyAndID(ctx context.Context, propertyID, id uint64) (*model.RatePlan, error)
}

// AddOnStore resolves per-stay add-ons scoped to a property.
type AddOnStore interface {
	GetByIDs(ctx context.Context, propertyID uint64, ids []uint64) ([]model.AddOn, error)
}

// Engine produces deterministic quotes: the same context always prices
// to the same cents.  All arithmetic happens in integer cents; decimal
// input was rounded half-up when it entered the system.
type Engine struct {
	properties PropertyStore
	roomTypes  RoomTypeStore
	ratePlans  RatePlanStore
	addons     AddOnStore
	tax        TaxPolicy
}

// NewEngine builds a pricing engine.  A nil tax policy defaults to
// ZeroTaxPolicy.
func NewEngine(properties PropertyStore, roomTypes RoomTypeStore, ratePlans RatePlanStore, addons AddOnStore, tax TaxPolicy) *Engine {
	if tax == nil {
		tax = ZeroTaxPolicy{}
	}
	return &Engine{properties: properties, roomTypes: roomTypes, ratePlans: ratePlans, addons: addons, tax: tax}
}

// Quote prices a prospective stay.  Every requested room type must
// belong to the quoted property.  Per room type the nightly rate is
// the type's base rate, falling back to the rate plan's default rate,
// falling back to zero.  Add-ons price once per stay.  Every rate must
// be in the property currency.
func (e *Engine) Quote(ctx context.Context, pc Context) (*Quote, error) {
	nights := int64(pc.CheckOut.Sub(pc.CheckIn).Hours() / 24)
	if nights <= 0 {
		return nil, ErrInvalidDateRange
	}
	if len(pc.RoomTypeIDs) == 0 {
		return nil, ErrEmptyRoomTypeSet
	}
	property, err := e.properties.GetByID(ctx, pc.PropertyID)
	if err != nil {
		return nil, err
	}
	plan, err := e.ratePlans.GetByPropertyAndID(ctx, pc.PropertyID, pc.RatePlanID)
	if err != nil {
		return nil, err
	}
	quote := &Quote{
		Base:  model.Money{Currency: property.Currency},
		Lines: make([]Line, 0, len(pc.RoomTypeIDs)+len(pc.AddOnIDs)),
	}
	for _, rtID := range pc.RoomTypeIDs {
		rt, err := e.roomTypes.RoomTypeByID(ctx, rtID)
		if err != nil {
			return nil, err
		}
		if rt.PropertyID != property.ID {
			return nil, repository.ErrRoomTypeMismatch
		}
		if !planCovers(plan, rt.ID) {
			return nil, ErrRoomTypeNotEligible
		}
		nightly, err := nightlyRate(rt, plan, property.Currency)
		if err != nil {
			return nil, err
		}
		lineTotal := nightly.MulNights(nights)
		quote.Lines = append(quote.Lines, Line{
			Description: fmt.Sprintf("%s x %d nights", rt.Name, nights),
			Quantity:    uint32(nights),
			Unit:        nightly,
			Total:       lineTotal,
		})
		quote.Base = quote.Base.Add(lineTotal)
	}
	if len(pc.AddOnIDs) > 0 {
		addons, err := e.addons.GetByIDs(ctx, pc.PropertyID, pc.AddOnIDs)
		if err != nil {
			return nil, err
		}
		for _, a := range addons {
			if a.Price.Currency != "" && a.Price.Currency != property.Currency {
				return nil, ErrCurrencyMismatch
			}
			price := model.Money{Cents: a.Price.Cents, Currency: property.Currency}
			quote.Lines = append(quote.Lines, Line{
				Description: a.Name,
				Quantity:    1,
				Unit:        price,
				Total:       price,
			})
			quote.Base = quote.Base.Add(price)
		}
	}
	quote.Tax = e.tax.Tax(quote.Base)
	if quote.Tax.Currency != property.Currency {
		return nil, ErrCurrencyMismatch
	}
	quote.Total = quote.Base.Add(quote.Tax)
	return quote, nil
}

// planCovers reports whether the rate plan may price a room type.  A
// plan with an empty eligible set covers every type of its property.
func planCovers(plan *model.RatePlan, roomTypeID uint64) bool {
	if len(plan.EligibleRoomTypeIDs) == 0 {
		return true
	}
	for _, id := range plan.EligibleRoomTypeIDs {
		if id == roomTypeID {
			return true
		}
	}
	return false
}

// nightlyRate resolves the nightly rate of one room type and validates
// its currency against the property default.
func nightlyRate(rt *model.RoomType, plan *model.RatePlan, currency string) (model.Money, error) {
	rate := &model.Money{}
	switch {
	case rt.BaseRate != nil:
		rate = rt.BaseRate
	case plan.DefaultRate != nil:
		rate = plan.DefaultRate
	}
	if rate.Currency != "" && rate.Currency != currency {
		return model.Money{}, ErrCurrencyMismatch
	}
	return model.Money{Cents: rate.Cents, Currency: currency}, nil
}
