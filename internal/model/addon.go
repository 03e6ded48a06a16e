package model

// AddOn is an optional extra (breakfast, late checkout, pet fee) priced
// once per stay and attached to a booking at creation time.
//
// Fields:
//  ID          – primary key identifier.
//  PropertyID  – owning property.
//  Name        – display name.
//  Description – marketing description.
//  Price       – per-stay price.
type AddOn struct {
	ID          uint64 // addons.id
	PropertyID  uint64 // addons.property_id
	Name        string // addons.name
	Description string // addons.description
	Price       Money  // addons.price_cents / price_currency
}
