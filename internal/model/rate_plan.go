package model

// Booking channels a rate plan can be sold through.
const (
	ChannelDirect = "DIRECT"
	ChannelOTA    = "OTA"
	ChannelWalkIn = "WALK_IN"
)

// RatePlan is a named pricing and policy bundle.  The eligible room type
// set scopes which types the plan may price; the default rate backstops
// room types without a base rate of their own.  Policy texts are opaque
// to this engine.
//
// Fields:
//  ID                  – primary key identifier.
//  PropertyID          – owning property.
//  Name                – plan name.
//  Channel             – sales channel (DIRECT, OTA, WALK_IN).
//  EligibleRoomTypeIDs – room types this plan applies to.
//  DefaultRate         – fallback nightly rate; nil when absent.
//  PricingRules        – opaque policy text.
//  CancellationPolicy  – opaque policy text.
type RatePlan struct {
	ID                  uint64   // rate_plans.id
	PropertyID          uint64   // rate_plans.property_id
	Name                string   // rate_plans.name
	Channel             string   // rate_plans.channel
	EligibleRoomTypeIDs []uint64 // rate_plan_room_types.room_type_id
	DefaultRate         *Money   // rate_plans.default_rate_cents / default_rate_currency (nullable)
	PricingRules        string   // rate_plans.pricing_rules
	CancellationPolicy  string   // rate_plans.cancellation_policy
}
