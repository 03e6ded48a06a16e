package model

// Property is a motel site whose inventory this engine allocates.
// Properties are reference data owned by an external administration
// surface; this core only reads them.
//
// Fields:
//  ID           – primary key identifier.
//  Code         – unique human code, used as the booking reference prefix.
//  Name         – display name.
//  Timezone     – IANA timezone the property operates in.
//  Currency     – default ISO currency for rates missing their own.
//  AddressLine  – street address.
//  City         – city.
//  Region       – state or region.
//  PostalCode   – postal code.
//  Country      – ISO country code.
//  ContactEmail – front-desk contact email.
//  ContactPhone – front-desk contact phone.
type Property struct {
	ID           uint64 // properties.id
	Code         string // properties.code
	Name         string // properties.name
	Timezone     string // properties.timezone
	Currency     string // properties.currency
	AddressLine  string // properties.address_line
	City         string // properties.city
	Region       string // properties.region
	PostalCode   string // properties.postal_code
	Country      string // properties.country
	ContactEmail string // properties.contact_email
	ContactPhone string // properties.contact_phone
}
