package model

// Guest is a row in the external Guest Directory.  This engine only ever
// verifies that a guest exists; profile management lives elsewhere.
type Guest struct {
	ID        uint64 // guests.id
	Email     string // guests.email
	FirstName string // guests.first_name
	LastName  string // guests.last_name
	Phone     string // guests.phone
}
