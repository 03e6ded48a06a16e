package database

import (
	"database/sql"
	"fmt"
)

const createPropertiesSQL = `
CREATE TABLE IF NOT EXISTS properties (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	code VARCHAR(16) NOT NULL UNIQUE,
	name VARCHAR(128) NOT NULL,
	timezone VARCHAR(64) NOT NULL,
	currency CHAR(3) NOT NULL,
	address_line VARCHAR(255) NOT NULL DEFAULT '',
	city VARCHAR(64) NOT NULL DEFAULT '',
	region VARCHAR(64) NOT NULL DEFAULT '',
	postal_code VARCHAR(16) NOT NULL DEFAULT '',
	country CHAR(2) NOT NULL DEFAULT '',
	contact_email VARCHAR(255) NOT NULL DEFAULT '',
	contact_phone VARCHAR(32) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB;`

const createRoomTypesSQL = `
CREATE TABLE IF NOT EXISTS room_types (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	property_id BIGINT UNSIGNED NOT NULL,
	code VARCHAR(32) NOT NULL,
	name VARCHAR(128) NOT NULL,
	description VARCHAR(512) NOT NULL DEFAULT '',
	capacity INT UNSIGNED NOT NULL,
	amenities VARCHAR(512) NOT NULL DEFAULT '',
	base_rate_cents BIGINT NULL,
	base_rate_currency CHAR(3) NULL,
	UNIQUE KEY uq_room_types_property_code (property_id, code),
	FOREIGN KEY (property_id) REFERENCES properties(id)
) ENGINE=InnoDB;`

const createRoomsSQL = `
CREATE TABLE IF NOT EXISTS rooms (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	property_id BIGINT UNSIGNED NOT NULL,
	room_type_id BIGINT UNSIGNED NOT NULL,
	room_number VARCHAR(16) NOT NULL,
	floor INT NOT NULL,
	status VARCHAR(24) NOT NULL DEFAULT 'AVAILABLE',
	UNIQUE KEY uq_rooms_property_number (property_id, room_number),
	FOREIGN KEY (property_id) REFERENCES properties(id),
	FOREIGN KEY (room_type_id) REFERENCES room_types(id)
) ENGINE=InnoDB;`

const createRatePlansSQL = `
CREATE TABLE IF NOT EXISTS rate_plans (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	property_id BIGINT UNSIGNED NOT NULL,
	name VARCHAR(128) NOT NULL,
	channel VARCHAR(24) NOT NULL,
	default_rate_cents BIGINT NULL,
	default_rate_currency CHAR(3) NULL,
	pricing_rules TEXT NOT NULL,
	cancellation_policy TEXT NOT NULL,
	FOREIGN KEY (property_id) REFERENCES properties(id)
) ENGINE=InnoDB;`

const createRatePlanRoomTypesSQL = `
CREATE TABLE IF NOT EXISTS rate_plan_room_types (
	rate_plan_id BIGINT UNSIGNED NOT NULL,
	room_type_id BIGINT UNSIGNED NOT NULL,
	PRIMARY KEY (rate_plan_id, room_type_id),
	FOREIGN KEY (rate_plan_id) REFERENCES rate_plans(id),
	FOREIGN KEY (room_type_id) REFERENCES room_types(id)
) ENGINE=InnoDB;`

const createGuestsSQL = `
CREATE TABLE IF NOT EXISTS guests (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	first_name VARCHAR(64) NOT NULL,
	last_name VARCHAR(64) NOT NULL,
	phone VARCHAR(32) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB;`

const createAddOnsSQL = `
CREATE TABLE IF NOT EXISTS addons (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	property_id BIGINT UNSIGNED NOT NULL,
	name VARCHAR(128) NOT NULL,
	description VARCHAR(512) NOT NULL DEFAULT '',
	price_cents BIGINT NOT NULL,
	price_currency CHAR(3) NOT NULL,
	FOREIGN KEY (property_id) REFERENCES properties(id)
) ENGINE=InnoDB;`

const createBookingsSQL = `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	property_id BIGINT UNSIGNED NOT NULL,
	reference VARCHAR(32) NOT NULL UNIQUE,
	guest_id BIGINT UNSIGNED NOT NULL,
	status VARCHAR(24) NOT NULL,
	payment_status VARCHAR(24) NOT NULL,
	channel VARCHAR(24) NOT NULL,
	source VARCHAR(64) NOT NULL DEFAULT '',
	check_in DATE NOT NULL,
	check_out DATE NOT NULL,
	adults INT UNSIGNED NOT NULL,
	children INT UNSIGNED NOT NULL,
	rate_plan_id BIGINT UNSIGNED NOT NULL,
	total_cents BIGINT NOT NULL,
	total_currency CHAR(3) NOT NULL,
	balance_due_cents BIGINT NOT NULL,
	version BIGINT UNSIGNED NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_bookings_property_dates (property_id, check_in, check_out),
	FOREIGN KEY (property_id) REFERENCES properties(id),
	FOREIGN KEY (guest_id) REFERENCES guests(id),
	FOREIGN KEY (rate_plan_id) REFERENCES rate_plans(id)
) ENGINE=InnoDB;`

const createBookingRoomsSQL = `
CREATE TABLE IF NOT EXISTS booking_rooms (
	booking_id BIGINT UNSIGNED NOT NULL,
	room_id BIGINT UNSIGNED NOT NULL,
	PRIMARY KEY (booking_id, room_id),
	FOREIGN KEY (booking_id) REFERENCES bookings(id),
	FOREIGN KEY (room_id) REFERENCES rooms(id)
) ENGINE=InnoDB;`

// booking_room_nights is the occupancy ledger.  The unique key on
// (room_id, night) is what rejects a concurrent double booking at the
// database level.
const createBookingRoomNightsSQL = `
CREATE TABLE IF NOT EXISTS booking_room_nights (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT UNSIGNED NOT NULL,
	room_id BIGINT UNSIGNED NOT NULL,
	night DATE NOT NULL,
	UNIQUE KEY uq_room_night (room_id, night),
	KEY idx_night_booking (booking_id),
	FOREIGN KEY (booking_id) REFERENCES bookings(id),
	FOREIGN KEY (room_id) REFERENCES rooms(id)
) ENGINE=InnoDB;`

const createBookingAddOnsSQL = `
CREATE TABLE IF NOT EXISTS booking_addons (
	booking_id BIGINT UNSIGNED NOT NULL,
	addon_id BIGINT UNSIGNED NOT NULL,
	PRIMARY KEY (booking_id, addon_id),
	FOREIGN KEY (booking_id) REFERENCES bookings(id),
	FOREIGN KEY (addon_id) REFERENCES addons(id)
) ENGINE=InnoDB;`

const createInvoicesSQL = `
CREATE TABLE IF NOT EXISTS invoices (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT UNSIGNED NOT NULL UNIQUE,
	property_id BIGINT UNSIGNED NOT NULL,
	number VARCHAR(32) NOT NULL UNIQUE,
	status VARCHAR(24) NOT NULL,
	subtotal_cents BIGINT NOT NULL,
	tax_cents BIGINT NOT NULL,
	grand_total_cents BIGINT NOT NULL,
	currency CHAR(3) NOT NULL,
	balance_due_cents BIGINT NULL,
	version BIGINT UNSIGNED NOT NULL DEFAULT 0,
	issued_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (booking_id) REFERENCES bookings(id),
	FOREIGN KEY (property_id) REFERENCES properties(id)
) ENGINE=InnoDB;`

const createInvoiceLineItemsSQL = `
CREATE TABLE IF NOT EXISTS invoice_line_items (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	invoice_id BIGINT UNSIGNED NOT NULL,
	description VARCHAR(255) NOT NULL,
	quantity INT UNSIGNED NOT NULL,
	unit_cents BIGINT NOT NULL,
	total_cents BIGINT NOT NULL,
	FOREIGN KEY (invoice_id) REFERENCES invoices(id)
) ENGINE=InnoDB;`

const createPaymentsSQL = `
CREATE TABLE IF NOT EXISTS payments (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	invoice_id BIGINT UNSIGNED NOT NULL,
	method VARCHAR(24) NOT NULL,
	processor VARCHAR(64) NOT NULL,
	amount_cents BIGINT NOT NULL,
	currency CHAR(3) NOT NULL,
	status VARCHAR(24) NOT NULL,
	auth_code VARCHAR(32) NOT NULL,
	failure_reason VARCHAR(255) NULL,
	processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_payments_auth_code (auth_code),
	FOREIGN KEY (invoice_id) REFERENCES invoices(id)
) ENGINE=InnoDB;`

// Migrate creates every table the engine needs.  Statements are
// idempotent and ordered so foreign keys resolve.
func Migrate(db *sql.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"properties", createPropertiesSQL},
		{"room_types", createRoomTypesSQL},
		{"rooms", createRoomsSQL},
		{"rate_plans", createRatePlansSQL},
		{"rate_plan_room_types", createRatePlanRoomTypesSQL},
		{"guests", createGuestsSQL},
		{"addons", createAddOnsSQL},
		{"bookings", createBookingsSQL},
		{"booking_rooms", createBookingRoomsSQL},
		{"booking_room_nights", createBookingRoomNightsSQL},
		{"booking_addons", createBookingAddOnsSQL},
		{"invoices", createInvoicesSQL},
		{"invoice_line_items", createInvoiceLineItemsSQL},
		{"payments", createPaymentsSQL},
	}
	for _, s := range stmts {
		if _, err := db.Exec(s.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
