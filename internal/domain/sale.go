package domain

import (
	"time"
)

// Sale represents a single inquiry/customer record. One Sale exists per
// email address; repeat submissions update the existing record in place.
type Sale struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Phone         string     `json:"phone" db:"phone"`
	PropertyType  string     `json:"property_type" db:"property_type"`
	DoorCount     string     `json:"door_count" db:"door_count"`
	Message       string     `json:"message" db:"message"`
	Status        string     `json:"status" db:"status"`
	PreferredDate *time.Time `json:"preferred_date" db:"preferred_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// StatusTracking is a single row of the append-only status audit ledger.
// Entries are never mutated or deleted after insert.
type StatusTracking struct {
	ID        string    `json:"id" db:"id"`
	SaleID    string    `json:"sale_id" db:"sale_id"`
	Status    string    `json:"status" db:"status"`
	Notes     string    `json:"notes" db:"notes"`
	UpdatedBy string    `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PropertyTypes lists the property categories offered on the inquiry form.
// Free text is still accepted; these are the suggested values.
var PropertyTypes = []string{
	"Residential Block",
	"Commercial",
	"HMO",
	"Care Home",
	"Hotel",
	"Office",
	"Other",
}

// DoorCountRanges lists the bucketed door-count options on the inquiry form.
var DoorCountRanges = []string{
	"1-5",
	"6-10",
	"11-20",
	"21-50",
	"50+",
}
