package models

import "time"

// Fixed option sets offered by the booking form. Submissions outside these
// are rejected before any side effect.
var (
	ServiceOptions = []string{
		"Basic Wash",
		"Super Wash & Interior",
		"Single-Stage Polish",
		"Glass Polish",
		"Basic Ceramic (6-9 Months)",
		"Ceramic Care+ (18-24 Months)",
	}

	CarTypeOptions = []string{
		"Sedan",
		"SUV",
		"Microbus",
	}
)

// BookingRequest is the raw booking form body. Everything is optional text
// here; required-field enforcement happens after normalization.
type BookingRequest struct {
	Service       string `json:"service"`
	CarType       string `json:"carType"`
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	DateTimeLocal string `json:"dateTimeLocal"`
	Remarks       string `json:"remarks"`
	SourcePage    string `json:"sourcePage"`
}

// BookingSubmission is the normalized, validated form of a BookingRequest.
// Validation tags drive the missing_fields/invalid_fields distinction:
// `required` failures report missing fields, `oneof` failures invalid ones.
type BookingSubmission struct {
	Service     string    `validate:"required,oneof='Basic Wash' 'Super Wash & Interior' 'Single-Stage Polish' 'Glass Polish' 'Basic Ceramic (6-9 Months)' 'Ceramic Care+ (18-24 Months)'"`
	CarType     string    `validate:"required,oneof=Sedan SUV Microbus"`
	FullName    string    `validate:"required"`
	Phone       string    `validate:"required"`
	Address     string    `validate:"required"`
	RequestedAt time.Time `validate:"required"`
	Remarks     *string
	SourcePage  *string
}

// RequestMeta is audit metadata captured read-only from request headers
type RequestMeta struct {
	UserAgent *string
	IP        *string
	Referer   *string
}

// BookingRecord is the row shape handed to the store. Delivery metadata
// (relay status and response) rides on the same record as denormalized
// fields.
type BookingRecord struct {
	Service           string
	CarType           string
	FullName          string
	Phone             string
	Address           string
	RequestedAt       time.Time
	Remarks           *string
	SourcePage        *string
	UserAgent         *string
	IP                *string
	FormspreeStatus   *int
	FormspreeResponse interface{}
}

// BookingOutcome is the service-level result of a submission: one value per
// sink plus the collapsed status the handler maps to an HTTP code
type BookingOutcome struct {
	Status          string
	Message         string
	BookingID       *int64
	SavedToSupabase bool
	EmailSent       bool
	StoreError      *string
}

// StoredBooking is a persisted booking row, as returned by the internal
// lead-listing endpoint
type StoredBooking struct {
	ID              int64     `json:"id"`
	Service         string    `json:"service"`
	CarType         string    `json:"carType"`
	FullName        string    `json:"fullName"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	RequestedAt     time.Time `json:"requestedAt"`
	Remarks         *string   `json:"remarks"`
	SourcePage      *string   `json:"sourcePage"`
	FormspreeStatus *int      `json:"formspreeStatus"`
	CreatedAt       time.Time `json:"createdAt"`
}
