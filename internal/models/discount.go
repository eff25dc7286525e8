package models

import "time"

// DiscountClaimRequest is the discount coupon claim body. All fields arrive
// as free text from the form; normalization happens in the service.
type DiscountClaimRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	CarModel string `json:"carModel"`
}

// DiscountClaim is a normalized claim ready for insertion. The issued
// percentage is drawn once at creation time and never changes.
type DiscountClaim struct {
	Name     string
	Phone    string
	CarModel string
	Discount int
}

// DiscountOutcome is the service-level result of a claim attempt
type DiscountOutcome struct {
	Status   string `json:"status"`
	Discount int    `json:"discount,omitempty"`
	Message  string `json:"message,omitempty"`
}

// StoredDiscount is a persisted claim row, as returned by the internal
// lead-listing endpoint
type StoredDiscount struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CarModel  string    `json:"carModel"`
	Discount  int       `json:"discount"`
	CreatedAt time.Time `json:"createdAt"`
}
