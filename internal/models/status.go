package models

// Response status values shared by the discount and booking endpoints. These
// are part of the public API contract consumed by the site's form components.
const (
	StatusOK             = "ok"
	StatusInvalidJSON    = "invalid_json"
	StatusMissingFields  = "missing_fields"
	StatusInvalidFields  = "invalid_fields"
	StatusDuplicate      = "duplicate"
	StatusFormspreeError = "formspree_error"
	StatusMisconfigured  = "misconfigured"
	StatusError          = "error"
)
