package domain

import "time"

// Customer types assigned by the payments platform.
const (
	CustomerTypeBusiness = "business"
	CustomerTypePersonal = "personal"
)

// Lifecycle statuses used by the payments platform.
const (
	CustomerStatusUnverified = "unverified"
	CustomerStatusVerified   = "verified"
	CustomerStatusSuspended  = "suspended"
	CustomerStatusRetry      = "retry"
)

// PaymentsCustomer is a customer entity from the payments platform.
// BusinessName is set for business customers, FirstName/LastName for
// personal ones.
type PaymentsCustomer struct {
	ID           string
	Type         string
	BusinessName string
	FirstName    string
	LastName     string
	Email        string
	Status       string
	Created      time.Time
}

// Amount is a decimal monetary value. The value is kept as the platform's
// string representation to avoid floating-point error.
type Amount struct {
	Value    string
	Currency string
}

// PaymentsTransfer is a money-movement record. SourceID and DestinationID
// reference the party ids on either side; a transfer belongs to a customer
// when either side matches the customer's id.
type PaymentsTransfer struct {
	ID            string
	Status        string
	Amount        Amount
	Created       time.Time
	SourceID      string
	DestinationID string
}
