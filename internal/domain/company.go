package domain

// CrmCompany is a business entity fetched from the CRM. The snapshot is
// immutable for the duration of a single search.
type CrmCompany struct {
	ID                 string
	Name               string
	ExternalPaymentsID string
	Status             string
	Description        string
}

// CrmContact is a person record from the CRM. CompanyName is a free-text
// field, not a foreign key; association with a company is heuristic.
type CrmContact struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyName string
}
